package lzma

import "errors"

// buffer provides a circular buffer of bytes. If front equals rear the
// buffer is empty; as a consequence a full buffer stores one byte less
// than the length of the data slice.
type buffer struct {
	data  []byte
	front int
	rear  int
}

// initBuffer initializes a buffer with the given capacity.
func initBuffer(b *buffer, capacity int) error {
	// the second condition checks for overflow
	if !(0 < capacity && 0 < capacity+1) {
		return errors.New("lzma: buffer capacity out of range")
	}
	if len(b.data) == capacity+1 {
		b.front = 0
		b.rear = 0
		return nil
	}
	*b = buffer{data: make([]byte, capacity+1)}
	return nil
}

// Buffered returns the number of bytes buffered between rear and front.
func (b *buffer) Buffered() int {
	delta := b.front - b.rear
	if delta < 0 {
		delta += len(b.data)
	}
	return delta
}

// Available returns the number of bytes available for writing.
func (b *buffer) Available() int {
	delta := b.rear - 1 - b.front
	if delta < 0 {
		delta += len(b.data)
	}
	return delta
}

// addIndex adds a non-negative integer to the index i and takes care of
// wrapping it around.
func (b *buffer) addIndex(i int, n int) int {
	// subtraction of len(b.data) prevents overflow
	i += n - len(b.data)
	if i < 0 {
		i += len(b.data)
	}
	return i
}

// Read reads bytes from the buffer into p. It never returns an error but
// might return less data than requested.
func (b *buffer) Read(p []byte) (n int, err error) {
	m := b.Buffered()
	n = len(p)
	if m < n {
		n = m
		p = p[:n]
	}
	k := copy(p, b.data[b.rear:])
	if k < n {
		copy(p[k:], b.data)
	}
	b.rear = b.addIndex(b.rear, n)
	return n, nil
}

// Discard skips the next n bytes to read from the buffer, at most the
// number of bytes buffered, and returns the number of bytes discarded.
func (b *buffer) Discard(n int) int {
	if m := b.Buffered(); m < n {
		n = m
	}
	b.rear = b.addIndex(b.rear, n)
	return n
}

// Write puts data into the buffer. If fewer bytes are written than
// requested errNoSpace is returned.
func (b *buffer) Write(p []byte) (n int, err error) {
	m := b.Available()
	n = len(p)
	if m < n {
		n = m
		p = p[:m]
		err = errNoSpace
	}
	k := copy(b.data[b.front:], p)
	if k < n {
		copy(b.data, p[k:])
	}
	b.front = b.addIndex(b.front, n)
	return n, err
}

// WriteByte writes a single byte into the buffer.
func (b *buffer) WriteByte(c byte) error {
	if b.Available() < 1 {
		return errNoSpace
	}
	b.data[b.front] = c
	b.front = b.addIndex(b.front, 1)
	return nil
}

// EqualBytes counts how many bytes are equal when comparing two positions
// in the buffer. The arguments x and y give the distances of the start
// positions from the front index; max limits the number of bytes
// compared.
func (b *buffer) EqualBytes(x, y, max int) int {
	if x < 0 || y < 0 {
		return 0
	}
	if x < max {
		max = x
	}
	if y < max {
		max = y
	}
	i := b.front - x
	if i < 0 {
		i += len(b.data)
	}
	j := b.front - y
	if j < 0 {
		j += len(b.data)
	}
	for k := 0; k < max; k++ {
		if b.data[i] != b.data[j] {
			return k
		}
		i = b.addIndex(i, 1)
		j = b.addIndex(j, 1)
	}
	return max
}
