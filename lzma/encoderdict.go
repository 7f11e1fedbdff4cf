package lzma

import (
	"errors"
	"io"
)

// encoderDict provides the dictionary for the encoder. It holds the
// already encoded data in a window of capacity bytes behind the head and
// buffers data still to be encoded in front of it. All buffered bytes are
// fed into the match finder as they are written, so matches can be
// queried for any position of the lookahead, which the optimizing parser
// requires.
type encoderDict struct {
	buf buffer
	m   matchFinder
	// position of the encoder head
	head int64
	// capacity of the dictionary window
	capacity int
}

// initEncoderDict initializes the encoder dictionary. The buffer size
// gives the space for data still to be encoded.
func initEncoderDict(d *encoderDict, dictCap, bufSize, depth int) error {
	if err := verifyDictSize(dictCap); err != nil {
		return err
	}
	if bufSize < maxMatchLen {
		return errors.New("lzma: buffer size out of range")
	}
	if err := initBuffer(&d.buf, dictCap+bufSize); err != nil {
		return err
	}
	if err := d.m.init(dictCap, len(d.buf.data), depth); err != nil {
		return err
	}
	d.head = 0
	d.capacity = dictCap
	return nil
}

// Reset clears the dictionary. The head position is set back to zero and
// the match finder forgets all indexed data.
func (d *encoderDict) Reset() {
	d.buf.front = 0
	d.buf.rear = 0
	d.head = 0
	d.m.reset()
}

// Pos returns the position of the encoder head.
func (d *encoderDict) Pos() int64 { return d.head }

// DictLen returns the number of bytes stored in the dictionary window.
func (d *encoderDict) DictLen() int {
	if d.head >= int64(d.capacity) {
		return d.capacity
	}
	return int(d.head)
}

// Buffered returns the number of bytes buffered in front of the head.
func (d *encoderDict) Buffered() int { return d.buf.Buffered() }

// Available returns the number of bytes that can be written without
// overwriting dictionary data.
func (d *encoderDict) Available() int {
	return d.buf.Available() - d.DictLen()
}

// Write appends data to the buffer in front of the head and feeds it into
// the match finder. If not all bytes fit errNoSpace is returned.
func (d *encoderDict) Write(p []byte) (n int, err error) {
	m := d.Available()
	if len(p) > m {
		p = p[:m]
		err = errNoSpace
	}
	var e error
	if n, e = d.buf.Write(p); e != nil {
		err = e
	}
	d.m.feed(p[:n])
	return n, err
}

// Advance moves the head n bytes forward. The skipped bytes become part of
// the dictionary window.
func (d *encoderDict) Advance(n int) {
	if !(0 < n && n <= d.Buffered()) {
		panic("lzma: invalid advance")
	}
	d.head += int64(n)
	d.buf.Discard(n)
}

// ByteAt returns the byte at the given offset from the head. Negative
// offsets address dictionary data, non-negative offsets the buffered
// lookahead. Out-of-range offsets return zero.
func (d *encoderDict) ByteAt(i int) byte {
	if !(-d.DictLen() <= i && i < d.Buffered()) {
		return 0
	}
	j := d.buf.rear + i
	if j < 0 {
		j += len(d.buf.data)
	} else if j >= len(d.buf.data) {
		j -= len(d.buf.data)
	}
	return d.buf.data[j]
}

// Literal returns the byte at the head position.
func (d *encoderDict) Literal() byte { return d.ByteAt(0) }

// MatchLen computes the length of the match at offset i from the head
// against the data dist bytes before it. At most max bytes are compared.
func (d *encoderDict) MatchLen(i, dist, max int) int {
	if !(minDistance <= dist && dist <= d.DictLen()+i) {
		return 0
	}
	n := d.Buffered()
	return d.buf.EqualBytes(n-i+dist, n-i, max)
}

// Matches appends the distances of candidate matches at offset i from the
// head to dists. Candidates are unverified; the caller has to check the
// match length.
func (d *encoderDict) Matches(i int, dists []int) []int {
	if i+wordLen > d.Buffered() {
		return dists
	}
	maxDist := d.DictLen() + i
	if maxDist > d.capacity {
		maxDist = d.capacity
	}
	var word [wordLen]byte
	for k := range word {
		word[k] = d.ByteAt(i + k)
	}
	return d.m.matches(d.head+int64(i), word[:], maxDist, dists)
}

// CopyN copies the last n bytes before the head into the writer.
func (d *encoderDict) CopyN(w io.Writer, n int) (written int, err error) {
	if n <= 0 {
		return 0, nil
	}
	m := d.DictLen()
	if n > m {
		n = m
		err = errors.New("lzma: not enough data in dictionary")
	}
	i := d.buf.rear - n
	var e error
	if i < 0 {
		i += len(d.buf.data)
		if written, e = w.Write(d.buf.data[i:]); e != nil {
			return written, e
		}
		i = 0
	}
	var k int
	k, e = w.Write(d.buf.data[i:d.buf.rear])
	written += k
	if e != nil {
		err = e
	}
	return written, err
}
