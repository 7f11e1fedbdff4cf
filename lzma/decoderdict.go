package lzma

import (
	"errors"
	"fmt"
)

// decoderDict provides the dictionary for the decoder. Decoded data is
// written at the head of the buffer and remains there until it is read
// out, so the buffer serves as dictionary window and output queue at the
// same time.
type decoderDict struct {
	buf      buffer
	head     int64
	capacity int
}

// initDecoderDict initializes the decoder dictionary. The allocated
// buffer will be the maximum of dictCap and bufSize, so bufSize gives a
// minimum for the buffer.
func initDecoderDict(d *decoderDict, dictCap, bufSize int) error {
	if err := verifyDictSize(dictCap); err != nil {
		return err
	}
	if dictCap > bufSize {
		bufSize = dictCap
	}
	if err := initBuffer(&d.buf, bufSize); err != nil {
		return err
	}
	d.head = 0
	d.capacity = dictCap
	return nil
}

// Reset clears the dictionary. The buffered data is not touched, so it
// can still be read, but it is no longer addressable by matches.
func (d *decoderDict) Reset() {
	d.head = 0
}

// pos returns the position of the dictionary head.
func (d *decoderDict) pos() int64 { return d.head }

// dictLen returns the actual length of the dictionary window.
func (d *decoderDict) dictLen() int {
	if d.head >= int64(d.capacity) {
		return d.capacity
	}
	return int(d.head)
}

// byteAt returns the byte at the given distance before the head. If the
// distance is non-positive or exceeds the dictionary length the zero
// byte is returned.
func (d *decoderDict) byteAt(dist int) byte {
	if !(0 < dist && dist <= d.dictLen()) {
		return 0
	}
	i := d.buf.front - dist
	if i < 0 {
		i += len(d.buf.data)
	}
	return d.buf.data[i]
}

// writeByte writes a single literal byte at the head.
func (d *decoderDict) writeByte(c byte) error {
	if err := d.buf.WriteByte(c); err != nil {
		return err
	}
	d.head++
	return nil
}

// writeMatch copies the match at the head of the dictionary. The
// distance must point into the current dictionary window and the length
// must not exceed the maximum match length. errNoSpace indicates that
// the buffered data must be read out first.
func (d *decoderDict) writeMatch(dist int, length int) error {
	if !(0 < dist && dist <= d.dictLen()) {
		return fmt.Errorf(
			"lzma: match distance %d out of range", dist)
	}
	if !(0 < length && length <= maxMatchLen) {
		return errors.New("lzma: match length out of range")
	}
	if length > d.buf.Available() {
		return errNoSpace
	}
	d.head += int64(length)

	i := d.buf.front - dist
	if i < 0 {
		i += len(d.buf.data)
	}
	for length > 0 {
		var p []byte
		if i >= d.buf.front {
			p = d.buf.data[i:]
			i = 0
		} else {
			p = d.buf.data[i:d.buf.front]
			i = d.buf.front
		}
		if len(p) > length {
			p = p[:length]
		}
		if _, err := d.buf.Write(p); err != nil {
			panic(fmt.Errorf("buffer write error %s", err))
		}
		length -= len(p)
	}
	return nil
}

// Write writes the given bytes at the head. It is used for uncompressed
// chunks.
func (d *decoderDict) Write(p []byte) (n int, err error) {
	n, err = d.buf.Write(p)
	d.head += int64(n)
	return n, err
}

// Available returns the number of bytes that can be written before the
// buffer must be read out.
func (d *decoderDict) Available() int { return d.buf.Available() }

// Read reads decoded data out of the dictionary buffer.
func (d *decoderDict) Read(p []byte) (n int, err error) {
	return d.buf.Read(p)
}

// buffered returns the number of decoded bytes not read out yet.
func (d *decoderDict) buffered() int { return d.buf.Buffered() }
