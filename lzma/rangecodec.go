package lzma

import (
	"bufio"
	"io"
)

const maxInt64 = 1<<63 - 1

// rangeEncoder implements range encoding of single bits. The low value can
// overflow, therefore we need a 64-bit integer for it. The cache byte
// together with cacheLen handles the carry propagation through pending 0xff
// bytes.
type rangeEncoder struct {
	bw       io.ByteWriter
	nrange   uint32
	low      uint64
	cache    byte
	cacheLen int64
	// number of bytes written to bw
	n int64
	// output limit in bytes; 0 means no limit
	limit int64
}

// init initializes the encoder for a new stream. A non-zero limit bounds
// the number of bytes the encoder may write; EncodeBit returns errLimit if
// it would be exceeded.
func (e *rangeEncoder) init(bw io.ByteWriter, limit int64) {
	*e = rangeEncoder{
		bw:       bw,
		nrange:   0xffffffff,
		cacheLen: 1,
		limit:    limit,
	}
}

// Len returns the number of bytes written to the underlying writer.
func (e *rangeEncoder) Len() int64 { return e.n }

// Available returns the number of bytes that still can be written taking
// the bytes required by Close into account.
func (e *rangeEncoder) Available() int64 {
	if e.limit == 0 {
		return maxInt64
	}
	return e.limit - (e.n + e.cacheLen + 4)
}

func (e *rangeEncoder) writeByte(c byte) error {
	if e.limit != 0 && e.n >= e.limit {
		return errLimit
	}
	if err := e.bw.WriteByte(c); err != nil {
		return err
	}
	e.n++
	return nil
}

// shiftLow shifts the low value by 8 bits. The byte shifted out is written
// to the byte writer; a carry is propagated through the cached 0xff run.
func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		c := e.cache
		for {
			if err := e.writeByte(c + byte(e.low>>32)); err != nil {
				return err
			}
			c = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

// normalize handles the shift of nrange and low.
func (e *rangeEncoder) normalize() error {
	const top = 1 << 24
	if e.nrange >= top {
		return nil
	}
	e.nrange <<= 8
	return e.shiftLow()
}

// EncodeBit encodes the least-significant bit of b. The probability value
// is updated depending on the bit encoded.
func (e *rangeEncoder) EncodeBit(b uint32, p *prob) error {
	bound := p.bound(e.nrange)
	if b&1 == 0 {
		e.nrange = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.dec()
	}
	return e.normalize()
}

// DirectEncodeBit encodes the least-significant bit of b with probability
// 1/2. No probability value is updated.
func (e *rangeEncoder) DirectEncodeBit(b uint32) error {
	e.nrange >>= 1
	e.low += uint64(e.nrange) & (0 - (uint64(b) & 1))
	return e.normalize()
}

// Close flushes the pending encoder state. Five bytes are written to
// guarantee that the decoder can always consume the full low value
// regardless of the cache length.
func (e *rangeEncoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// rangeDecoder decodes single bits of the range encoding stream.
type rangeDecoder struct {
	br     io.ByteReader
	nrange uint32
	code   uint32
}

// init initializes the range decoder. It reads the five initial bytes of
// the stream; the first must be zero.
func (d *rangeDecoder) init(br io.ByteReader) error {
	*d = rangeDecoder{br: br, nrange: 0xffffffff}

	b, err := d.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if b != 0 {
		return ErrCorrupt
	}
	for i := 0; i < 4; i++ {
		if err = d.updateCode(); err != nil {
			return err
		}
	}
	if d.code >= d.nrange {
		return ErrCorrupt
	}
	return nil
}

// possiblyAtEnd checks whether the decoder may be at the end of the stream.
func (d *rangeDecoder) possiblyAtEnd() bool {
	return d.code == 0
}

func (d *rangeDecoder) updateCode() error {
	b, err := d.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	d.code = (d.code << 8) | uint32(b)
	return nil
}

// DecodeBit decodes a single bit, returned at the least-significant
// position. The probability value is updated exactly as on the encoder
// side.
func (d *rangeDecoder) DecodeBit(p *prob) (b uint32, err error) {
	bound := p.bound(d.nrange)
	if d.code < bound {
		d.nrange = bound
		p.inc()
		b = 0
	} else {
		d.code -= bound
		d.nrange -= bound
		p.dec()
		b = 1
	}
	// normalize; d.code < d.nrange is maintained
	const top = 1 << 24
	if d.nrange >= top {
		return b, nil
	}
	d.nrange <<= 8
	return b, d.updateCode()
}

// DirectDecodeBit decodes a bit with probability 1/2, returned at the
// least-significant position.
func (d *rangeDecoder) DirectDecodeBit() (b uint32, err error) {
	d.nrange >>= 1
	d.code -= d.nrange
	t := 0 - (d.code >> 31)
	d.code += d.nrange & t
	b = (t + 1) & 1

	const top = 1 << 24
	if d.nrange >= top {
		return b, nil
	}
	d.nrange <<= 8
	return b, d.updateCode()
}

// bWriter converts an io.Writer into an io.ByteWriter. Unlike a
// bufio.Writer it writes through, so no flushing is required.
type bWriter struct {
	io.Writer
	a []byte
}

// byteWriter converts an io.Writer into an io.ByteWriter.
func byteWriter(w io.Writer) io.ByteWriter {
	if bw, ok := w.(io.ByteWriter); ok {
		return bw
	}
	return &bWriter{w, make([]byte, 1)}
}

func (b *bWriter) WriteByte(c byte) error {
	b.a[0] = c
	n, err := b.Write(b.a)
	if n == 1 {
		return nil
	}
	if err == nil {
		err = io.ErrShortWrite
	}
	return err
}

// byteReader converts an io.Reader into an io.ByteReader.
func byteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
