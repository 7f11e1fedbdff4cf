package lzma

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/kelwig/lzkit/internal/xlog"
	"github.com/pkg/errors"
)

// Reader2Config parameterizes a Reader2 for the LZMA2 format.
type Reader2Config struct {
	// DictSize sets the dictionary size; zero selects 8 MiB. The value
	// must cover the dictionary size used by the writer of the stream.
	DictSize int
}

// ApplyDefaults replaces zero values with default values.
func (c *Reader2Config) ApplyDefaults() {
	if c.DictSize == 0 {
		c.DictSize = 8 << 20
	}
}

// Verify checks the configuration for consistency.
func (c *Reader2Config) Verify() error {
	if c == nil {
		return errors.New("lzma: reader configuration is nil")
	}
	return verifyDictSize(c.DictSize)
}

// bufReader is a reader that can also read single bytes.
type bufReader interface {
	io.Reader
	io.ByteReader
}

// limitedReader limits the number of bytes read from a bufReader. Other
// than io.LimitedReader it supports ReadByte.
type limitedReader struct {
	z bufReader
	n int64
}

func (l *limitedReader) Read(p []byte) (n int, err error) {
	if l.n <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err = l.z.Read(p)
	l.n -= int64(n)
	return n, err
}

func (l *limitedReader) ReadByte() (c byte, err error) {
	if l.n <= 0 {
		return 0, io.EOF
	}
	c, err = l.z.ReadByte()
	if err == nil {
		l.n--
	}
	return c, err
}

// chunkReader reads the chunk sequence of an LZMA2 stream.
type chunkReader struct {
	z      bufReader
	cstate chunkState
	dict   decoderDict
	state  state
	d      *decoder
	// limits the compressed data of the current compressed chunk
	lr limitedReader
	// remaining data of the current uncompressed chunk; nil if a
	// compressed chunk or no chunk is active
	u   *limitedReader
	err error
	// scratch space for copying uncompressed chunks
	sbuf [4096]byte
}

// init initializes the chunk reader.
func (cr *chunkReader) init(z io.Reader, dictSize int) error {
	br, ok := z.(bufReader)
	if !ok {
		br = bufio.NewReader(z)
	}
	cr.z = br
	cr.cstate = chunkStart
	cr.d = nil
	cr.u = nil
	cr.err = nil
	if err := initDecoderDict(&cr.dict, dictSize, 2*dictSize); err != nil {
		return err
	}
	return nil
}

// readChunkHeader reads and validates the next chunk header. The chunk
// automaton rejects chunk types that are invalid at the current position,
// in particular a first chunk without dictionary reset.
func (cr *chunkReader) readChunkHeader(hdr *chunkHeader) error {
	c, err := cr.z.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	if c < 0x80 {
		hdr.ctrl = chunkControl(c)
	} else {
		hdr.ctrl = chunkControl(c & 0xe0)
	}
	if cr.cstate, err = cr.cstate(hdr.ctrl); err != nil {
		return err
	}
	var p [5]byte
	var q []byte
	switch hdr.ctrl {
	case cEOS:
		return nil
	case cUD, cU:
		if _, err = io.ReadFull(cr.z, p[:2]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		hdr.uncompressedLen = int(binary.BigEndian.Uint16(p[:2])) + 1
		return nil
	case cC, cCS:
		q = p[:4]
	default:
		q = p[:5]
	}
	if _, err = io.ReadFull(cr.z, q); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	hdr.uncompressedLen = int(c&0x1f)<<16 |
		int(binary.BigEndian.Uint16(q[:2]))
	hdr.uncompressedLen++
	hdr.compressedLen = int(binary.BigEndian.Uint16(q[2:4])) + 1
	if hdr.ctrl == cCSP || hdr.ctrl == cCSPD {
		if err = hdr.props.fromByte(q[4]); err != nil {
			return err
		}
	}
	return nil
}

// startChunk reads the next chunk header and prepares the reader for the
// chunk body.
func (cr *chunkReader) startChunk() error {
	var hdr chunkHeader
	err := cr.readChunkHeader(&hdr)
	if err != nil {
		return err
	}
	xlog.Printf(debug, "chunk %#02x u=%d c=%d", byte(hdr.ctrl),
		hdr.uncompressedLen, hdr.compressedLen)
	switch hdr.ctrl {
	case cEOS:
		return io.EOF
	case cUD:
		cr.dict.Reset()
		fallthrough
	case cU:
		cr.lr = limitedReader{z: cr.z, n: int64(hdr.uncompressedLen)}
		cr.u = &cr.lr
		return nil
	case cCSPD:
		cr.dict.Reset()
		cr.state.init(hdr.props)
	case cCSP:
		cr.state.init(hdr.props)
	case cCS:
		cr.state.reset()
	}
	cr.u = nil
	cr.lr = limitedReader{z: cr.z, n: int64(hdr.compressedLen)}
	if cr.d == nil {
		cr.d, err = newDecoder(&cr.lr, &cr.state, &cr.dict,
			int64(hdr.uncompressedLen))
	} else {
		err = cr.d.Reopen(&cr.lr, int64(hdr.uncompressedLen))
	}
	return err
}

// readUncompressed copies data of an uncompressed chunk through the
// dictionary into p.
func (cr *chunkReader) readUncompressed(p []byte) (n int, err error) {
	for {
		k, _ := cr.dict.Read(p[n:])
		n += k
		if n == len(p) {
			return n, nil
		}
		if cr.lr.n == 0 {
			return n, io.EOF
		}
		m := cr.dict.Available()
		if m > len(cr.sbuf) {
			m = len(cr.sbuf)
		}
		k, err = cr.lr.Read(cr.sbuf[:m])
		if k > 0 {
			cr.dict.Write(cr.sbuf[:k])
		}
		if err != nil {
			if err == io.EOF {
				// chunk shorter than announced
				err = io.ErrUnexpectedEOF
			}
			return n, err
		}
	}
}

// Read reads uncompressed data from the chunk stream.
func (cr *chunkReader) Read(p []byte) (n int, err error) {
	if cr.err != nil {
		return 0, cr.err
	}
	for {
		var k int
		if cr.u != nil {
			k, err = cr.readUncompressed(p[n:])
		} else if cr.d != nil {
			k, err = cr.d.Read(p[n:])
		} else {
			err = io.EOF
		}
		n += k
		if n == len(p) {
			return n, nil
		}
		switch err {
		case nil:
			continue
		case io.EOF:
			if cr.d != nil && cr.u == nil && cr.lr.n > 0 {
				// unread data in a compressed chunk
				cr.err = ErrCorrupt
				return n, cr.err
			}
			if err = cr.startChunk(); err != nil {
				cr.err = err
				return n, err
			}
		default:
			cr.err = err
			return n, err
		}
	}
}

// Reader2 decompresses data in the LZMA2 format.
type Reader2 struct {
	cr chunkReader
}

// NewReader2 creates a reader for an LZMA2 stream using default
// parameters.
func NewReader2(z io.Reader) (r *Reader2, err error) {
	return Reader2Config{}.NewReader2(z)
}

// NewReader2 creates a reader for an LZMA2 stream.
func (c Reader2Config) NewReader2(z io.Reader) (r *Reader2, err error) {
	c.ApplyDefaults()
	if err = c.Verify(); err != nil {
		return nil, err
	}
	r = new(Reader2)
	if err = r.cr.init(z, c.DictSize); err != nil {
		return nil, err
	}
	return r, nil
}

// Read reads the uncompressed data of the stream.
func (r *Reader2) Read(p []byte) (n int, err error) {
	return r.cr.Read(p)
}
