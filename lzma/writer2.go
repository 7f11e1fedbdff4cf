package lzma

import (
	"bytes"
	"io"

	"github.com/kelwig/lzkit/internal/xlog"
	"github.com/pkg/errors"
)

// Writer2Config parameterizes a Writer2 for the LZMA2 format.
type Writer2Config struct {
	// Properties of the chunk bodies; nil selects LC 3, LP 0, PB 2.
	Properties *Properties
	// DictSize sets the dictionary size; zero selects 8 MiB.
	DictSize int
	// BufSize sets the lookahead buffer of the encoder dictionary;
	// zero selects 64 KiB.
	BufSize int
	// Depth limits the number of match candidates inspected per
	// position; zero selects 32.
	Depth int
	// Optimal selects the price-based optimizing parser instead of the
	// greedy parser.
	Optimal bool
}

// ApplyDefaults replaces zero values with default values.
func (c *Writer2Config) ApplyDefaults() {
	if c.Properties == nil {
		c.Properties = &Properties{LC: 3, LP: 0, PB: 2}
	}
	if c.DictSize == 0 {
		c.DictSize = 8 << 20
	}
	if c.BufSize == 0 {
		c.BufSize = 1 << 16
	}
	if c.Depth == 0 {
		c.Depth = 32
	}
}

// Verify checks the configuration for consistency.
func (c *Writer2Config) Verify() error {
	if c == nil {
		return errors.New("lzma: writer configuration is nil")
	}
	if c.Properties == nil {
		return errors.New("lzma: properties are nil")
	}
	if err := c.Properties.Verify(); err != nil {
		return err
	}
	if err := verifyDictSize(c.DictSize); err != nil {
		return err
	}
	if c.BufSize < maxMatchLen {
		return errors.New("lzma: buffer size too small")
	}
	if c.Depth < 1 {
		return errors.New("lzma: depth out of range")
	}
	return nil
}

// chunkWriter converts the output of the encoder into a sequence of
// chunks. Every chunk is encoded into a trial buffer first; if the range
// coder inflates the data, the chunk is stored uncompressed and the model
// snapshot taken before the trial is restored.
type chunkWriter struct {
	z     io.Writer
	e     *encoder
	dict  encoderDict
	state state
	// model snapshot for the uncompressed fallback
	saved state
	props Properties
	// trial buffer for the compressed chunk body
	buf bytes.Buffer
	// buffer for the data of uncompressed chunks
	ubuf bytes.Buffer
	// a dictionary reset has been written
	dirReset bool
	// state reset and properties have been written and no uncompressed
	// chunk followed
	spReset bool
	err     error
}

// init initializes the chunk writer.
func (w *chunkWriter) init(z io.Writer, c *Writer2Config) error {
	w.z = z
	w.props = *c.Properties
	w.dirReset = false
	w.spReset = false
	w.err = nil
	err := initEncoderDict(&w.dict, c.DictSize, c.BufSize, c.Depth)
	if err != nil {
		return err
	}
	w.state.init(w.props)
	w.saved.init(w.props)
	w.e = newEncoder(&w.buf, &w.state, &w.dict, c.newParser(), 0)
	return nil
}

func (c *Writer2Config) newParser() parser {
	if c.Optimal {
		return newOptParser()
	}
	return newGreedyParser()
}

// writeUncompressed writes the last n bytes before the dictionary head as
// uncompressed chunks.
func (w *chunkWriter) writeUncompressed(n int) error {
	w.ubuf.Reset()
	if _, err := w.dict.CopyN(&w.ubuf, n); err != nil {
		return err
	}
	p := w.ubuf.Bytes()
	var hbuf [3]byte
	for len(p) > 0 {
		m := len(p)
		if m > maxChunkLen {
			m = maxChunkLen
		}
		hdr := chunkHeader{ctrl: cU, uncompressedLen: m}
		if !w.dirReset {
			hdr.ctrl = cUD
			w.dirReset = true
		}
		q, err := hdr.append(hbuf[:0])
		if err != nil {
			return err
		}
		if _, err = w.z.Write(q); err != nil {
			return err
		}
		if _, err = w.z.Write(p[:m]); err != nil {
			return err
		}
		p = p[m:]
	}
	// the decoder requires a state reset after uncompressed chunks
	w.spReset = false
	return nil
}

// writeChunk compresses buffered dictionary data into a single chunk. If
// all is set the complete buffer is consumed, otherwise enough data is
// held back to not cut matches short.
func (w *chunkWriter) writeChunk(all bool) error {
	w.saved.cloneFrom(&w.state)
	w.buf.Reset()
	uLimit := int64(maxChunkULen)
	if int64(w.dict.capacity) < uLimit {
		uLimit = int64(w.dict.capacity)
	}
	w.e.Reopen(&w.buf, maxChunkLen, uLimit)

	err := w.e.compress(all)
	if err != nil && err != errLimit {
		return err
	}
	n := int(w.e.Compressed())
	if n == 0 {
		return nil
	}
	if err = w.e.re.Close(); err != nil {
		return err
	}

	// compare the payloads only; headers don't enter the decision
	k := w.buf.Len()
	if k >= n {
		xlog.Printf(debug, "chunk stored raw: %d bytes vs %d compressed",
			n, k)
		w.state.cloneFrom(&w.saved)
		return w.writeUncompressed(n)
	}
	xlog.Printf(debug, "chunk compressed: %d -> %d bytes", n, k)

	hdr := chunkHeader{uncompressedLen: n, compressedLen: k}
	if !w.spReset {
		hdr.props = w.props
		if !w.dirReset {
			hdr.ctrl = cCSPD
			w.dirReset = true
		} else {
			hdr.ctrl = cCSP
		}
		w.spReset = true
	} else {
		hdr.ctrl = cC
	}
	var hbuf [6]byte
	q, err := hdr.append(hbuf[:0])
	if err != nil {
		return err
	}
	if _, err = w.z.Write(q); err != nil {
		return err
	}
	_, err = w.z.Write(w.buf.Bytes())
	return err
}

// Write writes data into the encoder dictionary, compressing chunks as
// the buffer fills up.
func (w *chunkWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	for n < len(p) {
		k, err := w.dict.Write(p[n:])
		n += k
		if err == errNoSpace {
			if err = w.writeChunk(false); err != nil {
				w.err = err
				return n, err
			}
			continue
		}
		if err != nil {
			w.err = err
			return n, err
		}
	}
	return n, nil
}

// Flush writes all buffered data out as chunks.
func (w *chunkWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	for w.dict.Buffered() > 0 {
		if err := w.writeChunk(true); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Close flushes buffered data and terminates the chunk stream.
func (w *chunkWriter) Close() error {
	if w.err == errClosed {
		return errClosed
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if _, err := w.z.Write([]byte{byte(cEOS)}); err != nil {
		w.err = err
		return err
	}
	w.err = errClosed
	return nil
}

// Writer2 compresses data in the LZMA2 format.
type Writer2 struct {
	cw chunkWriter
}

// NewWriter2 creates an LZMA2 writer using default parameters.
func NewWriter2(z io.Writer) (w *Writer2, err error) {
	return Writer2Config{}.NewWriter2(z)
}

// NewWriter2 creates an LZMA2 writer.
func (c Writer2Config) NewWriter2(z io.Writer) (w *Writer2, err error) {
	c.ApplyDefaults()
	if err = c.Verify(); err != nil {
		return nil, err
	}
	w = new(Writer2)
	if err = w.cw.init(z, &c); err != nil {
		return nil, err
	}
	return w, nil
}

// Write writes the data to be compressed. Data is written out only as
// complete chunks are available, or on Flush and Close.
func (w *Writer2) Write(p []byte) (n int, err error) {
	return w.cw.Write(p)
}

// Flush writes all buffered data into the underlying writer. Flushing
// reduces the compression ratio since it forces the start of a new chunk.
func (w *Writer2) Flush() error {
	return w.cw.Flush()
}

// Close flushes all buffered data and writes the end marker of the chunk
// stream. The underlying writer is not closed.
func (w *Writer2) Close() error {
	return w.cw.Close()
}
