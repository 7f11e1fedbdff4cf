package lzma

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WriterConfig parameterizes a Writer for the classic LZMA format.
type WriterConfig struct {
	// Properties of the stream; nil selects LC 3, LP 0, PB 2.
	Properties *Properties
	// DictSize sets the dictionary size; zero selects 8 MiB.
	DictSize int
	// BufSize sets the lookahead buffer of the encoder dictionary;
	// zero selects 4096 bytes.
	BufSize int
	// Depth limits the number of match candidates inspected per
	// position; zero selects 32.
	Depth int
	// Optimal selects the price-based optimizing parser instead of the
	// greedy parser.
	Optimal bool
	// SizeInHeader indicates that the uncompressed size is stored in
	// the header.
	SizeInHeader bool
	// Size of the uncompressed data; requires SizeInHeader.
	Size int64
	// EOSMarker requests the end-of-stream marker even if the size is
	// stored in the header. Streams without the size in the header
	// always carry the marker.
	EOSMarker bool
}

// ApplyDefaults replaces zero values with default values.
func (c *WriterConfig) ApplyDefaults() {
	if c.Properties == nil {
		c.Properties = &Properties{LC: 3, LP: 0, PB: 2}
	}
	if c.DictSize == 0 {
		c.DictSize = 8 << 20
	}
	if c.BufSize == 0 {
		c.BufSize = 4096
	}
	if c.Depth == 0 {
		c.Depth = 32
	}
	if !c.SizeInHeader {
		c.EOSMarker = true
	}
}

// Verify checks the configuration for consistency.
func (c *WriterConfig) Verify() error {
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
	if c.SizeInHeader && c.Size < 0 {
		return errors.New("lzma: negative size not supported")
	}
	return nil
}

// header returns the header parameters for the configuration.
func (c *WriterConfig) header() params {
	h := params{
		props:    *c.Properties,
		dictSize: uint32(c.DictSize),
		size:     eosSize,
	}
	if c.SizeInHeader {
		h.size = uint64(c.Size)
	}
	return h
}

// newParser creates the parser for the configuration.
func (c *WriterConfig) newParser() parser {
	if c.Optimal {
		return newOptParser()
	}
	return newGreedyParser()
}

// Writer compresses data in the classic LZMA format.
type Writer struct {
	h     params
	buf   *bufio.Writer
	e     *encoder
	dict  encoderDict
	state state
}

// NewWriter creates a writer with the given configuration and writes the
// stream header.
func (c WriterConfig) NewWriter(lzma io.Writer) (w *Writer, err error) {
	c.ApplyDefaults()
	if err = c.Verify(); err != nil {
		return nil, err
	}
	w = &Writer{h: c.header()}

	var bw io.ByteWriter
	if b, ok := lzma.(io.ByteWriter); ok {
		bw = b
	} else {
		w.buf = bufio.NewWriter(lzma)
		bw = w.buf
	}
	if _, err = lzma.Write(w.h.append(nil)); err != nil {
		return nil, err
	}
	if w.buf != nil {
		// the header bypassed the buffer
		w.buf.Reset(lzma)
	}

	err = initEncoderDict(&w.dict, c.DictSize, c.BufSize, c.Depth)
	if err != nil {
		return nil, err
	}
	w.state.init(*c.Properties)

	var flags encoderFlags
	if c.EOSMarker {
		flags = eosMarker
	}
	w.e = newEncoder(bw, &w.state, &w.dict, c.newParser(), flags)
	return w, nil
}

// NewWriter creates a classic LZMA writer with default parameters. The
// stream is terminated by the end-of-stream marker since the size is not
// known in advance.
func NewWriter(lzma io.Writer) (w *Writer, err error) {
	return WriterConfig{}.NewWriter(lzma)
}

// Write compresses the given data.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.e == nil {
		return 0, errClosed
	}
	if w.h.size != eosSize {
		m := int64(w.h.size) - (w.e.Compressed() +
			int64(w.dict.Buffered()))
		if int64(len(p)) > m {
			p = p[:m]
			err = fmt.Errorf(
				"lzma: writer limited to %d bytes", w.h.size)
		}
	}
	var werr error
	if n, werr = w.e.Write(p); werr != nil {
		return n, werr
	}
	return n, err
}

// Close flushes the remaining data and terminates the stream.
func (w *Writer) Close() error {
	if w.e == nil {
		return errClosed
	}
	if w.h.size != eosSize {
		n := w.e.Compressed() + int64(w.dict.Buffered())
		if n != int64(w.h.size) {
			return fmt.Errorf(
				"lzma: size %d doesn't match header size %d",
				n, w.h.size)
		}
	}
	err := w.e.Close()
	w.e = nil
	if err != nil {
		return err
	}
	if w.buf != nil {
		return w.buf.Flush()
	}
	return nil
}
