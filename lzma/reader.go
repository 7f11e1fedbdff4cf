package lzma

import (
	"io"

	"github.com/pkg/errors"
)

// ReaderConfig parameterizes a Reader for the classic LZMA format.
type ReaderConfig struct {
	// DictSizeLimit is the largest dictionary size accepted from a
	// stream header; zero selects the maximum supported size. Streams
	// requesting more are rejected to bound the memory use.
	DictSizeLimit int
}

// ApplyDefaults replaces zero values with default values.
func (c *ReaderConfig) ApplyDefaults() {
	if c.DictSizeLimit == 0 {
		c.DictSizeLimit = MaxDictSize
	}
}

// Verify checks the configuration for consistency.
func (c *ReaderConfig) Verify() error {
	if c == nil {
		return errors.New("lzma: reader configuration is nil")
	}
	if err := verifyDictSize(c.DictSizeLimit); err != nil {
		return err
	}
	return nil
}

// Reader decompresses data in the classic LZMA format.
type Reader struct {
	h     params
	d     *decoder
	dict  decoderDict
	state state
}

// NewReader creates a reader for a classic LZMA stream using default
// parameters.
func NewReader(lzma io.Reader) (r *Reader, err error) {
	return ReaderConfig{}.NewReader(lzma)
}

// NewReader reads the stream header and creates a reader for the stream
// body.
func (c ReaderConfig) NewReader(lzma io.Reader) (r *Reader, err error) {
	c.ApplyDefaults()
	if err = c.Verify(); err != nil {
		return nil, err
	}
	data := make([]byte, headerLen)
	if _, err = io.ReadFull(lzma, data); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	r = new(Reader)
	if err = r.h.parse(data); err != nil {
		return nil, errors.Wrap(err, "lzma: stream header")
	}
	if err = r.h.props.Verify(); err != nil {
		return nil, errors.Wrap(err, "lzma: stream header")
	}
	dictSize := int64(r.h.dictSize)
	if dictSize > int64(c.DictSizeLimit) {
		return nil, errors.New("lzma: dictionary size exceeds limit")
	}
	// small header values are permitted; the minimum size is allocated
	if dictSize < MinDictSize {
		dictSize = MinDictSize
	}

	size := int64(-1)
	if r.h.size != eosSize {
		if r.h.size > 1<<62 {
			return nil, ErrCorrupt
		}
		size = int64(r.h.size)
	}

	err = initDecoderDict(&r.dict, int(dictSize), int(dictSize))
	if err != nil {
		return nil, err
	}
	r.state.init(r.h.props)
	r.d, err = newDecoder(byteReader(lzma), &r.state, &r.dict, size)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Read reads uncompressed data from the stream.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.d.Read(p)
}
