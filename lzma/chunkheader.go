package lzma

import "github.com/pkg/errors"

const (
	// maximum length of the compressed data of a chunk and of the data
	// of an uncompressed chunk
	maxChunkLen = 1 << 16
	// maximum length of the uncompressed data of a compressed chunk
	maxChunkULen = 1 << 21
)

// chunkControl describes the type of a chunk. For compressed chunks the
// lower five bits of the control byte carry the high bits of the
// uncompressed size and are not part of the control value.
type chunkControl byte

const (
	// end of the chunk stream
	cEOS chunkControl = 0x00
	// uncompressed chunk with dictionary reset
	cUD chunkControl = 0x01
	// uncompressed chunk
	cU chunkControl = 0x02
	// compressed chunk
	cC chunkControl = 0x80
	// compressed chunk with state reset
	cCS chunkControl = 0xa0
	// compressed chunk with state reset and new properties
	cCSP chunkControl = 0xc0
	// compressed chunk with state reset, new properties and dictionary
	// reset
	cCSPD chunkControl = 0xe0
)

// chunkHeader represents the header of a chunk.
type chunkHeader struct {
	ctrl            chunkControl
	compressedLen   int
	uncompressedLen int
	props           Properties
}

// append appends the binary representation of the chunk header to p.
func (h chunkHeader) append(p []byte) ([]byte, error) {
	switch h.ctrl {
	case cEOS:
		return append(p, byte(cEOS)), nil
	case cUD, cU:
		if !(1 <= h.uncompressedLen &&
			h.uncompressedLen <= maxChunkLen) {
			return nil, errors.New(
				"lzma: uncompressed chunk size out of range")
		}
		u := h.uncompressedLen - 1
		return append(p, byte(h.ctrl), byte(u>>8), byte(u)), nil
	case cC, cCS, cCSP, cCSPD:
		if !(1 <= h.uncompressedLen &&
			h.uncompressedLen <= maxChunkULen) {
			return nil, errors.New(
				"lzma: chunk size out of range")
		}
		if !(1 <= h.compressedLen &&
			h.compressedLen <= maxChunkLen) {
			return nil, errors.New(
				"lzma: compressed chunk size out of range")
		}
		u := h.uncompressedLen - 1
		k := h.compressedLen - 1
		p = append(p, byte(h.ctrl)|byte(u>>16), byte(u>>8), byte(u),
			byte(k>>8), byte(k))
		if h.ctrl == cCSP || h.ctrl == cCSPD {
			p = append(p, h.props.byte())
		}
		return p, nil
	}
	return nil, errors.New("lzma: invalid chunk control byte")
}

// errInvalidChunk indicates a chunk type that is not permitted at the
// current position of the chunk stream. It wraps ErrCorrupt so callers can
// classify it.
var errInvalidChunk = errors.WithMessage(ErrCorrupt, "invalid chunk type")

// chunkState is a state function of the chunk stream automaton. The
// automaton ensures that the first chunk resets the dictionary and that
// compressed chunks after an uncompressed chunk reset the coder state and
// provide properties.
type chunkState func(c chunkControl) (next chunkState, err error)

// chunkStart is the automaton state at the beginning of the stream.
func chunkStart(c chunkControl) (next chunkState, err error) {
	switch c {
	case cEOS:
		return chunkFinal, nil
	case cUD:
		return chunkS1, nil
	case cCSPD:
		return chunkS2, nil
	}
	return nil, errInvalidChunk
}

// chunkS1 is the automaton state after an uncompressed chunk.
func chunkS1(c chunkControl) (next chunkState, err error) {
	switch c {
	case cEOS:
		return chunkFinal, nil
	case cUD, cU:
		return chunkS1, nil
	case cCSP, cCSPD:
		return chunkS2, nil
	}
	return nil, errInvalidChunk
}

// chunkS2 is the automaton state after a compressed chunk.
func chunkS2(c chunkControl) (next chunkState, err error) {
	switch c {
	case cEOS:
		return chunkFinal, nil
	case cUD, cU:
		return chunkS1, nil
	case cC, cCS, cCSP, cCSPD:
		return chunkS2, nil
	}
	return nil, errInvalidChunk
}

// chunkFinal is the automaton state after the end-of-stream chunk.
func chunkFinal(c chunkControl) (next chunkState, err error) {
	return nil, errors.New("lzma: chunk after end of stream")
}
