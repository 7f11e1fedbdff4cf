package lzma

import "errors"

// ErrCorrupt reports data that cannot be part of a valid LZMA or LZMA2
// stream. The error is terminal; a reader returning it cannot be used any
// further.
var ErrCorrupt = errors.New("lzma: corrupt stream")

// ErrUnexpectedEOS reports an end-of-stream marker in a position where the
// format doesn't permit one, for instance before the announced uncompressed
// size has been reached.
var ErrUnexpectedEOS = errors.New("lzma: unexpected end-of-stream marker")

// errClosed is returned if a reader or writer is used after Close.
var errClosed = errors.New("lzma: already closed")

// errNoSpace indicates insufficient space in a buffer.
var errNoSpace = errors.New("lzma: insufficient buffer space")

// errLimit is returned by the range encoder if the output limit for a chunk
// has been reached.
var errLimit = errors.New("lzma: encoder limit reached")
