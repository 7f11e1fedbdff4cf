package lzma

import (
	"io"
	"log"

	"github.com/kelwig/lzkit/internal/xlog"
)

// debug stores a reference to a logger. It may be nil for no output.
var debug xlog.Logger

// debugOn writes debug information to the given writer using the standard
// log package. If w is nil no output is written.
func debugOn(w io.Writer) {
	if w == nil {
		debug = nil
		return
	}
	debug = log.New(w, "", 0)
}

// debugOff switches the debugging output off.
func debugOff() { debug = nil }
