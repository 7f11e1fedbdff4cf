package lzma

import (
	"fmt"
	"unicode"
)

// maxDistance is the largest distance value plus one. The value converted
// into a distance offset gives the end-of-stream marker.
const maxDistance = 1 << 32

// operation represents an encoding operation: a literal or a match.
type operation interface {
	Len() int
}

// match describes a match operation. A distance equal to one of the
// current rep distances is encoded as repeated match; a length of one is
// only valid for the most recent rep distance.
type match struct {
	// distance in the range [minDistance,maxDistance]
	distance int64
	// length of the match
	n int
}

// Len returns the number of bytes the match covers.
func (m match) Len() int { return m.n }

// String returns a string representation for the match.
func (m match) String() string {
	return fmt.Sprintf("M{%d,%d}", m.distance, m.n)
}

// lit describes a literal operation writing a single byte.
type lit struct {
	b byte
}

// Len returns one for the single byte.
func (l lit) Len() int { return 1 }

// String returns a string representation for the literal.
func (l lit) String() string {
	var c byte
	if unicode.IsPrint(rune(l.b)) {
		c = l.b
	} else {
		c = '.'
	}
	return fmt.Sprintf("L{%c/%02x}", c, l.b)
}
