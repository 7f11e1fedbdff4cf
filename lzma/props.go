package lzma

import "fmt"

// Maximum and minimum values for the individual properties.
const (
	// literal context bits
	minLC = 0
	maxLC = 8
	// literal position bits
	minLP = 0
	maxLP = 4
	// position bits
	minPB = 0
	maxPB = 4
)

// Bounds for the dictionary size. The format permits larger dictionaries,
// but this implementation supports the mainstream parameterization only.
const (
	// MinDictSize is the minimum supported dictionary size.
	MinDictSize = 1 << 12
	// MaxDictSize is the maximum supported dictionary size.
	MaxDictSize = 1 << 28
)

// Properties contains the parameters LC, LP and PB of the LZMA and LZMA2
// formats. They are fixed for the lifetime of an encoder or decoder
// instance and determine the sizes of the probability tables.
type Properties struct {
	// literal context bits
	LC int
	// literal position bits
	LP int
	// position bits
	PB int
}

// String returns the properties in the form "LC LP PB".
func (p Properties) String() string {
	return fmt.Sprintf("LC%d LP%d PB%d", p.LC, p.LP, p.PB)
}

// Verify checks the properties for validity.
func (p Properties) Verify() error {
	if !(minLC <= p.LC && p.LC <= maxLC) {
		return fmt.Errorf("lzma: LC %d out of range [0,8]", p.LC)
	}
	if !(minLP <= p.LP && p.LP <= maxLP) {
		return fmt.Errorf("lzma: LP %d out of range [0,4]", p.LP)
	}
	if !(minPB <= p.PB && p.PB <= maxPB) {
		return fmt.Errorf("lzma: PB %d out of range [0,4]", p.PB)
	}
	return nil
}

// byte returns the byte that encodes the properties.
func (p Properties) byte() byte {
	return byte((p.PB*5+p.LP)*9 + p.LC)
}

// fromByte sets the properties from the encoded byte value.
func (p *Properties) fromByte(b byte) error {
	if b > 224 {
		return ErrCorrupt
	}
	p.LC = int(b % 9)
	b /= 9
	p.LP = int(b % 5)
	p.PB = int(b / 5)
	return nil
}

// verifyDictSize checks the dictionary size against the supported bounds.
func verifyDictSize(size int) error {
	if !(MinDictSize <= size && size <= MaxDictSize) {
		return fmt.Errorf(
			"lzma: dictionary size %d out of range [%d,%d]",
			size, MinDictSize, MaxDictSize)
	}
	return nil
}
