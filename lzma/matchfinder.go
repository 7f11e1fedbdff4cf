package lzma

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/pierrec/xxHash/xxHash32"
)

// wordLen is the length of the prefix the match finder hashes.
const wordLen = 4

// Bounds for the hash table exponent. The minimum is somewhat arbitrary,
// the maximum limits the memory requirements of the table.
const (
	minTableExponent = 9
	maxTableExponent = 21
)

// hashSeed is the xxHash32 seed for word hashing.
const hashSeed = 5381

// matchFinder indexes the data stream with hash chains: a table maps the
// hash of a 4-byte word to the most recent position it occurred at, and
// for every position a delta links to the previous position with the same
// word hash. The chain array is circular and parallel to the dictionary
// buffer, so no entries have to be removed; entries older than the buffer
// are detected by position arithmetic.
type matchFinder struct {
	// hash -> most recent word position + 1; 0 means empty
	table []int64
	// position mod len(chain) -> delta to the previous position with
	// the same hash; 0 terminates the chain
	chain []uint32
	mask  uint64
	// rolling window of the last four bytes fed
	word uint32
	// number of bytes fed
	fed int64
	// maximum number of chain entries inspected per query
	depth int
	wbuf  [wordLen]byte
}

// tableExponent derives the hash table exponent from the dictionary size.
func tableExponent(n uint32) int {
	e := bits.Len32(n) - 2
	switch {
	case e < minTableExponent:
		return minTableExponent
	case e > maxTableExponent:
		return maxTableExponent
	}
	return e
}

// init initializes the match finder. The chainLen value must equal the
// length of the data slice of the dictionary buffer the positions refer
// to.
func (f *matchFinder) init(dictSize, chainLen, depth int) error {
	if chainLen < 1 {
		return errors.New("lzma: chain length out of range")
	}
	if depth < 1 {
		return errors.New("lzma: match finder depth out of range")
	}
	exp := tableExponent(uint32(dictSize))
	if cap(f.table) >= 1<<uint(exp) {
		f.table = f.table[:1<<uint(exp)]
	} else {
		f.table = make([]int64, 1<<uint(exp))
	}
	if cap(f.chain) >= chainLen {
		f.chain = f.chain[:chainLen]
	} else {
		f.chain = make([]uint32, chainLen)
	}
	f.reset()
	f.mask = (uint64(1) << uint(exp)) - 1
	f.depth = depth
	return nil
}

// reset puts the match finder back into the pristine state.
func (f *matchFinder) reset() {
	for i := range f.table {
		f.table[i] = 0
	}
	for i := range f.chain {
		f.chain[i] = 0
	}
	f.word = 0
	f.fed = 0
}

func (f *matchFinder) hash(word []byte) uint64 {
	return uint64(xxHash32.Checksum(word, hashSeed)) & f.mask
}

// feedByte extends the indexed range by a single byte.
func (f *matchFinder) feedByte(c byte) {
	f.word = f.word<<8 | uint32(c)
	f.fed++
	if f.fed < wordLen {
		return
	}
	pos := f.fed - wordLen
	binary.BigEndian.PutUint32(f.wbuf[:], f.word)
	i := f.hash(f.wbuf[:])
	old := f.table[i] - 1
	f.table[i] = pos + 1
	var delta int64
	if old >= 0 {
		delta = pos - old
		if delta >= int64(len(f.chain)) {
			delta = 0
		}
	}
	f.chain[pos%int64(len(f.chain))] = uint32(delta)
}

// feed extends the indexed range by the bytes in p. No searching happens.
func (f *matchFinder) feed(p []byte) {
	for _, c := range p {
		f.feedByte(c)
	}
}

// matches appends the distances of candidate matches for the word at the
// given position to dists. The word must contain the next wordLen bytes at
// that position. Distances are reported in increasing order and do not
// exceed maxDist; candidates still have to be verified by the caller,
// since hash collisions are possible.
func (f *matchFinder) matches(pos int64, word []byte, maxDist int,
	dists []int) []int {

	if len(word) < wordLen {
		return dists
	}
	q := f.table[f.hash(word[:wordLen])] - 1
	for n := 0; q >= 0; {
		if f.fed-q > int64(len(f.chain)) {
			// entry overwritten by a newer position
			break
		}
		d := pos - q
		if d > int64(maxDist) {
			break
		}
		if d >= minDistance {
			dists = append(dists, int(d))
			n++
			if n >= f.depth {
				break
			}
		}
		delta := f.chain[q%int64(len(f.chain))]
		if delta == 0 {
			break
		}
		q -= int64(delta)
	}
	return dists
}
