package lzma

import (
	"encoding/binary"
	"errors"
)

// eosSize is stored in the header if the uncompressed size is unknown.
const eosSize uint64 = 1<<64 - 1

// headerLen gives the length of the classic LZMA header.
const headerLen = 13

// params holds the parameters of the classic LZMA header: the properties
// byte, the dictionary size and the uncompressed size.
type params struct {
	props    Properties
	dictSize uint32
	// uncompressed size; eosSize if unknown
	size uint64
}

// verify checks the header parameters for validity.
func (h params) verify() error {
	if err := h.props.Verify(); err != nil {
		return err
	}
	return verifyDictSize(int(h.dictSize))
}

// append appends the binary representation of the header to s.
func (h params) append(s []byte) []byte {
	var a [headerLen]byte
	a[0] = h.props.byte()
	binary.LittleEndian.PutUint32(a[1:], h.dictSize)
	binary.LittleEndian.PutUint64(a[5:], h.size)
	return append(s, a[:]...)
}

// parse fills the parameters from x, which must hold exactly headerLen
// bytes.
func (h *params) parse(x []byte) error {
	if len(x) != headerLen {
		return errors.New("lzma: header has incorrect length")
	}
	if err := h.props.fromByte(x[0]); err != nil {
		return err
	}
	h.dictSize = binary.LittleEndian.Uint32(x[1:])
	h.size = binary.LittleEndian.Uint64(x[5:])
	return nil
}
