package lzma

import "errors"

// minMatchLen and maxMatchLen give the minimum and maximum values for
// encoding and decoding length values. minMatchLen is also the base for
// the encoded length offsets.
const (
	minMatchLen = 2
	maxMatchLen = minMatchLen + 16 + 256 - 1
)

// lengthCodec supports the encoding of length values. Lengths are encoded
// as offsets l = length - minMatchLen through one of three trees selected
// by two choice bits.
type lengthCodec struct {
	choice [2]prob
	low    [1 << maxPosBits]treeCodec
	mid    [1 << maxPosBits]treeCodec
	high   treeCodec
}

// init initializes the length codec.
func (lc *lengthCodec) init() {
	for i := range lc.choice {
		lc.choice[i] = probInit
	}
	for i := range lc.low {
		lc.low[i] = makeTreeCodec(3)
	}
	for i := range lc.mid {
		lc.mid[i] = makeTreeCodec(3)
	}
	lc.high = makeTreeCodec(8)
}

// cloneFrom makes lc a deep copy of the source codec.
func (lc *lengthCodec) cloneFrom(src *lengthCodec) {
	if lc == src {
		return
	}
	lc.choice = src.choice
	for i := range lc.low {
		lc.low[i].cloneFrom(&src.low[i].probTree)
	}
	for i := range lc.mid {
		lc.mid[i].cloneFrom(&src.mid[i].probTree)
	}
	lc.high.cloneFrom(&src.high.probTree)
}

// Encode encodes the length offset l = length - minMatchLen.
func (lc *lengthCodec) Encode(e *rangeEncoder, l uint32, posState uint32,
) (err error) {
	if l > maxMatchLen-minMatchLen {
		return errors.New("lzma: length out of range")
	}
	if l < 8 {
		if err = e.EncodeBit(0, &lc.choice[0]); err != nil {
			return err
		}
		return lc.low[posState].Encode(e, l)
	}
	if err = e.EncodeBit(1, &lc.choice[0]); err != nil {
		return err
	}
	if l < 16 {
		if err = e.EncodeBit(0, &lc.choice[1]); err != nil {
			return err
		}
		return lc.mid[posState].Encode(e, l-8)
	}
	if err = e.EncodeBit(1, &lc.choice[1]); err != nil {
		return err
	}
	return lc.high.Encode(e, l-16)
}

// Decode reads the length offset. Add minMatchLen to get the actual
// length.
func (lc *lengthCodec) Decode(d *rangeDecoder, posState uint32,
) (l uint32, err error) {
	var b uint32
	if b, err = d.DecodeBit(&lc.choice[0]); err != nil {
		return 0, err
	}
	if b == 0 {
		return lc.low[posState].Decode(d)
	}
	if b, err = d.DecodeBit(&lc.choice[1]); err != nil {
		return 0, err
	}
	if b == 0 {
		l, err = lc.mid[posState].Decode(d)
		return l + 8, err
	}
	l, err = lc.high.Decode(d)
	return l + 16, err
}

// price computes the price for encoding the length offset l.
func (lc *lengthCodec) price(l uint32, posState uint32) uint32 {
	if l < 8 {
		return lc.choice[0].price0() + lc.low[posState].price(l)
	}
	n := lc.choice[0].price1()
	if l < 16 {
		return n + lc.choice[1].price0() + lc.mid[posState].price(l-8)
	}
	return n + lc.choice[1].price1() + lc.high.price(l-16)
}
