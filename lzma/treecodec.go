package lzma

// probTree stores the probability values for the treeCodec and
// treeReverseCodec types. Index 0 is unused; the root of the tree is at
// index 1.
type probTree struct {
	probs []prob
	bits  byte
}

// makeProbTree initializes a probTree structure. The bits value must be in
// the range [1,32].
func makeProbTree(bits int) probTree {
	if !(1 <= bits && bits <= 32) {
		panic("lzma: bits outside of range [1,32]")
	}
	t := probTree{
		bits:  byte(bits),
		probs: make([]prob, 1<<uint(bits)),
	}
	for i := range t.probs {
		t.probs[i] = probInit
	}
	return t
}

// cloneFrom makes t a deep copy of the source tree.
func (t *probTree) cloneFrom(src *probTree) {
	if t == src {
		return
	}
	probs := t.probs
	if len(probs) != len(src.probs) {
		probs = make([]prob, len(src.probs))
	}
	copy(probs, src.probs)
	t.probs = probs
	t.bits = src.bits
}

// treeCodec encodes and decodes values with a fixed bit size, encoding the
// most-significant bit first.
type treeCodec struct {
	probTree
}

func makeTreeCodec(bits int) treeCodec {
	return treeCodec{makeProbTree(bits)}
}

// Encode uses the range encoder to encode a fixed-bit-size value.
func (tc *treeCodec) Encode(e *rangeEncoder, v uint32) error {
	m := uint32(1)
	for i := int(tc.bits) - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		if err := e.EncodeBit(b, &tc.probs[m]); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// Decode uses the range decoder to decode a fixed-bit-size value.
func (tc *treeCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for j := 0; j < int(tc.bits); j++ {
		b, err := d.DecodeBit(&tc.probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
	}
	return m - (1 << uint(tc.bits)), nil
}

// price computes the price for encoding the value v.
func (tc *treeCodec) price(v uint32) uint32 {
	var n uint32
	m := uint32(1)
	for i := int(tc.bits) - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		n += tc.probs[m].price(b)
		m = (m << 1) | b
	}
	return n
}

// treeReverseCodec is another tree codec, where the least-significant bit
// is encoded first.
type treeReverseCodec struct {
	probTree
}

func makeTreeReverseCodec(bits int) treeReverseCodec {
	return treeReverseCodec{makeProbTree(bits)}
}

// Encode uses the range encoder to encode a fixed-bit-size value starting
// with the least-significant bit.
func (tc *treeReverseCodec) Encode(e *rangeEncoder, v uint32) error {
	m := uint32(1)
	for i := uint(0); i < uint(tc.bits); i++ {
		b := (v >> i) & 1
		if err := e.EncodeBit(b, &tc.probs[m]); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// Decode uses the range decoder to decode a fixed-bit-size value.
func (tc *treeReverseCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for j := uint(0); j < uint(tc.bits); j++ {
		b, err := d.DecodeBit(&tc.probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
		v |= b << j
	}
	return v, nil
}

// price computes the price for encoding the value v.
func (tc *treeReverseCodec) price(v uint32) uint32 {
	var n uint32
	m := uint32(1)
	for i := uint(0); i < uint(tc.bits); i++ {
		b := (v >> i) & 1
		n += tc.probs[m].price(b)
		m = (m << 1) | b
	}
	return n
}

// directCodec encodes and decodes values with a fixed number of bits at
// probability 1/2 without any adaptation. The number of bits must be in
// the range [1,32].
type directCodec byte

// Encode encodes the value with the fixed number of bits, most-significant
// bit first.
func (dc directCodec) Encode(e *rangeEncoder, v uint32) error {
	for i := int(dc) - 1; i >= 0; i-- {
		if err := e.DirectEncodeBit(v >> uint(i)); err != nil {
			return err
		}
	}
	return nil
}

// Decode decodes a value with the given number of bits, most-significant
// bit first.
func (dc directCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	for i := int(dc) - 1; i >= 0; i-- {
		x, err := d.DirectDecodeBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | x
	}
	return v, nil
}

// price returns the price for the direct bits; each bit costs exactly one
// bit.
func (dc directCodec) price() uint32 {
	return uint32(dc) << priceShiftBits
}
