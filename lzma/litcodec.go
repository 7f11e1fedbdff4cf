package lzma

// literalCodec supports the encoding of literals. It provides 768
// probability values per literal context. The upper 512 values are used in
// matched-literal mode, where the decoded byte is predicted by the byte at
// the rep0 distance.
type literalCodec struct {
	probs []prob
}

// init initializes the literal codec for the given lc and lp parameters.
func (c *literalCodec) init(lc, lp int) {
	switch {
	case !(minLC <= lc && lc <= maxLC):
		panic("lzma: lc out of range")
	case !(minLP <= lp && lp <= maxLP):
		panic("lzma: lp out of range")
	}
	n := 0x300 << uint(lc+lp)
	if cap(c.probs) >= n {
		c.probs = c.probs[:n]
	} else {
		c.probs = make([]prob, n)
	}
	for i := range c.probs {
		c.probs[i] = probInit
	}
}

// cloneInto copies the probabilities of src into the provided backing
// slice, reusing it if large enough.
func (c *literalCodec) cloneInto(probs []prob, src *literalCodec) {
	if cap(probs) >= len(src.probs) {
		probs = probs[:len(src.probs)]
	} else {
		probs = make([]prob, len(src.probs))
	}
	copy(probs, src.probs)
	c.probs = probs
}

// Encode encodes the byte c. In match states (state >= 7) the byte at the
// rep0 distance is used as predictor.
func (c *literalCodec) Encode(e *rangeEncoder, s byte,
	state uint32, match byte, litState uint32) error {

	k := litState * 0x300
	probs := c.probs[k : k+0x300]
	symbol := uint32(1)
	r := uint32(s)
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			bit := (r >> 7) & 1
			r <<= 1
			i := ((1 + matchBit) << 8) | symbol
			if err := e.EncodeBit(bit, &probs[i]); err != nil {
				return err
			}
			symbol = (symbol << 1) | bit
			if matchBit != bit {
				break
			}
			if symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit := (r >> 7) & 1
		r <<= 1
		if err := e.EncodeBit(bit, &probs[symbol]); err != nil {
			return err
		}
		symbol = (symbol << 1) | bit
	}
	return nil
}

// Decode decodes a literal byte using the current state, the match byte
// and the literal context.
func (c *literalCodec) Decode(d *rangeDecoder,
	state uint32, match byte, litState uint32) (s byte, err error) {

	k := litState * 0x300
	probs := c.probs[k : k+0x300]
	symbol := uint32(1)
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			i := ((1 + matchBit) << 8) | symbol
			bit, err := d.DecodeBit(&probs[i])
			if err != nil {
				return 0, err
			}
			symbol = (symbol << 1) | bit
			if matchBit != bit {
				break
			}
			if symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit, err := d.DecodeBit(&probs[symbol])
		if err != nil {
			return 0, err
		}
		symbol = (symbol << 1) | bit
	}
	return byte(symbol - 0x100), nil
}

// price computes the price for encoding the byte s in the given context.
func (c *literalCodec) price(s byte,
	state uint32, match byte, litState uint32) uint32 {

	k := litState * 0x300
	probs := c.probs[k : k+0x300]
	var n uint32
	symbol := uint32(1)
	r := uint32(s)
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			bit := (r >> 7) & 1
			r <<= 1
			i := ((1 + matchBit) << 8) | symbol
			n += probs[i].price(bit)
			symbol = (symbol << 1) | bit
			if matchBit != bit {
				break
			}
			if symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit := (r >> 7) & 1
		r <<= 1
		n += probs[symbol].price(bit)
		symbol = (symbol << 1) | bit
	}
	return n
}
