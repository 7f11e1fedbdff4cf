package lzma

import "math/bits"

// Constants used by the distance codec.
const (
	// minimum supported distance
	minDistance = 1
	// maximum supported distance offset; the value doubles as the
	// end-of-stream marker
	eosDist = 1<<32 - 1
	// number of supported length states
	lenStates = 4
	// first distance slot using the position models
	startPosModel = 4
	// first distance slot using direct bits and the align tree
	endPosModel = 14
	// bits of the distance slot trees
	posSlotBits = 6
	// number of align bits
	alignBits = 4
)

// distCodec provides encoding and decoding of distance offset values. The
// distance offset is the match distance minus one.
type distCodec struct {
	posSlotCodecs [lenStates]treeCodec
	posModel      [endPosModel - startPosModel]treeReverseCodec
	alignCodec    treeReverseCodec
}

// init initializes the distance codec.
func (dc *distCodec) init() {
	for i := range dc.posSlotCodecs {
		dc.posSlotCodecs[i] = makeTreeCodec(posSlotBits)
	}
	for i := range dc.posModel {
		posSlot := startPosModel + i
		bits := (posSlot >> 1) - 1
		dc.posModel[i] = makeTreeReverseCodec(bits)
	}
	dc.alignCodec = makeTreeReverseCodec(alignBits)
}

// cloneFrom makes dc a deep copy of the source codec.
func (dc *distCodec) cloneFrom(src *distCodec) {
	if dc == src {
		return
	}
	for i := range dc.posSlotCodecs {
		dc.posSlotCodecs[i].cloneFrom(&src.posSlotCodecs[i].probTree)
	}
	for i := range dc.posModel {
		dc.posModel[i].cloneFrom(&src.posModel[i].probTree)
	}
	dc.alignCodec.cloneFrom(&src.alignCodec.probTree)
}

// lenState converts a length offset into the state selecting the distance
// slot tree.
func lenState(l uint32) uint32 {
	if l >= lenStates {
		return lenStates - 1
	}
	return l
}

// posSlot computes the distance slot and the number of significant bits
// for a distance offset.
func posSlot(dist uint32) (slot, nbits uint32) {
	if dist < startPosModel {
		return dist, 0
	}
	nbits = uint32(30 - bits.LeadingZeros32(dist))
	slot = startPosModel - 2 + (nbits << 1)
	slot += (dist >> uint(nbits)) & 1
	return slot, nbits
}

// Encode encodes the distance offset dist for a match with length offset
// l. The offset eosDist marks the end of the stream.
func (dc *distCodec) Encode(e *rangeEncoder, dist uint32, l uint32) (err error) {
	slot, nbits := posSlot(dist)
	if err = dc.posSlotCodecs[lenState(l)].Encode(e, slot); err != nil {
		return err
	}
	switch {
	case slot < startPosModel:
		return nil
	case slot < endPosModel:
		tc := &dc.posModel[slot-startPosModel]
		base := (2 | (slot & 1)) << uint((slot>>1)-1)
		return tc.Encode(e, dist-base)
	}
	dic := directCodec(nbits - alignBits)
	if err = dic.Encode(e, dist>>alignBits); err != nil {
		return err
	}
	return dc.alignCodec.Encode(e, dist)
}

// Decode decodes a distance offset for a match with length offset l. The
// offset eosDist marks the end of the stream; add one to the offset to get
// the actual match distance.
func (dc *distCodec) Decode(d *rangeDecoder, l uint32) (dist uint32, err error) {
	slot, err := dc.posSlotCodecs[lenState(l)].Decode(d)
	if err != nil {
		return 0, err
	}

	// small distances are encoded by the slot directly
	if slot < startPosModel {
		return slot, nil
	}

	nbits := (slot >> 1) - 1
	dist = (2 | (slot & 1)) << uint(nbits)
	var u uint32
	if slot < endPosModel {
		tc := &dc.posModel[slot-startPosModel]
		if u, err = tc.Decode(d); err != nil {
			return 0, err
		}
		return dist + u, nil
	}

	// large distances use direct bits and the align tree
	dic := directCodec(nbits - alignBits)
	if u, err = dic.Decode(d); err != nil {
		return 0, err
	}
	dist += u << alignBits
	if u, err = dc.alignCodec.Decode(d); err != nil {
		return 0, err
	}
	return dist + u, nil
}

// price computes the price for encoding the distance offset dist with the
// length offset l.
func (dc *distCodec) price(dist uint32, l uint32) uint32 {
	slot, nbits := posSlot(dist)
	n := dc.posSlotCodecs[lenState(l)].price(slot)
	switch {
	case slot < startPosModel:
		return n
	case slot < endPosModel:
		tc := &dc.posModel[slot-startPosModel]
		base := (2 | (slot & 1)) << uint((slot>>1)-1)
		return n + tc.price(dist-base)
	}
	n += directCodec(nbits - alignBits).price()
	return n + dc.alignCodec.price(dist&(1<<alignBits-1))
}
