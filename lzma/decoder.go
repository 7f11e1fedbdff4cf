package lzma

import (
	"errors"
	"io"
)

// decoder decodes the operation stream of a single LZMA segment into the
// decoder dictionary. A segment is a classic LZMA body or the body of an
// LZMA2 chunk; the chunk reader reopens the decoder for every compressed
// chunk.
type decoder struct {
	dict  *decoderDict
	state *state
	rd    rangeDecoder
	// uncompressed size of the segment; -1 if unknown
	size int64
	// dictionary head at the start of the segment
	start int64
	// end-of-stream marker found
	eosMarker bool
	err       error
}

// newDecoder creates a decoder for a segment read from br.
func newDecoder(br io.ByteReader, state *state, dict *decoderDict,
	size int64) (d *decoder, err error) {

	d = &decoder{
		state: state,
		dict:  dict,
		size:  size,
		start: dict.pos(),
	}
	if err = d.rd.init(br); err != nil {
		return nil, err
	}
	return d, nil
}

// Reopen restarts the decoder on a new byte reader. The adaptive model
// and the dictionary are not touched.
func (d *decoder) Reopen(br io.ByteReader, size int64) error {
	if err := d.rd.init(br); err != nil {
		return err
	}
	d.size = size
	d.start = d.dict.pos()
	d.eosMarker = false
	d.err = nil
	return nil
}

// Decompressed returns the number of bytes decoded since the decoder has
// been created or reopened.
func (d *decoder) Decompressed() int64 {
	return d.dict.pos() - d.start
}

// decodeLiteral decodes a single literal operation.
func (d *decoder) decodeLiteral() (op operation, err error) {
	litState := d.state.litState(d.dict.byteAt(1), d.dict.pos())
	match := d.dict.byteAt(int(d.state.rep[0]) + 1)
	s, err := d.state.litCodec.Decode(&d.rd, d.state.state, match,
		litState)
	if err != nil {
		return nil, err
	}
	return lit{b: s}, nil
}

// errEOS flags the end-of-stream marker inside the operation stream.
var errEOS = errors.New("lzma: end of stream marker")

// readOp decodes a single operation and updates the adaptive model the
// same way the encoder did while writing it.
func (d *decoder) readOp() (op operation, err error) {
	state, state2, posState := d.state.states(d.dict.pos())

	pf := &d.state.posFlags[state2]
	b, err := d.rd.DecodeBit(&pf.isMatch)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		op, err = d.decodeLiteral()
		if err != nil {
			return nil, err
		}
		d.state.updateStateLiteral()
		return op, nil
	}
	f := &d.state.flags[state]
	if b, err = d.rd.DecodeBit(&f.isRep); err != nil {
		return nil, err
	}
	if b == 0 {
		// simple match
		d.state.rep[3], d.state.rep[2], d.state.rep[1] =
			d.state.rep[2], d.state.rep[1], d.state.rep[0]

		d.state.updateStateMatch()
		// the length codec returns the length offset
		n, err := d.state.lenCodec.Decode(&d.rd, posState)
		if err != nil {
			return nil, err
		}
		// the distance codec returns the distance offset; the
		// actual distance is one higher
		d.state.rep[0], err = d.state.distCodec.Decode(&d.rd, n)
		if err != nil {
			return nil, err
		}
		if d.state.rep[0] == eosDist {
			d.eosMarker = true
			return nil, errEOS
		}
		return match{
			n:        int(n) + minMatchLen,
			distance: int64(d.state.rep[0]) + minDistance,
		}, nil
	}
	if b, err = d.rd.DecodeBit(&f.isRepG0); err != nil {
		return nil, err
	}
	dist := d.state.rep[0]
	if b == 0 {
		// rep match 0
		if b, err = d.rd.DecodeBit(&pf.isRepG0Long); err != nil {
			return nil, err
		}
		if b == 0 {
			d.state.updateStateShortRep()
			return match{
				n:        1,
				distance: int64(dist) + minDistance,
			}, nil
		}
	} else {
		if b, err = d.rd.DecodeBit(&f.isRepG1); err != nil {
			return nil, err
		}
		if b == 0 {
			dist = d.state.rep[1]
		} else {
			if b, err = d.rd.DecodeBit(&f.isRepG2); err != nil {
				return nil, err
			}
			if b == 0 {
				dist = d.state.rep[2]
			} else {
				dist = d.state.rep[3]
				d.state.rep[3] = d.state.rep[2]
			}
			d.state.rep[2] = d.state.rep[1]
		}
		d.state.rep[1] = d.state.rep[0]
		d.state.rep[0] = dist
	}
	n, err := d.state.repLenCodec.Decode(&d.rd, posState)
	if err != nil {
		return nil, err
	}
	d.state.updateStateRep()
	return match{
		n:        int(n) + minMatchLen,
		distance: int64(dist) + minDistance,
	}, nil
}

// apply puts the operation into the decoder dictionary.
func (d *decoder) apply(op operation) error {
	switch x := op.(type) {
	case match:
		if x.distance > int64(d.dict.dictLen()) {
			return ErrCorrupt
		}
		return d.dict.writeMatch(int(x.distance), x.n)
	case lit:
		return d.dict.writeByte(x.b)
	}
	return errors.New("lzma: unknown operation type")
}

// atSegmentEnd handles the end of a segment with known uncompressed size.
// The encoder and decoder normalize in lockstep, so after the flushed
// range coder bytes have been consumed the code value must be zero unless
// an end-of-stream marker follows.
func (d *decoder) atSegmentEnd() error {
	if d.Decompressed() > d.size {
		return ErrCorrupt
	}
	if d.rd.possiblyAtEnd() {
		return io.EOF
	}
	switch _, err := d.readOp(); err {
	case errEOS:
		if !d.rd.possiblyAtEnd() {
			return ErrCorrupt
		}
		return io.EOF
	case nil:
		// data after the announced size
		return ErrCorrupt
	case io.EOF:
		return io.ErrUnexpectedEOF
	default:
		return err
	}
}

// fillBuffer decodes operations until the dictionary buffer is filled up
// or the segment ends. At the end of the segment io.EOF is returned and
// sticks.
func (d *decoder) fillBuffer() error {
	if d.err != nil {
		return d.err
	}
	for d.dict.Available() >= maxMatchLen {
		if d.size >= 0 && d.Decompressed() >= d.size {
			d.err = d.atSegmentEnd()
			return d.err
		}
		op, err := d.readOp()
		switch err {
		case nil:
		case errEOS:
			if !d.rd.possiblyAtEnd() {
				d.err = ErrCorrupt
				return d.err
			}
			if d.size >= 0 && d.Decompressed() != d.size {
				d.err = ErrUnexpectedEOS
				return d.err
			}
			d.err = io.EOF
			return d.err
		case io.EOF:
			d.err = io.ErrUnexpectedEOF
			return d.err
		default:
			d.err = err
			return d.err
		}
		if err = d.apply(op); err != nil {
			d.err = err
			return d.err
		}
	}
	return nil
}

// Read reads decoded data. io.EOF is returned once the end of the segment
// has been reached and all buffered data has been read.
func (d *decoder) Read(p []byte) (n int, err error) {
	for {
		// a read from the dictionary buffer never fails
		k, _ := d.dict.Read(p[n:])
		n += k
		if n == len(p) {
			return n, nil
		}
		if err = d.fillBuffer(); err != nil {
			if err == io.EOF {
				if d.dict.buffered() == 0 {
					return n, io.EOF
				}
				continue
			}
			return n, err
		}
	}
}
