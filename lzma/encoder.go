package lzma

import (
	"errors"
	"io"
)

// opLenMargin gives the upper limit for the number of bytes a single
// operation can add to the range encoder output, including the bytes
// required to close the encoder.
const opLenMargin = 16

// encoderFlags control the behavior of the encoder.
type encoderFlags uint32

const (
	// eosMarker requests an explicit end-of-stream marker on Close
	eosMarker encoderFlags = 1 << iota
)

// encoder translates buffered dictionary data into the LZMA bit stream.
// The parser selects the operations, the encoder writes them and keeps
// the adaptive model in sync.
type encoder struct {
	dict  *encoderDict
	state *state
	re    rangeEncoder
	p     parser
	flags encoderFlags
	// head position at the last reopen
	start int64
	// limit for the uncompressed bytes consumed since the last reopen;
	// 0 means no limit
	uLimit int64
	// set if one of the limits has been reached
	limit bool
	ops   []operation
}

// newEncoder creates a new encoder writing to bw.
func newEncoder(bw io.ByteWriter, state *state, dict *encoderDict,
	p parser, flags encoderFlags) *encoder {

	e := &encoder{
		dict:  dict,
		state: state,
		p:     p,
		flags: flags,
		start: dict.Pos(),
	}
	e.re.init(bw, 0)
	return e
}

// Reopen restarts the range encoder on a new byte writer. A non-zero
// limit bounds the number of bytes written, a non-zero uLimit the number
// of uncompressed bytes consumed; compress returns errLimit once no
// further operation fits.
func (e *encoder) Reopen(bw io.ByteWriter, limit, uLimit int64) {
	e.re.init(bw, limit)
	e.start = e.dict.Pos()
	e.uLimit = uLimit
	e.limit = false
}

// Write writes data into the encoder dictionary. Data is compressed as
// needed to make room. The error errLimit indicates that the output
// limit has been reached; the unwritten part of p has to be resubmitted
// after the encoder has been reopened.
func (e *encoder) Write(p []byte) (n int, err error) {
	for {
		k, err := e.dict.Write(p[n:])
		n += k
		if err == errNoSpace {
			if err = e.compress(false); err != nil {
				return n, err
			}
			continue
		}
		return n, err
	}
}

// Compressed returns the number of bytes consumed from the dictionary
// since the encoder has been created or reopened.
func (e *encoder) Compressed() int64 {
	return e.dict.Pos() - e.start
}

// writeLiteral writes a literal into the operation stream.
func (e *encoder) writeLiteral(l lit) error {
	state, state2, _ := e.state.states(e.dict.Pos())
	err := e.re.EncodeBit(0, &e.state.posFlags[state2].isMatch)
	if err != nil {
		return err
	}
	litState := e.state.litState(e.dict.ByteAt(-1), e.dict.Pos())
	match := e.dict.ByteAt(-int(e.state.rep[0]) - 1)
	err = e.state.litCodec.Encode(&e.re, l.b, state, match, litState)
	if err != nil {
		return err
	}
	e.state.updateStateLiteral()
	return nil
}

// iverson implements the Iverson operator as proposed by Donald Knuth in
// his book Concrete Mathematics.
func iverson(ok bool) uint32 {
	if ok {
		return 1
	}
	return 0
}

// writeMatch writes a match operation into the operation stream. Matches
// with a distance equal to one of the rep distances are written as
// repeated matches.
func (e *encoder) writeMatch(m match) error {
	var err error
	if !(minDistance <= m.distance && m.distance <= maxDistance) {
		return errors.New("lzma: match distance out of range")
	}
	dist := uint32(m.distance - minDistance)
	if !(minMatchLen <= m.n && m.n <= maxMatchLen) &&
		!(dist == e.state.rep[0] && m.n == 1) {
		return errors.New("lzma: match length out of range")
	}
	state, state2, posState := e.state.states(e.dict.Pos())
	err = e.re.EncodeBit(1, &e.state.posFlags[state2].isMatch)
	if err != nil {
		return err
	}
	g := 0
	for ; g < 4; g++ {
		if e.state.rep[g] == dist {
			break
		}
	}
	b := iverson(g < 4)
	if err = e.re.EncodeBit(b, &e.state.flags[state].isRep); err != nil {
		return err
	}
	n := uint32(m.n - minMatchLen)
	if b == 0 {
		// simple match
		e.state.rep[3], e.state.rep[2], e.state.rep[1], e.state.rep[0] =
			e.state.rep[2], e.state.rep[1], e.state.rep[0], dist
		e.state.updateStateMatch()
		if err = e.state.lenCodec.Encode(&e.re, n, posState); err != nil {
			return err
		}
		return e.state.distCodec.Encode(&e.re, dist, n)
	}
	b = iverson(g != 0)
	if err = e.re.EncodeBit(b, &e.state.flags[state].isRepG0); err != nil {
		return err
	}
	if b == 0 {
		// g == 0
		b = iverson(m.n != 1)
		err = e.re.EncodeBit(b, &e.state.posFlags[state2].isRepG0Long)
		if err != nil {
			return err
		}
		if b == 0 {
			e.state.updateStateShortRep()
			return nil
		}
	} else {
		// g in {1,2,3}
		b = iverson(g != 1)
		err = e.re.EncodeBit(b, &e.state.flags[state].isRepG1)
		if err != nil {
			return err
		}
		if b == 1 {
			// g in {2,3}
			b = iverson(g != 2)
			err = e.re.EncodeBit(b, &e.state.flags[state].isRepG2)
			if err != nil {
				return err
			}
			if b == 1 {
				e.state.rep[3] = e.state.rep[2]
			}
			e.state.rep[2] = e.state.rep[1]
		}
		e.state.rep[1] = e.state.rep[0]
		e.state.rep[0] = dist
	}
	e.state.updateStateRep()
	return e.state.repLenCodec.Encode(&e.re, n, posState)
}

// writeOp writes the operation into the range coder stream and advances
// the dictionary head.
func (e *encoder) writeOp(op operation) error {
	var err error
	switch x := op.(type) {
	case match:
		err = e.writeMatch(x)
	case lit:
		err = e.writeLiteral(x)
	default:
		err = errors.New("lzma: unknown operation type")
	}
	if err != nil {
		return err
	}
	e.dict.Advance(op.Len())
	return nil
}

// compress encodes buffered dictionary data. If all is false enough
// bytes are held back so that matches are never cut short at the end of
// the buffer. The error errLimit is returned if the output limit has
// been reached; buffered data remains in the dictionary in that case.
func (e *encoder) compress(all bool) error {
	if e.limit {
		return errLimit
	}
	for {
		n := e.dict.Buffered()
		if !all {
			n -= maxMatchLen - 1
		}
		if n <= 0 {
			return nil
		}
		e.ops = e.p.appendOps(e.ops[:0], e.dict, e.state, n)
		if len(e.ops) == 0 {
			return nil
		}
		for _, op := range e.ops {
			if e.re.Available() < opLenMargin {
				e.limit = true
				return errLimit
			}
			if e.uLimit > 0 &&
				e.Compressed()+int64(op.Len()) > e.uLimit {
				e.limit = true
				return errLimit
			}
			if err := e.writeOp(op); err != nil {
				return err
			}
		}
	}
}

// eosMatch is the pseudo match whose distance offset marks the end of the
// stream.
var eosMatch = match{distance: maxDistance, n: minMatchLen}

// Close terminates the operation stream. All buffered data is compressed,
// the end-of-stream marker is written if requested and the range encoder
// is flushed.
func (e *encoder) Close() error {
	if err := e.compress(true); err != nil {
		return err
	}
	if e.flags&eosMarker != 0 {
		if err := e.writeMatch(eosMatch); err != nil {
			return err
		}
	}
	return e.re.Close()
}
