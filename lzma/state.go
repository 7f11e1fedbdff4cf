package lzma

// states is the number of values of the coder state automaton.
const states = 12

// maxPosBits defines the number of position bits used to compute the
// posState value.
const maxPosBits = 4

// flagProbs groups the probability values indexed by the coder state
// alone.
type flagProbs struct {
	isRep   prob
	isRepG0 prob
	isRepG1 prob
	isRepG2 prob
}

// posFlagProbs groups the probability values indexed by the combination of
// coder state and posState.
type posFlagProbs struct {
	isMatch     prob
	isRepG0Long prob
}

// state carries the complete adaptive model of the coder: the automaton
// value, the rep distances and all probability tables. Encoder and decoder
// mutate their instances identically; any divergence breaks the stream
// irrecoverably.
type state struct {
	props       Properties
	flags       [states]flagProbs
	posFlags    [states << maxPosBits]posFlagProbs
	litCodec    literalCodec
	lenCodec    lengthCodec
	repLenCodec lengthCodec
	distCodec   distCodec
	// rep contains the four most recently used distance offsets
	// (distance - 1), most recent first.
	rep [4]uint32
	// state is the automaton value in the range [0,11].
	state      uint32
	posBitMask uint32
}

// init initializes the state for the given properties.
func (s *state) init(p Properties) {
	*s = state{props: p}
	s.reset()
}

// reset puts all probability values, the automaton and the rep distances
// back into their initial state. The properties are retained.
func (s *state) reset() {
	p := s.props
	*s = state{
		props:      p,
		posBitMask: (1 << uint(p.PB)) - 1,
	}
	for i := range s.flags {
		s.flags[i] = flagProbs{probInit, probInit, probInit, probInit}
	}
	for i := range s.posFlags {
		s.posFlags[i] = posFlagProbs{probInit, probInit}
	}
	s.litCodec.init(p.LC, p.LP)
	s.lenCodec.init()
	s.repLenCodec.init()
	s.distCodec.init()
}

// cloneFrom makes s a deep copy of the source state. The chunk writer uses
// it to snapshot the model before a trial encode.
func (s *state) cloneFrom(src *state) {
	if s == src {
		return
	}
	litProbs := s.litCodec.probs
	*s = *src
	s.litCodec.cloneInto(litProbs, &src.litCodec)
	s.lenCodec.cloneFrom(&src.lenCodec)
	s.repLenCodec.cloneFrom(&src.repLenCodec)
	s.distCodec.cloneFrom(&src.distCodec)
}

// updateStateLiteral updates the automaton for a literal.
func (s *state) updateStateLiteral() {
	s.state = nextStateLit(s.state)
}

// updateStateMatch updates the automaton for a match with a new distance.
func (s *state) updateStateMatch() {
	s.state = nextStateMatch(s.state)
}

// updateStateRep updates the automaton for a repeated match.
func (s *state) updateStateRep() {
	s.state = nextStateRep(s.state)
}

// updateStateShortRep updates the automaton for a short rep match of
// length one.
func (s *state) updateStateShortRep() {
	s.state = nextStateShortRep(s.state)
}

// states computes the context indexes for the given dictionary head
// position.
func (s *state) states(dictHead int64) (state1, state2, posState uint32) {
	state1 = s.state
	posState = uint32(dictHead) & s.posBitMask
	state2 = (s.state << maxPosBits) | posState
	return
}

// litState computes the literal context from the previous byte and the
// dictionary head position.
func (s *state) litState(prev byte, dictHead int64) uint32 {
	return ((uint32(dictHead) & ((1 << uint(s.props.LP)) - 1)) <<
		uint(s.props.LC)) | (uint32(prev) >> uint(8-s.props.LC))
}
