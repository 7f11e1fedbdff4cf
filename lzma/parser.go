package lzma

import "math"

// parser converts buffered dictionary data into a sequence of operations.
type parser interface {
	// appendOps appends operations starting at the dictionary head to
	// ops. The operations are contiguous; every operation must start
	// within the first n bytes of the lookahead, but the last one may
	// extend beyond them.
	appendOps(ops []operation, d *encoderDict, s *state, n int) []operation
}

// greedyParser emits the longest match at the head or a literal if no
// match of the minimum length is available. Rep matches are preferred if
// they are almost as long as the best match found by the match finder.
type greedyParser struct {
	dists []int
}

func newGreedyParser() *greedyParser { return &greedyParser{} }

func (p *greedyParser) appendOps(ops []operation, d *encoderDict,
	s *state, n int) []operation {

	if d.Buffered() == 0 {
		return ops
	}
	max := maxMatchLen
	if max > d.Buffered() {
		max = d.Buffered()
	}

	// repeated distances first
	repLen, repDist := 0, 0
	for _, r := range s.rep {
		dist := int(r) + 1
		k := d.MatchLen(0, dist, max)
		if k > repLen {
			repLen, repDist = k, dist
		}
	}

	bestLen, bestDist := 0, 0
	p.dists = d.Matches(0, p.dists[:0])
	for _, dist := range p.dists {
		k := d.MatchLen(0, dist, max)
		if k > bestLen {
			bestLen, bestDist = k, dist
		}
	}

	// A rep match costs considerably fewer bits than a match with a new
	// distance, so a slightly shorter one is still the better choice.
	if repLen >= minMatchLen && repLen+2 >= bestLen {
		return append(ops, match{distance: int64(repDist), n: repLen})
	}
	if bestLen >= minMatchLen {
		return append(ops, match{distance: int64(bestDist), n: bestLen})
	}
	return append(ops, lit{b: d.Literal()})
}

// Automaton transitions; the state methods use the same tables for their
// in-place updates.
func nextStateLit(st uint32) uint32 {
	switch {
	case st < 4:
		return 0
	case st < 10:
		return st - 3
	}
	return st - 6
}

func nextStateMatch(st uint32) uint32 {
	if st < 7 {
		return 7
	}
	return 10
}

func nextStateRep(st uint32) uint32 {
	if st < 7 {
		return 8
	}
	return 11
}

func nextStateShortRep(st uint32) uint32 {
	if st < 7 {
		return 9
	}
	return 11
}

const invalidPrice = math.MaxUint32

// optNode is a node of the shortest-path graph the optimizing parser
// builds over the lookahead. Node i represents the model after encoding
// the first i bytes; price is the cheapest arrival found so far.
type optNode struct {
	price uint32
	// index of the predecessor node
	from int32
	// distance of the arriving operation; 0 for a literal
	dist int64
	// length of the arriving operation
	n int32
	// automaton value after the operation
	state uint32
	// rep distances after the operation
	rep [4]uint32
}

// optParser selects operations by computing the cheapest operation
// sequence over a lookahead window. Prices are taken from the adaptive
// model as it stands at the start of the window; the model keeps adapting
// while the chosen operations are written, so the prices are an
// approximation for all but the first operation.
type optParser struct {
	nodes []optNode
	dists []int
	path  []operation
}

func newOptParser() *optParser { return &optParser{} }

func (p *optParser) appendOps(ops []operation, d *encoderDict,
	s *state, n int) []operation {

	w := d.Buffered()
	if w > maxMatchLen {
		w = maxMatchLen
	}
	if w == 0 {
		return ops
	}
	if cap(p.nodes) < w+1 {
		p.nodes = make([]optNode, maxMatchLen+1)
	}
	nodes := p.nodes[:w+1]
	nodes[0] = optNode{from: -1, state: s.state, rep: s.rep}
	for i := 1; i <= w; i++ {
		nodes[i].price = invalidPrice
	}

	pos := d.Pos()
	for i := 0; i < w; i++ {
		cur := nodes[i]
		posState := uint32(pos+int64(i)) & s.posBitMask
		state2 := (cur.state << maxPosBits) | posState
		isMatch := &s.posFlags[state2].isMatch
		rep0Off := -int(cur.rep[0]) - 1

		// literal
		c := d.ByteAt(i)
		litState := s.litState(d.ByteAt(i-1), pos+int64(i))
		price := cur.price + isMatch.price(0) +
			s.litCodec.price(c, cur.state, d.ByteAt(i+rep0Off),
				litState)
		relax(nodes, i+1, optNode{
			price: price,
			from:  int32(i),
			n:     1,
			state: nextStateLit(cur.state),
			rep:   cur.rep,
		})

		matchPrice := cur.price + isMatch.price(1)
		repPrice := matchPrice + s.flags[cur.state].isRep.price(1)

		// short rep
		if int(cur.rep[0])+1 <= d.DictLen()+i && c == d.ByteAt(i+rep0Off) {
			price = repPrice + s.flags[cur.state].isRepG0.price(0) +
				s.posFlags[state2].isRepG0Long.price(0)
			relax(nodes, i+1, optNode{
				price: price,
				from:  int32(i),
				dist:  int64(cur.rep[0]) + 1,
				n:     1,
				state: nextStateShortRep(cur.state),
				rep:   cur.rep,
			})
		}

		// rep matches
		for g := 0; g < 4; g++ {
			dist := int(cur.rep[g]) + 1
			m := d.MatchLen(i, dist, w-i)
			if m < minMatchLen {
				continue
			}
			price = repPrice + repGPrice(s, cur.state, state2, g)
			rep := shuffledReps(cur.rep, g)
			st := nextStateRep(cur.state)
			for l := minMatchLen; l <= m; l++ {
				lp := price + s.repLenCodec.price(
					uint32(l-minMatchLen), posState)
				relax(nodes, i+l, optNode{
					price: lp,
					from:  int32(i),
					dist:  int64(dist),
					n:     int32(l),
					state: st,
					rep:   rep,
				})
			}
		}

		// matches with new distances
		newPrice := matchPrice + s.flags[cur.state].isRep.price(0)
		p.dists = d.Matches(i, p.dists[:0])
		for _, dist := range p.dists {
			d32 := uint32(dist - minDistance)
			if d32 == cur.rep[0] || d32 == cur.rep[1] ||
				d32 == cur.rep[2] || d32 == cur.rep[3] {
				// covered by the rep loop; the encoder will
				// write such a distance as rep match
				continue
			}
			m := d.MatchLen(i, dist, w-i)
			if m < minMatchLen {
				continue
			}
			rep := [4]uint32{d32, cur.rep[0], cur.rep[1], cur.rep[2]}
			st := nextStateMatch(cur.state)
			distPrices := [lenStates]uint32{
				invalidPrice, invalidPrice,
				invalidPrice, invalidPrice,
			}
			for l := minMatchLen; l <= m; l++ {
				lo := uint32(l - minMatchLen)
				ls := lenState(lo)
				if distPrices[ls] == invalidPrice {
					distPrices[ls] = s.distCodec.price(
						d32, lo)
				}
				lp := newPrice + s.lenCodec.price(lo, posState) +
					distPrices[ls]
				relax(nodes, i+l, optNode{
					price: lp,
					from:  int32(i),
					dist:  int64(dist),
					n:     int32(l),
					state: st,
					rep:   rep,
				})
			}
		}
	}

	// walk the cheapest path back from the end of the window
	p.path = p.path[:0]
	for i := w; i > 0; i = int(nodes[i].from) {
		nd := &nodes[i]
		if nd.dist == 0 {
			p.path = append(p.path, lit{b: d.ByteAt(i - 1)})
		} else {
			p.path = append(p.path,
				match{distance: nd.dist, n: int(nd.n)})
		}
	}

	// emit in forward order; stop at the first operation starting
	// beyond the limit
	start := 0
	for i := len(p.path) - 1; i >= 0; i-- {
		if start >= n {
			break
		}
		op := p.path[i]
		ops = append(ops, op)
		start += op.Len()
	}
	return ops
}

// relax updates node j if the new arrival is cheaper.
func relax(nodes []optNode, j int, nd optNode) {
	if nd.price < nodes[j].price {
		nodes[j] = nd
	}
}

// repGPrice computes the price of the bits selecting rep distance g.
func repGPrice(s *state, state1, state2 uint32, g int) uint32 {
	f := &s.flags[state1]
	switch g {
	case 0:
		return f.isRepG0.price(0) +
			s.posFlags[state2].isRepG0Long.price(1)
	case 1:
		return f.isRepG0.price(1) + f.isRepG1.price(0)
	case 2:
		return f.isRepG0.price(1) + f.isRepG1.price(1) +
			f.isRepG2.price(0)
	}
	return f.isRepG0.price(1) + f.isRepG1.price(1) + f.isRepG2.price(1)
}

// shuffledReps returns the rep distances after using rep distance g.
func shuffledReps(rep [4]uint32, g int) [4]uint32 {
	switch g {
	case 1:
		return [4]uint32{rep[1], rep[0], rep[2], rep[3]}
	case 2:
		return [4]uint32{rep[2], rep[0], rep[1], rep[3]}
	case 3:
		return [4]uint32{rep[3], rep[0], rep[1], rep[2]}
	}
	return rep
}
