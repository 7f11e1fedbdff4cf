package lzma

// The price of an encoding decision is measured in 1/64 bit units. Prices
// are estimates derived from the current probability values; they steer the
// parser but have no influence on the encoded bit stream itself.
const (
	// number of low probability bits ignored by the price table
	moveReducingBits = 2
	// scaling of the price values; 1 bit costs 1 << priceShiftBits
	priceShiftBits = 6
)

// probPrices provides the price of a bit for a reduced probability value.
var probPrices = makeProbPrices()

func makeProbPrices() []uint32 {
	const n = probbits - moveReducingBits
	prices := make([]uint32, 1<<n)
	for i := n - 1; i >= 0; i-- {
		start := uint32(1) << uint(n-i-1)
		end := uint32(1) << uint(n-i)
		for j := start; j < end; j++ {
			prices[j] = uint32(i)<<priceShiftBits +
				((end-j)<<priceShiftBits)>>uint(n-i-1)
		}
	}
	return prices
}

// price0 returns the price for encoding a zero bit with probability p.
func (p prob) price0() uint32 {
	return probPrices[p>>moveReducingBits]
}

// price1 returns the price for encoding a one bit with probability p.
func (p prob) price1() uint32 {
	return probPrices[((1<<probbits)-p)>>moveReducingBits]
}

// price returns the price for encoding the given bit with probability p.
// The bit argument must be 0 or 1.
func (p prob) price(bit uint32) uint32 {
	i := (((uint32(p) - bit) ^ (-bit)) & ((1 << probbits) - 1)) >>
		moveReducingBits
	return probPrices[i]
}
