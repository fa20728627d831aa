package graph

import "math/bits"

// bitset is a fixed-size set of node indices.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (s bitset) set(i int) { s[i/64] |= 1 << (uint(i) % 64) }

func (s bitset) has(i int) bool {
	if s == nil {
		return false
	}
	return s[i/64]&(1<<(uint(i)%64)) != 0
}

func (s bitset) union(o bitset) {
	for w := range o {
		s[w] |= o[w]
	}
}

func (s bitset) intersects(o bitset) bool {
	if s == nil || o == nil {
		return false
	}
	for w := range s {
		if s[w]&o[w] != 0 {
			return true
		}
	}
	return false
}

// each calls fn for every member in ascending order.
func (s bitset) each(fn func(int)) {
	for w, word := range s {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			fn(w*64 + b)
			word &^= 1 << uint(b)
		}
	}
}
