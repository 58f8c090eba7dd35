package geom

import (
	"sort"
)

// mortonBits is the number of bits kept per coordinate when quantizing
// positions onto the Morton grid. 21 bits per axis is the most that fits in
// a 64-bit interleaved code with room to spare.
const mortonBits = 21

const mortonMax = 1<<mortonBits - 1

// spreadBits spreads the low 21 bits of a so that bit i of the input lands
// in bit 2i of the output, leaving zeros in the odd positions.
// 0000...dcba -> 0d0c0b0a.
func spreadBits(a uint32) uint64 {
	x := uint64(a) & mortonMax
	x = (x | x<<16) & 0x0000ffff0000ffff
	x = (x | x<<8) & 0x00ff00ff00ff00ff
	x = (x | x<<4) & 0x0f0f0f0f0f0f0f0f
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return x
}

// MortonCode interleaves the low 21 bits of ix and iy into a single Z-order
// code. Bit 2i comes from ix and bit 2i+1 from iy.
func MortonCode(ix, iy uint32) uint64 {
	return spreadBits(ix) | spreadBits(iy)<<1
}

// MortonCodes quantizes every position onto a 2^21 x 2^21 grid over b and
// writes the Morton code of each particle into out.
func MortonCodes(b Bounds, x, y []float64, out []uint64) {
	scaleX := float64(mortonMax) / b.Width()
	scaleY := float64(mortonMax) / b.Height()
	for i := range x {
		ix := quantize((x[i] - b.Min.X) * scaleX)
		iy := quantize((y[i] - b.Min.Y) * scaleY)
		out[i] = MortonCode(ix, iy)
	}
}

func quantize(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= mortonMax {
		return mortonMax
	}
	return uint32(v)
}

// ZOrder returns the permutation that sorts particles by their Morton code
// over b, ascending. The sort is stable, so particles with equal codes keep
// their relative order and applying ZOrder to already-sorted positions
// yields the identity permutation.
func ZOrder(b Bounds, x, y []float64) []int {
	codes := make([]uint64, len(x))
	MortonCodes(b, x, y, codes)

	perm := make([]int, len(x))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return codes[perm[i]] < codes[perm[j]]
	})
	return perm
}
