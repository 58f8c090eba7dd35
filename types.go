// Package galsim simulates the gravitational evolution of N point masses in
// a plane. Forces are computed approximately with a Barnes-Hut quadtree; the
// five engine versions reproduce the optimization ladder from a naive O(N^2)
// kernel up to a Morton-sorted, k-means-partitioned parallel tree code.
package galsim

// Particles holds the state of every body as parallel arrays indexed by
// particle ID. The engine borrows these arrays for the duration of one force
// evaluation and writes only into FX and FY; positions and velocities are
// mutated by the integration step between evaluations.
type Particles struct {
	X, Y       []float64
	Mass       []float64
	VX, VY     []float64
	FX, FY     []float64
	Brightness []float64
}

// NewParticles returns a zeroed particle system of n bodies.
func NewParticles(n int) *Particles {
	return &Particles{
		X:          make([]float64, n),
		Y:          make([]float64, n),
		Mass:       make([]float64, n),
		VX:         make([]float64, n),
		VY:         make([]float64, n),
		FX:         make([]float64, n),
		FY:         make([]float64, n),
		Brightness: make([]float64, n),
	}
}

// Len returns the number of particles.
func (p *Particles) Len() int { return len(p.X) }

// TotalMass returns the sum of all particle masses.
func (p *Particles) TotalMass() float64 {
	sum := 0.0
	for _, m := range p.Mass {
		sum += m
	}
	return sum
}

// Reorder permutes the particle arrays so that entry i of the result was
// entry perm[i] of the input. Every parallel array is permuted together,
// including forces and brightness: nothing indexed by the old ordering
// survives a sort, so no derived array can silently desynchronize.
func (p *Particles) Reorder(perm []int) {
	buf := make([]float64, p.Len())
	arrays := [][]float64{p.X, p.Y, p.Mass, p.VX, p.VY, p.FX, p.FY, p.Brightness}
	for _, arr := range arrays {
		for i, pi := range perm {
			buf[i] = arr[pi]
		}
		copy(arr, buf)
	}
}
