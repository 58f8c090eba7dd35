package galsim

import (
	"math"

	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/tree"
)

// TotalEnergy returns the kinetic plus softened pairwise potential energy of
// the system, with the same G normalization and Plummer softening as the
// force kernels. It is an O(N^2) diagnostic for measuring integrator drift,
// not part of the per-step pipeline.
func TotalEnergy(p *Particles) float64 {
	n := p.Len()
	g := G(n)

	kinetic := 0.0
	for i := 0; i < n; i++ {
		kinetic += 0.5 * p.Mass[i] * (p.VX[i]*p.VX[i] + p.VY[i]*p.VY[i])
	}

	potential := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := p.X[j] - p.X[i]
			dy := p.Y[j] - p.Y[i]
			r := math.Sqrt(dx*dx+dy*dy) + tree.Epsilon
			potential -= g * p.Mass[i] * p.Mass[j] / r
		}
	}
	return kinetic + potential
}
