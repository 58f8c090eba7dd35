package io

import (
	"golang.org/x/exp/rand"

	galsim "github.com/sylvia-ymlin/N-Body-Problem-Simulation"
)

// GenerateUniform creates n particles scattered uniformly over the unit
// square with zero initial velocity. Every particle carries mass 1/n so
// the total mass of the system is independent of n.
func GenerateUniform(n int, seed uint64) *galsim.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := galsim.NewParticles(n)

	mass := 1.0 / float64(n)
	for i := 0; i < n; i++ {
		p.X[i] = rng.Float64()
		p.Y[i] = rng.Float64()
		p.Mass[i] = mass
		p.Brightness[i] = rng.Float64()
	}
	return p
}

// GenerateClustered creates n particles where 80% form a gaussian blob
// centered on (0.5, 0.5) and the rest are uniform background. Clustered
// initial conditions stress the deeper tree levels far more than a
// uniform scatter does.
func GenerateClustered(n int, seed uint64) *galsim.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := galsim.NewParticles(n)

	const (
		sigma = 0.05
		frac  = 0.8
	)
	core := int(frac * float64(n))
	mass := 1.0 / float64(n)

	for i := 0; i < n; i++ {
		if i < core {
			p.X[i] = clipUnit(0.5 + sigma*rng.NormFloat64())
			p.Y[i] = clipUnit(0.5 + sigma*rng.NormFloat64())
		} else {
			p.X[i] = rng.Float64()
			p.Y[i] = rng.Float64()
		}
		p.Mass[i] = mass
		p.Brightness[i] = rng.Float64()
	}
	return p
}

func clipUnit(x float64) float64 {
	if x < 0.01 {
		return 0.01
	}
	if x > 0.99 {
		return 0.99
	}
	return x
}
