package galsim

import (
	"log"

	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/geom"
)

// Step advances the system by dt with velocity-Verlet (kick-drift-kick).
// Forces must be current on entry — call ComputeForces once before the
// first Step — and are current again on exit.
func (e *Engine) Step(p *Particles, dt float64) {
	n := p.Len()
	for i := 0; i < n; i++ {
		ax := p.FX[i] / p.Mass[i]
		ay := p.FY[i] / p.Mass[i]
		p.VX[i] += 0.5 * dt * ax
		p.VY[i] += 0.5 * dt * ay
		p.X[i] += dt * p.VX[i]
		p.Y[i] += dt * p.VY[i]
	}

	e.ComputeForces(p)

	for i := 0; i < n; i++ {
		p.VX[i] += 0.5 * dt * p.FX[i] / p.Mass[i]
		p.VY[i] += 0.5 * dt * p.FY[i] / p.Mass[i]
	}
}

// EulerStep advances the system by dt with symplectic Euler: velocities are
// kicked by the current forces, positions drift with the new velocities.
// Kept for comparison against the first version of the simulator; Verlet is
// the production integrator.
func (e *Engine) EulerStep(p *Particles, dt float64) {
	n := p.Len()
	for i := 0; i < n; i++ {
		p.VX[i] += dt * p.FX[i] / p.Mass[i]
		p.VY[i] += dt * p.FY[i] / p.Mass[i]
		p.X[i] += dt * p.VX[i]
		p.Y[i] += dt * p.VY[i]
	}
	e.ComputeForces(p)
}

// RunOptions controls the outer integration loop.
type RunOptions struct {
	Steps int
	Dt    float64

	// Euler selects symplectic Euler instead of velocity-Verlet.
	Euler bool

	// Domain, if set, terminates the run cleanly when any particle leaves
	// the region.
	Domain *geom.Bounds

	// Frame, if set, is invoked with the current state every FrameEvery
	// steps (and at step 0).
	FrameEvery int
	Frame      func(p *Particles) error
}

// Run evaluates the initial forces and then advances the system for
// opt.Steps steps, invoking the frame callback on the configured cadence.
// It returns early without error if a particle escapes opt.Domain.
func (e *Engine) Run(p *Particles, opt RunOptions) error {
	e.ComputeForces(p)

	for step := 0; step < opt.Steps; step++ {
		if opt.Frame != nil && opt.FrameEvery > 0 && step%opt.FrameEvery == 0 {
			if err := opt.Frame(p); err != nil {
				return err
			}
		}

		if opt.Domain != nil {
			if i, ok := escaped(p, *opt.Domain); ok {
				log.Printf(
					"galsim: particle %d left the simulation region at step %d, stopping",
					i, step,
				)
				return nil
			}
		}

		if opt.Euler {
			e.EulerStep(p, opt.Dt)
		} else {
			e.Step(p, opt.Dt)
		}
	}
	return nil
}

func escaped(p *Particles, b geom.Bounds) (int, bool) {
	for i := range p.X {
		if p.X[i] < b.Min.X || p.X[i] > b.Max.X ||
			p.Y[i] < b.Min.Y || p.Y[i] > b.Max.Y {
			return i, true
		}
	}
	return -1, false
}
