package io

import (
	"fmt"

	"github.com/phil-mansfield/table"

	galsim "github.com/sylvia-ymlin/N-Body-Problem-Simulation"
)

// ReadParticleTable reads particles from a whitespace-separated text table
// with the columns [x y mass vx vy brightness], one particle per row. This
// is the human-editable alternative to the binary input format.
func ReadParticleTable(path string) (*galsim.Particles, error) {
	cols, err := table.ReadTable(path, []int{0, 1, 2, 3, 4, 5}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading particle table %s: %v", path, err)
	}

	n := len(cols[0])
	if n == 0 {
		return nil, fmt.Errorf("particle table %s is empty", path)
	}

	p := galsim.NewParticles(n)
	copy(p.X, cols[0])
	copy(p.Y, cols[1])
	copy(p.Mass, cols[2])
	copy(p.VX, cols[3])
	copy(p.VY, cols[4])
	copy(p.Brightness, cols[5])
	return p, nil
}
