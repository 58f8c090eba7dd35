// Package io reads and writes the simulator's particle file formats and its
// run configuration. The binary formats are sequences of IEEE-754 doubles
// with no header; particle count comes from the caller.
package io

import (
	"encoding/binary"
	"fmt"
	"os"

	galsim "github.com/sylvia-ymlin/N-Body-Problem-Simulation"
)

// All .gal files are little endian.
var GalEndianness binary.ByteOrder = binary.LittleEndian

// Record layouts, in doubles per particle.
const (
	inputFields  = 6 // x, y, mass, vx, vy, brightness
	resultFields = 5 // x, y, mass, vx, vy
	frameFields  = 3 // x, y, mass
)

// ReadParticles reads n six-field particle records [x y mass vx vy
// brightness] from path, using the given byte order.
func ReadParticles(path string, n int, order binary.ByteOrder) (*galsim.Particles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]float64, inputFields*n)
	if err := binary.Read(f, order, buf); err != nil {
		return nil, fmt.Errorf("reading %d particles from %s: %v", n, path, err)
	}

	p := galsim.NewParticles(n)
	for i := 0; i < n; i++ {
		rec := buf[inputFields*i:]
		p.X[i] = rec[0]
		p.Y[i] = rec[1]
		p.Mass[i] = rec[2]
		p.VX[i] = rec[3]
		p.VY[i] = rec[4]
		p.Brightness[i] = rec[5]
	}
	return p, nil
}

// WriteParticles writes the full six-field input format, suitable for
// feeding back into ReadParticles. Used by the initial-condition generator.
func WriteParticles(path string, p *galsim.Particles, order binary.ByteOrder) error {
	buf := make([]float64, inputFields*p.Len())
	for i := 0; i < p.Len(); i++ {
		rec := buf[inputFields*i:]
		rec[0] = p.X[i]
		rec[1] = p.Y[i]
		rec[2] = p.Mass[i]
		rec[3] = p.VX[i]
		rec[4] = p.VY[i]
		rec[5] = p.Brightness[i]
	}
	return writeFile(path, buf, order)
}

// WriteResult writes the final five-field state [x y mass vx vy],
// truncating any existing file.
func WriteResult(path string, p *galsim.Particles, order binary.ByteOrder) error {
	buf := make([]float64, resultFields*p.Len())
	for i := 0; i < p.Len(); i++ {
		rec := buf[resultFields*i:]
		rec[0] = p.X[i]
		rec[1] = p.Y[i]
		rec[2] = p.Mass[i]
		rec[3] = p.VX[i]
		rec[4] = p.VY[i]
	}
	return writeFile(path, buf, order)
}

// ReadResult reads n five-field records written by WriteResult.
func ReadResult(path string, n int, order binary.ByteOrder) (*galsim.Particles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]float64, resultFields*n)
	if err := binary.Read(f, order, buf); err != nil {
		return nil, fmt.Errorf("reading %d particles from %s: %v", n, path, err)
	}

	p := galsim.NewParticles(n)
	for i := 0; i < n; i++ {
		rec := buf[resultFields*i:]
		p.X[i] = rec[0]
		p.Y[i] = rec[1]
		p.Mass[i] = rec[2]
		p.VX[i] = rec[3]
		p.VY[i] = rec[4]
	}
	return p, nil
}

// AppendFrame appends one movie frame of [x y mass] records to path,
// creating the file if needed.
func AppendFrame(path string, p *galsim.Particles, order binary.ByteOrder) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	buf := make([]float64, frameFields*p.Len())
	for i := 0; i < p.Len(); i++ {
		rec := buf[frameFields*i:]
		rec[0] = p.X[i]
		rec[1] = p.Y[i]
		rec[2] = p.Mass[i]
	}

	if err := binary.Write(f, order, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// TruncateMovie creates or empties the movie file so a run starts with a
// clean frame sequence.
func TruncateMovie(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func writeFile(path string, buf []float64, order binary.ByteOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := binary.Write(f, order, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
