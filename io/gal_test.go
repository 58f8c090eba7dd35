package io

import (
	"os"
	"path/filepath"
	"testing"

	galsim "github.com/sylvia-ymlin/N-Body-Problem-Simulation"
	"golang.org/x/exp/rand"
)

func testParticles(n int, seed uint64) *galsim.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := galsim.NewParticles(n)
	for i := 0; i < n; i++ {
		p.X[i] = rng.Float64()
		p.Y[i] = rng.Float64()
		p.Mass[i] = rng.Float64() + 0.5
		p.VX[i] = rng.Float64() - 0.5
		p.VY[i] = rng.Float64() - 0.5
		p.Brightness[i] = rng.Float64()
	}
	return p
}

func TestParticleRoundTrip(t *testing.T) {
	p := testParticles(100, 1)
	path := filepath.Join(t.TempDir(), "particles.gal")

	if err := WriteParticles(path, p, GalEndianness); err != nil {
		t.Fatalf("WriteParticles: %v", err)
	}
	q, err := ReadParticles(path, p.Len(), GalEndianness)
	if err != nil {
		t.Fatalf("ReadParticles: %v", err)
	}

	for i := 0; i < p.Len(); i++ {
		if p.X[i] != q.X[i] || p.Y[i] != q.Y[i] || p.Mass[i] != q.Mass[i] ||
			p.VX[i] != q.VX[i] || p.VY[i] != q.VY[i] ||
			p.Brightness[i] != q.Brightness[i] {
			t.Errorf("particle %d changed across round trip", i)
		}
	}
}

func TestResultRoundTrip(t *testing.T) {
	p := testParticles(50, 2)
	path := filepath.Join(t.TempDir(), "result.gal")

	if err := WriteResult(path, p, GalEndianness); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	q, err := ReadResult(path, p.Len(), GalEndianness)
	if err != nil {
		t.Fatalf("ReadResult: %v", err)
	}

	for i := 0; i < p.Len(); i++ {
		if p.X[i] != q.X[i] || p.Y[i] != q.Y[i] || p.Mass[i] != q.Mass[i] ||
			p.VX[i] != q.VX[i] || p.VY[i] != q.VY[i] {
			t.Errorf("particle %d changed across round trip", i)
		}
		if q.Brightness[i] != 0 {
			t.Errorf("particle %d: result format should not carry brightness", i)
		}
	}
}

func TestReadParticlesTruncatedFile(t *testing.T) {
	p := testParticles(10, 3)
	path := filepath.Join(t.TempDir(), "short.gal")

	if err := WriteParticles(path, p, GalEndianness); err != nil {
		t.Fatalf("WriteParticles: %v", err)
	}
	if _, err := ReadParticles(path, p.Len()+1, GalEndianness); err == nil {
		t.Errorf("expected error reading more particles than the file holds")
	}
}

func TestMovieFrameSizes(t *testing.T) {
	p := testParticles(20, 4)
	path := filepath.Join(t.TempDir(), "movie.gal")

	if err := TruncateMovie(path); err != nil {
		t.Fatalf("TruncateMovie: %v", err)
	}
	frames := 3
	for i := 0; i < frames; i++ {
		if err := AppendFrame(path, p, GalEndianness); err != nil {
			t.Fatalf("AppendFrame: %v", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	want := int64(frames * p.Len() * frameFields * 8)
	if info.Size() != want {
		t.Errorf("movie file is %d bytes, expected %d", info.Size(), want)
	}

	// A second TruncateMovie must reset the frame sequence.
	if err := TruncateMovie(path); err != nil {
		t.Fatalf("TruncateMovie: %v", err)
	}
	info, err = os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("truncated movie file is %d bytes, expected 0", info.Size())
	}
}

func TestReadParticleTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.txt")
	text := `# x y mass vx vy brightness
0.25 0.75 1.0 0.1 -0.1 0.9
0.50 0.50 2.0 0.0  0.0 0.5
0.75 0.25 3.0 -0.2 0.2 0.1
`
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := ReadParticleTable(path)
	if err != nil {
		t.Fatalf("ReadParticleTable: %v", err)
	}
	if p.Len() != 3 {
		t.Fatalf("read %d particles, expected 3", p.Len())
	}
	if p.X[0] != 0.25 || p.Y[0] != 0.75 || p.Mass[2] != 3.0 {
		t.Errorf("table columns read incorrectly: %v %v %v",
			p.X, p.Y, p.Mass)
	}
	if p.VX[2] != -0.2 || p.Brightness[1] != 0.5 {
		t.Errorf("velocity or brightness columns read incorrectly")
	}
}
