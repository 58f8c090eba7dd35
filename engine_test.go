package galsim

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	floats "gonum.org/v1/gonum/floats/scalar"
)

// testSystem builds a deterministic random system with unique masses so
// particles can be matched across reorderings.
func testSystem(n int, seed int64) *Particles {
	rng := rand.New(rand.NewSource(seed))
	p := NewParticles(n)
	for i := 0; i < n; i++ {
		p.X[i] = rng.Float64()
		p.Y[i] = rng.Float64()
		p.Mass[i] = 1.0/float64(n) + float64(i)*1e-9
		p.VX[i] = rng.Float64() * 0.1
		p.VY[i] = rng.Float64() * 0.1
		p.Brightness[i] = rng.Float64()
	}
	return p
}

func clone(p *Particles) *Particles {
	q := NewParticles(p.Len())
	copy(q.X, p.X)
	copy(q.Y, p.Y)
	copy(q.Mass, p.Mass)
	copy(q.VX, p.VX)
	copy(q.VY, p.VY)
	copy(q.FX, p.FX)
	copy(q.FY, p.FY)
	copy(q.Brightness, p.Brightness)
	return q
}

// forcesByMass returns forces keyed by each particle's (unique) mass so
// versions that reorder the arrays can be compared against ones that don't.
func forcesByMass(p *Particles) map[float64][2]float64 {
	m := make(map[float64][2]float64, p.Len())
	for i := range p.Mass {
		m[p.Mass[i]] = [2]float64{p.FX[i], p.FY[i]}
	}
	return m
}

func TestAllVersionsMatchNaiveAtThetaZero(t *testing.T) {
	base := testSystem(150, 77)

	ref := clone(base)
	NewEngine(V1Naive, Config{}).ComputeForces(ref)
	want := forcesByMass(ref)

	versions := []struct {
		name string
		v    Version
		cfg  Config
	}{
		{"V2BarnesHut", V2BarnesHut, Config{}},
		{"V3Arena", V3Arena, Config{}},
		{"V4Morton", V4Morton, Config{}},
		{"V5Flat", V5Clustered, Config{Threads: 4, UseArena: true}},
		{"V5Clusters", V5Clustered, Config{Threads: 4, KClusters: 8, UseArena: true}},
	}
	for _, test := range versions {
		p := clone(base)
		NewEngine(test.v, test.cfg).ComputeForces(p)
		got := forcesByMass(p)

		for mass, wf := range want {
			gf, ok := got[mass]
			if !ok {
				t.Fatalf("%s: particle with mass %g lost", test.name, mass)
			}
			if !floats.EqualWithinAbsOrRel(gf[0], wf[0], 1e-9, 1e-9) ||
				!floats.EqualWithinAbsOrRel(gf[1], wf[1], 1e-9, 1e-9) {
				t.Errorf("%s: force (%g, %g), naive gives (%g, %g)",
					test.name, gf[0], gf[1], wf[0], wf[1])
			}
		}
	}
}

func TestTreeVersionsAgreeAtModerateTheta(t *testing.T) {
	base := testSystem(200, 13)
	cfgs := []struct {
		name string
		v    Version
		cfg  Config
	}{
		{"V2BarnesHut", V2BarnesHut, Config{ThetaMax: 0.5}},
		{"V3Arena", V3Arena, Config{ThetaMax: 0.5}},
		{"V5Clusters", V5Clustered, Config{ThetaMax: 0.5, Threads: 4, KClusters: 6, UseArena: true}},
	}

	var want map[float64][2]float64
	for i, test := range cfgs {
		p := clone(base)
		NewEngine(test.v, test.cfg).ComputeForces(p)
		got := forcesByMass(p)
		if i == 0 {
			want = got
			continue
		}
		for mass, wf := range want {
			gf := got[mass]
			if !floats.EqualWithinAbsOrRel(gf[0], wf[0], 1e-12, 1e-9) ||
				!floats.EqualWithinAbsOrRel(gf[1], wf[1], 1e-12, 1e-9) {
				t.Errorf("%s: force (%g, %g), %s gives (%g, %g)",
					test.name, gf[0], gf[1], cfgs[0].name, wf[0], wf[1])
			}
		}
	}
}

func TestParallelEvaluationDeterministic(t *testing.T) {
	base := testSystem(300, 5)

	p1 := clone(base)
	NewEngine(V5Clustered, Config{ThetaMax: 0.5, Threads: 8, KClusters: 5, UseArena: true}).ComputeForces(p1)

	p2 := clone(base)
	NewEngine(V5Clustered, Config{ThetaMax: 0.5, Threads: 1, KClusters: 5, UseArena: true}).ComputeForces(p2)

	for i := range p1.FX {
		if p1.FX[i] != p2.FX[i] || p1.FY[i] != p2.FY[i] {
			t.Fatalf("particle %d: 8 workers give (%g, %g), 1 worker gives (%g, %g)",
				i, p1.FX[i], p1.FY[i], p2.FX[i], p2.FY[i])
		}
	}
}

func TestReorderPreservesState(t *testing.T) {
	p := testSystem(100, 9)
	orig := clone(p)

	perm := make([]int, 100)
	for i := range perm {
		perm[i] = i
	}
	rng := rand.New(rand.NewSource(2))
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	p.Reorder(perm)

	// The multiset of masses is unchanged.
	a := append([]float64{}, orig.Mass...)
	b := append([]float64{}, p.Mass...)
	sort.Float64s(a)
	sort.Float64s(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("mass multiset changed under Reorder")
		}
	}

	// Each particle's full state moved together.
	for i, pi := range perm {
		if p.X[i] != orig.X[pi] || p.Y[i] != orig.Y[pi] ||
			p.Mass[i] != orig.Mass[pi] ||
			p.VX[i] != orig.VX[pi] || p.VY[i] != orig.VY[pi] ||
			p.Brightness[i] != orig.Brightness[pi] {
			t.Fatalf("particle state torn apart at index %d", i)
		}
	}
}

func TestEngineArenaReprovisionsAcrossSizes(t *testing.T) {
	e := NewEngine(V3Arena, Config{ThetaMax: 0.5})

	big := testSystem(200, 1)
	e.ComputeForces(big)

	small := testSystem(40, 2)
	e.ComputeForces(small)

	fresh := testSystem(40, 2)
	NewEngine(V3Arena, Config{ThetaMax: 0.5}).ComputeForces(fresh)

	for i := range small.FX {
		if small.FX[i] != fresh.FX[i] || small.FY[i] != fresh.FY[i] {
			t.Fatalf("particle %d: reused engine gives (%g, %g), fresh gives (%g, %g)",
				i, small.FX[i], small.FY[i], fresh.FX[i], fresh.FY[i])
		}
	}
}

func TestEngineClusterPartitionReprovisionsAcrossSizes(t *testing.T) {
	// The partition recluster cadence must not carry a stale partition
	// across a particle-count change: IDs assigned for the larger system
	// would index past the smaller system's force arrays.
	cfg := Config{ThetaMax: 0.5, Threads: 4, KClusters: 8, UseArena: true}
	e := NewEngine(V5Clustered, cfg)

	big := testSystem(100, 31)
	e.ComputeForces(big)

	small := testSystem(40, 32)
	e.ComputeForces(small)

	fresh := testSystem(40, 32)
	NewEngine(V5Clustered, cfg).ComputeForces(fresh)

	for i := range small.FX {
		if small.FX[i] != fresh.FX[i] || small.FY[i] != fresh.FY[i] {
			t.Fatalf("particle %d: reused engine gives (%g, %g), fresh gives (%g, %g)",
				i, small.FX[i], small.FY[i], fresh.FX[i], fresh.FY[i])
		}
	}
}

func TestNaiveMomentumBalance(t *testing.T) {
	p := testSystem(80, 4)
	NewEngine(V1Naive, Config{}).ComputeForces(p)

	var sx, sy float64
	for i := range p.FX {
		sx += p.FX[i]
		sy += p.FY[i]
	}
	if math.Abs(sx) > 1e-10 || math.Abs(sy) > 1e-10 {
		t.Errorf("net force = (%g, %g), want ~0 by Newton's third law", sx, sy)
	}
}
