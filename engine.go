package galsim

import (
	"runtime"

	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/cluster"
	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/geom"
	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/tree"
)

// Version selects one of the force-kernel variants, in the order they were
// developed.
type Version int

const (
	// V1Naive is the exact O(N^2) pairwise kernel. Baseline only.
	V1Naive Version = iota + 1
	// V2BarnesHut builds the quadtree from per-call heap allocations and
	// traverses it recursively, single-threaded.
	V2BarnesHut
	// V3Arena is V2 with tree nodes bump-allocated from a reused arena.
	V3Arena
	// V4Morton is V3 plus a Z-order sort of the particle arrays before each
	// build, for tree-build and traversal locality.
	V4Morton
	// V5Clustered evaluates forces in parallel, partitioned by periodic
	// k-means clusters, with stackless traversal. With KClusters = 0 it
	// falls back to Morton-sorted dynamic chunks.
	V5Clustered
)

const (
	// boundsPad is the fractional padding added around the particle extent
	// when squaring the root bounds each step.
	boundsPad = 0.05
	// arenaNodesPerParticle provisions the fixed arena. Tree builds need
	// 3-100 nodes per particle depending on degeneracy; 10 covers every
	// non-pathological distribution.
	arenaNodesPerParticle = 10
	// reclusterEvery is the re-clustering cadence in force evaluations.
	// Between re-clusterings the stale partition is accepted as an
	// approximation that trades balance accuracy for speed.
	reclusterEvery = 10
	// evalChunk is the dynamic chunk size for flat (non-clustered) parallel
	// force evaluation.
	evalChunk = 64
)

// Config holds the kernel parameters supplied by the caller.
type Config struct {
	// ThetaMax is the multipole acceptance threshold, in (0, ~1.5].
	// 0 disables approximation entirely (every node is opened).
	ThetaMax float64
	// Threads is the worker count for the parallel force phase.
	// Non-positive means one worker per logical CPU.
	Threads int
	// KClusters is the k-means cluster count for V5Clustered; 0 disables
	// clustering and uses flat Morton-ordered chunks.
	KClusters int
	// UseArena selects the reused fixed arena over per-call heap
	// allocation for tree nodes. Functionally equivalent; arena only
	// affects performance. V3 and V4 always use the arena.
	UseArena bool
}

// Engine computes forces for one particle system configuration. It owns the
// node arena, the cluster partition, and the re-cluster cadence; callers
// create one engine per run and invoke ComputeForces once per step.
type Engine struct {
	version Version
	cfg     Config

	arena  *tree.Arena
	arenaN int

	part  *cluster.Partition
	partN int
	calls int
}

// NewEngine returns an engine for the given kernel version.
func NewEngine(version Version, cfg Config) *Engine {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}
	return &Engine{version: version, cfg: cfg}
}

// Version returns the engine's kernel version.
func (e *Engine) Version() Version { return e.version }

// G returns the gravitational constant used for n particles. Force strength
// is normalized to the particle count rather than physical units.
func G(n int) float64 { return 100.0 / float64(n) }

// ComputeForces overwrites p.FX and p.FY with the net force on every
// particle. The particle arrays are only borrowed: positions, masses and
// velocities are left untouched except for the reordering the Morton and
// clustered versions apply (which preserves each particle's full state).
func (e *Engine) ComputeForces(p *Particles) {
	for i := range p.FX {
		p.FX[i] = 0
		p.FY[i] = 0
	}

	switch e.version {
	case V1Naive:
		e.naive(p)
	case V2BarnesHut:
		e.treeSerial(p, false, false)
	case V3Arena:
		e.treeSerial(p, true, false)
	case V4Morton:
		e.treeSerial(p, true, true)
	case V5Clustered:
		e.treeParallel(p)
	default:
		e.naive(p)
	}
	e.calls++
}

// treeSerial is the single-threaded Barnes-Hut path shared by V2-V4.
func (e *Engine) treeSerial(p *Particles, arena, morton bool) {
	n := p.Len()
	b := geom.ParticleBounds(p.X, p.Y).Squared(boundsPad)

	if morton {
		p.Reorder(geom.ZOrder(b, p.X, p.Y))
	}

	a := e.nodeArena(n, arena)
	root := tree.Build(a, b, p.X, p.Y, p.Mass)

	g := G(n)
	for i := 0; i < n; i++ {
		p.FX[i], p.FY[i] = tree.ForceOn(
			a, root, p.X[i], p.Y[i], p.Mass[i], int32(i), g, e.cfg.ThetaMax,
		)
	}
}

// treeParallel is the V5 path: periodic k-means partitioning (or a Morton
// sort when clustering is disabled), a single-threaded build, and a parallel
// stackless evaluation phase. The arena is read-only while workers run; the
// join barrier at the end of the parallel region is the only synchronization
// needed.
func (e *Engine) treeParallel(p *Particles) {
	n := p.Len()
	k := e.cfg.KClusters
	b := geom.ParticleBounds(p.X, p.Y).Squared(boundsPad)

	if k <= 0 {
		p.Reorder(geom.ZOrder(b, p.X, p.Y))
	} else if e.part == nil || e.partN != n || e.calls%reclusterEvery == 0 {
		// A partition built for a different particle count holds IDs that
		// may no longer exist; recluster immediately rather than waiting
		// out the cadence.
		e.part = cluster.KMeans(p.X, p.Y, k, e.cfg.Threads)
		e.partN = n
	}

	a := e.nodeArena(n, e.cfg.UseArena)
	root := tree.Build(a, b, p.X, p.Y, p.Mass)

	g := G(n)
	eval := func(id int32) {
		i := int(id)
		p.FX[i], p.FY[i] = tree.ForceOnStack(
			a, root, p.X[i], p.Y[i], p.Mass[i], id, g, e.cfg.ThetaMax,
		)
	}

	if k > 0 {
		// Whole clusters are claimed dynamically so uneven cluster sizes
		// still balance. Partitions are disjoint, so workers never write
		// the same force slot.
		part := e.part
		parallelFor(part.K(), e.cfg.Threads, 1, func(lo, hi int) {
			for c := lo; c < hi; c++ {
				for _, id := range part.Cluster(c) {
					eval(id)
				}
			}
		})
	} else {
		parallelFor(n, e.cfg.Threads, evalChunk, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				eval(int32(i))
			}
		})
	}
}

// nodeArena returns the arena to build this step's tree in: the engine's
// reused fixed arena, or a fresh growable one when per-call heap allocation
// was requested. The fixed arena is reprovisioned only when the particle
// count changes.
func (e *Engine) nodeArena(n int, fixed bool) *tree.Arena {
	if !fixed {
		return tree.NewHeapArena()
	}
	if e.arena == nil || e.arenaN != n {
		e.arena = tree.NewArena(arenaNodesPerParticle * n)
		e.arenaN = n
	}
	e.arena.Reset()
	return e.arena
}

// naive is the exact O(N^2) kernel, kept as the accuracy baseline. It uses
// the same softened pair law as the tree traversals.
func (e *Engine) naive(p *Particles) {
	n := p.Len()
	g := G(n)
	for i := 0; i < n; i++ {
		var fx, fy float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dfx, dfy := tree.PairForce(
				p.X[i], p.Y[i], p.Mass[i], p.X[j], p.Y[j], p.Mass[j], g,
			)
			fx += dfx
			fy += dfy
		}
		p.FX[i] = fx
		p.FY[i] = fy
	}
}
