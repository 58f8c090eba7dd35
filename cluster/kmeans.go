// Package cluster partitions particles into spatial groups so that the
// parallel force-evaluation phase can hand each worker a contiguous,
// cache-friendly slice of work.
package cluster

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxIterations caps the k-means refinement loop. Hitting the cap is not an
// error; the partition is a load-balancing heuristic and an unconverged one
// is still valid.
const MaxIterations = 50

// moveTol is the centroid displacement below which the iteration is
// considered converged.
const moveTol = 1e-12

// Partition groups particle IDs contiguously by cluster. IDs holds every
// particle ID exactly once, ordered so that cluster c occupies
// IDs[Offsets[c] : Offsets[c]+Sizes[c]].
type Partition struct {
	IDs       []int32
	Offsets   []int32
	Sizes     []int32
	Centroids []r2.Vec
}

// K returns the number of clusters.
func (p *Partition) K() int { return len(p.Sizes) }

// Cluster returns the particle IDs assigned to cluster c.
func (p *Partition) Cluster(c int) []int32 {
	return p.IDs[p.Offsets[c] : p.Offsets[c]+p.Sizes[c]]
}

// KMeans clusters the particles at (x, y) into k spatial groups by Lloyd
// iteration: centroids are seeded from the first k particles, particles are
// assigned to their nearest centroid by squared Euclidean distance, and
// centroids are recomputed as the mean of their members until no centroid
// moves more than a small tolerance or MaxIterations passes have run.
// An empty cluster falls back to its seed particle's current position.
//
// Label assignment is parallelized over workers goroutines; everything else
// is sequential, so the result is deterministic for a given input.
func KMeans(x, y []float64, k, workers int) *Partition {
	n := len(x)
	if k > n {
		k = n
	}

	centroids := make([]r2.Vec, k)
	for c := 0; c < k; c++ {
		centroids[c] = r2.Vec{X: x[c], Y: y[c]}
	}

	labels := make([]int, n)
	counts := make([]int, k)
	sums := make([]r2.Vec, k)

	for iter := 0; iter < MaxIterations; iter++ {
		assignLabels(x, y, centroids, labels, workers)

		for c := range sums {
			sums[c] = r2.Vec{}
			counts[c] = 0
		}
		for i, c := range labels {
			sums[c].X += x[i]
			sums[c].Y += y[i]
			counts[c]++
		}

		moved := false
		for c := 0; c < k; c++ {
			next := r2.Vec{X: x[c], Y: y[c]} // empty-cluster fallback
			if counts[c] > 0 {
				next = r2.Vec{
					X: sums[c].X / float64(counts[c]),
					Y: sums[c].Y / float64(counts[c]),
				}
			}
			dx := next.X - centroids[c].X
			dy := next.Y - centroids[c].Y
			if dx*dx+dy*dy > moveTol*moveTol {
				moved = true
			}
			centroids[c] = next
		}
		if !moved {
			break
		}
	}

	// Final labeling against the settled centroids, then pack CSR.
	assignLabels(x, y, centroids, labels, workers)

	p := &Partition{
		IDs:       make([]int32, n),
		Offsets:   make([]int32, k),
		Sizes:     make([]int32, k),
		Centroids: centroids,
	}
	for _, c := range labels {
		p.Sizes[c]++
	}
	for c := 1; c < k; c++ {
		p.Offsets[c] = p.Offsets[c-1] + p.Sizes[c-1]
	}
	fill := make([]int32, k)
	copy(fill, p.Offsets)
	for i, c := range labels {
		p.IDs[fill[c]] = int32(i)
		fill[c]++
	}
	return p
}

// assignLabels writes the index of the nearest centroid for every particle.
// Workers handle disjoint contiguous ranges, so label writes never race.
func assignLabels(x, y []float64, centroids []r2.Vec, labels []int, workers int) {
	n := len(x)
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	assign := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			best := 0
			bestDist := sqDist(x[i], y[i], centroids[0])
			for c := 1; c < len(centroids); c++ {
				if d := sqDist(x[i], y[i], centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			labels[i] = best
		}
	}

	if workers == 1 {
		assign(0, n)
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			assign(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func sqDist(x, y float64, c r2.Vec) float64 {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx + dy*dy
}
