package tree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/geom"
)

// Collapse thresholds for the degenerate-collision merge. Two particles
// closer than mergeDist on both axes, or any leaf collision inside a node
// narrower than collapseWidth, are merged into a single leaf instead of
// subdividing further. The exact values are tunable; they only need to stop
// subdivision before it recurses without bound.
const (
	mergeDist     = 1e-9
	collapseWidth = 1e-12
)

// Build constructs a quadtree over the given particles, rooted at a node
// spanning b. The root becomes a leaf for particle 0 and the remaining
// particles are inserted one at a time. Construction is strictly sequential:
// insertion mutates shared node state with no synchronization.
func Build(a *Arena, b geom.Bounds, x, y, mass []float64) Ref {
	root := a.Alloc(b)
	n := a.Node(root)
	n.Kind = Leaf
	n.Particle = 0
	n.Mass = mass[0]
	n.CM = r2.Vec{X: x[0], Y: y[0]}

	for i := 1; i < len(x); i++ {
		Insert(a, root, x[i], y[i], mass[i], int32(i))
	}
	return root
}

// Insert adds one particle to the subtree rooted at ref, keeping every
// visited node's aggregate mass and centroid current.
func Insert(a *Arena, ref Ref, px, py, m float64, id int32) {
	n := a.Node(ref)

	switch n.Kind {
	case Empty:
		n.Kind = Leaf
		n.Particle = id
		n.Mass = m
		n.CM = r2.Vec{X: px, Y: py}
		return

	case Leaf:
		if coincident(n, px, py) || n.Bounds.Width() < collapseWidth {
			// Numerically identical positions, or a region collapsed to
			// nothing: merge in place rather than subdividing forever.
			total := n.Mass + m
			n.CM.X = (m*px + n.Mass*n.CM.X) / total
			n.CM.Y = (m*py + n.Mass*n.CM.Y) / total
			n.Mass = total
			return
		}

		// Demote to internal: push the resident particle into its quadrant.
		oldQuad := n.Bounds.Quadrant(n.CM)
		oldID, oldMass, oldCM := n.Particle, n.Mass, n.CM
		child := a.Alloc(n.Bounds.Child(oldQuad))

		n = a.Node(ref) // Alloc may have moved the backing array
		c := a.Node(child)
		c.Kind = Leaf
		c.Particle = oldID
		c.Mass = oldMass
		c.CM = oldCM

		n.Child[oldQuad] = child
		n.Particle = None
		n.Kind = Internal
	}

	// Running mass-weighted centroid update for the incoming particle.
	total := n.Mass + m
	n.CM.X = (m*px + n.Mass*n.CM.X) / total
	n.CM.Y = (m*py + n.Mass*n.CM.Y) / total
	n.Mass = total

	quad := n.Bounds.Quadrant(r2.Vec{X: px, Y: py})
	if n.Child[quad] == Nil {
		child := a.Alloc(n.Bounds.Child(quad))

		n = a.Node(ref)
		c := a.Node(child)
		c.Kind = Leaf
		c.Particle = id
		c.Mass = m
		c.CM = r2.Vec{X: px, Y: py}

		n.Child[quad] = child
	} else {
		Insert(a, n.Child[quad], px, py, m, id)
	}
}

func coincident(n *Node, px, py float64) bool {
	return math.Abs(px-n.CM.X) < mergeDist && math.Abs(py-n.CM.Y) < mergeDist
}
