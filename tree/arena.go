package tree

import (
	"log"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/sylvia-ymlin/N-Body-Problem-Simulation/geom"
)

// Ref is an arena-relative node reference: an index into the arena's node
// slice. Using indices instead of pointers keeps the tree valid across the
// reallocations a growable arena performs and makes node identity stable
// between builds.
type Ref int32

// Nil is the null node reference.
const Nil Ref = -1

// None marks a node that has no single owning particle.
const None int32 = -1

// Kind tags what a node currently represents.
type Kind uint8

const (
	// Empty nodes hold no mass. Only a freshly allocated root is ever
	// observed in this state.
	Empty Kind = iota
	// Leaf nodes hold exactly one particle (or the merged remnant of
	// numerically coincident particles).
	Leaf
	// Internal nodes aggregate the mass and centroid of their subtree.
	Internal
)

// Node is one square region of the quadtree. Child references follow the
// quadrant layout of geom.Bounds: bit 0 right half, bit 1 upper half.
type Node struct {
	Bounds   geom.Bounds
	Child    [4]Ref
	Particle int32
	Kind     Kind

	// Aggregate mass and center of mass of the subtree. For a leaf these
	// are the particle's own mass and position.
	Mass float64
	CM   r2.Vec
}

// Arena is a bump allocator of tree nodes. Nodes are never freed
// individually; Reset discards the whole tree in O(1) and the next build
// overwrites the slots. A fixed arena treats exhaustion as a fatal sizing
// error, while a growable arena models per-call heap allocation.
type Arena struct {
	nodes []Node
	used  int
	grow  bool
}

// NewArena returns an arena with a fixed capacity. Exceeding the capacity
// aborts the process: it means the caller's size estimate was wrong and
// there is no growth path. Builds over N particles empirically need between
// 3N and 100N nodes depending on how degenerate the distribution is; 10N is
// the conventional provisioning.
func NewArena(capacity int) *Arena {
	return &Arena{nodes: make([]Node, capacity)}
}

// NewHeapArena returns an arena that grows on demand. Functionally identical
// to a fixed arena; it exists so the heap-allocation mode costs one append
// per node instead of one provisioning decision per run.
func NewHeapArena() *Arena {
	return &Arena{grow: true}
}

// Alloc hands out a fresh node spanning b and returns its reference. Every
// field of the slot is re-initialized here; Reset leaves stale contents
// behind, so allocation is the only place that may be relied on to clear
// them.
func (a *Arena) Alloc(b geom.Bounds) Ref {
	if a.used == len(a.nodes) {
		if !a.grow {
			log.Fatalf(
				"tree: arena exhausted: %d nodes provisioned, build requires more",
				len(a.nodes),
			)
		}
		a.nodes = append(a.nodes, Node{})
		a.nodes = a.nodes[:cap(a.nodes)]
	}

	r := Ref(a.used)
	a.used++

	n := &a.nodes[r]
	n.Bounds = b
	n.Child = [4]Ref{Nil, Nil, Nil, Nil}
	n.Particle = None
	n.Kind = Empty
	n.Mass = 0
	n.CM = r2.Vec{}
	return r
}

// Node returns the node behind r. The pointer is invalidated by the next
// Alloc on a growable arena; callers re-fetch after allocating.
func (a *Arena) Node(r Ref) *Node { return &a.nodes[r] }

// Reset discards all allocated nodes in O(1). Contents are not cleared.
func (a *Arena) Reset() { a.used = 0 }

// Len returns the number of nodes allocated since the last Reset.
func (a *Arena) Len() int { return a.used }

// Cap returns the arena's current capacity.
func (a *Arena) Cap() int { return len(a.nodes) }
