package tree

import (
	"log"
	"math"
)

// Epsilon is the Plummer softening length: it bounds the pair force at
// near-zero separation so close encounters cannot produce singular
// accelerations.
const Epsilon = 1e-3

// maxStack bounds the explicit traversal stack. A quadtree over any sane
// particle distribution stays far below this; hitting the bound means the
// tree is pathologically deep and continuing would silently corrupt forces,
// so it is treated the same way as arena exhaustion.
const maxStack = 2048

// PairForce returns the softened gravitational attraction exerted on a
// particle at (px, py) with mass m by a point mass cm at (cx, cy):
//
//	F = g * m * cm / (r + epsilon)^3 * r_vec
//
// where r_vec points from the particle toward the point mass.
func PairForce(px, py, m, cx, cy, cm, g float64) (fx, fy float64) {
	rx := cx - px
	ry := cy - py
	r := math.Sqrt(rx*rx+ry*ry) + Epsilon
	f := g * m * cm / (r * r * r)
	return f * rx, f * ry
}

// ForceOn returns the approximate net force on the particle id at (px, py)
// with mass m, by recursive descent from root. An internal node whose width
// w and centroid distance d satisfy w <= theta*d is treated as a single
// point mass at its centroid; otherwise its children are opened. The
// comparison is done in squared form, so no square root or division is
// taken on the rejection path.
func ForceOn(a *Arena, root Ref, px, py, m float64, id int32, g, theta float64) (fx, fy float64) {
	forceOn(a, root, px, py, m, id, g, theta, &fx, &fy)
	return fx, fy
}

func forceOn(a *Arena, ref Ref, px, py, m float64, id int32, g, theta float64, fx, fy *float64) {
	if ref == Nil {
		return
	}
	n := a.Node(ref)

	switch n.Kind {
	case Empty:
		return
	case Leaf:
		if n.Particle == id {
			return
		}
	case Internal:
		w := n.Bounds.Width()
		dx := px - n.CM.X
		dy := py - n.CM.Y
		if w*w > theta*theta*(dx*dx+dy*dy) {
			forceOn(a, n.Child[0], px, py, m, id, g, theta, fx, fy)
			forceOn(a, n.Child[1], px, py, m, id, g, theta, fx, fy)
			forceOn(a, n.Child[2], px, py, m, id, g, theta, fx, fy)
			forceOn(a, n.Child[3], px, py, m, id, g, theta, fx, fy)
			return
		}
	}

	dfx, dfy := PairForce(px, py, m, n.CM.X, n.CM.Y, n.Mass, g)
	*fx += dfx
	*fy += dfy
}

// ForceOnStack computes the same force as ForceOn with an explicit LIFO
// work stack instead of recursion. Children are pushed in reverse quadrant
// order so that pop order matches recursive visitation order, which keeps
// the floating-point accumulation order identical to ForceOn.
func ForceOnStack(a *Arena, root Ref, px, py, m float64, id int32, g, theta float64) (fx, fy float64) {
	if root == Nil {
		return 0, 0
	}

	var stack [maxStack]Ref
	sp := 0
	stack[sp] = root
	sp++

	for sp > 0 {
		sp--
		n := a.Node(stack[sp])

		switch n.Kind {
		case Empty:
			continue
		case Leaf:
			if n.Particle == id {
				continue
			}
		case Internal:
			w := n.Bounds.Width()
			dx := px - n.CM.X
			dy := py - n.CM.Y
			if w*w > theta*theta*(dx*dx+dy*dy) {
				for q := 3; q >= 0; q-- {
					if n.Child[q] == Nil {
						continue
					}
					if sp == maxStack {
						log.Fatalf(
							"tree: traversal stack overflow: depth exceeds %d nodes",
							maxStack,
						)
					}
					stack[sp] = n.Child[q]
					sp++
				}
				continue
			}
		}

		dfx, dfy := PairForce(px, py, m, n.CM.X, n.CM.Y, n.Mass, g)
		fx += dfx
		fy += dfy
	}
	return fx, fy
}
