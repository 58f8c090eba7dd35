package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds is an axis-aligned rectangle in the simulation plane.
type Bounds struct {
	Min, Max r2.Vec
}

// NewBounds returns the bounds spanning [left, right] x [bottom, top].
func NewBounds(left, right, bottom, top float64) Bounds {
	return Bounds{r2.Vec{X: left, Y: bottom}, r2.Vec{X: right, Y: top}}
}

// Width returns the horizontal extent of b.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of b.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Mid returns the center point of b.
func (b Bounds) Mid() r2.Vec {
	return r2.Vec{X: 0.5 * (b.Min.X + b.Max.X), Y: 0.5 * (b.Min.Y + b.Max.Y)}
}

// Contains returns true if v is inside b. Points on the maximum edges are
// considered inside so that the padded root box holds every particle.
func (b Bounds) Contains(v r2.Vec) bool {
	return b.Min.X <= v.X && v.X <= b.Max.X &&
		b.Min.Y <= v.Y && v.Y <= b.Max.Y
}

// ParticleBounds returns the tightest bounds around the given positions.
func ParticleBounds(x, y []float64) Bounds {
	b := Bounds{r2.Vec{X: x[0], Y: y[0]}, r2.Vec{X: x[0], Y: y[0]}}
	for i := 1; i < len(x); i++ {
		if x[i] < b.Min.X {
			b.Min.X = x[i]
		}
		if x[i] > b.Max.X {
			b.Max.X = x[i]
		}
		if y[i] < b.Min.Y {
			b.Min.Y = y[i]
		}
		if y[i] > b.Max.Y {
			b.Max.Y = y[i]
		}
	}
	return b
}

// Squared expands b to a square with side max(width, height) anchored at
// b.Min, then pads every edge outward by pad times that side. Quadtree roots
// are always built over squared bounds so that node widths halve cleanly.
func (b Bounds) Squared(pad float64) Bounds {
	d := b.Width()
	if h := b.Height(); h > d {
		d = h
	}
	b.Max.X = b.Min.X + d
	b.Max.Y = b.Min.Y + d
	p := d * pad
	b.Min.X -= p
	b.Min.Y -= p
	b.Max.X += p
	b.Max.Y += p
	return b
}

// Quadrant returns the index of the quadrant of b containing v. Bit 0 is set
// for the right half and bit 1 for the upper half. Points exactly on a
// midline fall in the lower/left quadrant; insertion and traversal both rely
// on this tie-break.
func (b Bounds) Quadrant(v r2.Vec) int {
	mid := b.Mid()
	q := 0
	if v.X > mid.X {
		q += 1
	}
	if v.Y > mid.Y {
		q += 2
	}
	return q
}

// Child returns the bounds of the given quadrant of b.
func (b Bounds) Child(quad int) Bounds {
	mid := b.Mid()
	c := b
	if quad&1 == 0 {
		c.Max.X = mid.X
	} else {
		c.Min.X = mid.X
	}
	if quad&2 == 0 {
		c.Max.Y = mid.Y
	} else {
		c.Min.Y = mid.Y
	}
	return c
}
