// Package substrate discovers the hidden neurons and connections of an
// ES-HyperNEAT substrate: adaptive quadtree sampling of the CPPN weight field,
// band-pruned connection extraction, three-phase discovery and reachability
// filtering.
package substrate

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// resolution is the number of quantisation steps per unit (six decimal places).
const resolution = 1e6

// Point is a 2D or 3D substrate coordinate quantised to six decimal places.
// Points are comparable, so they can key maps, and are totally ordered by Compare.
type Point struct {
	dim int8
	q   [3]int64
}

// NewPoint quantises coords. Two or three coordinates are supported.
func NewPoint(coords ...float64) Point {
	if len(coords) < 2 || len(coords) > 3 {
		panic(fmt.Sprintf("substrate: points have 2 or 3 coordinates, got %d", len(coords)))
	}
	p := Point{dim: int8(len(coords))}
	for i, c := range coords {
		p.q[i] = int64(math.Round(c * resolution))
	}
	return p
}

// Dim returns the number of coordinates.
func (p Point) Dim() int { return int(p.dim) }

// Coord returns coordinate i.
func (p Point) Coord(i int) float64 { return float64(p.q[i]) / resolution }

// Coords returns the coordinates as a new slice.
func (p Point) Coords() []float64 {
	out := make([]float64, p.dim)
	for i := range out {
		out[i] = p.Coord(i)
	}
	return out
}

// X returns the first coordinate.
func (p Point) X() float64 { return p.Coord(0) }

// Y returns the second coordinate.
func (p Point) Y() float64 { return p.Coord(1) }

// Offset returns p moved by delta along axis.
func (p Point) Offset(axis int, delta float64) Point {
	c := p.Coords()
	c[axis] += delta
	return NewPoint(c...)
}

// Compare orders points lexicographically on their quantised coordinates.
func (p Point) Compare(o Point) int {
	if c := cmp.Compare(p.dim, o.dim); c != 0 {
		return c
	}
	for i := 0; i < int(p.dim); i++ {
		if c := cmp.Compare(p.q[i], o.q[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (p Point) String() string {
	parts := make([]string, p.dim)
	for i := range parts {
		parts[i] = strconv.FormatFloat(p.Coord(i), 'f', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Origin returns the all-zero point of dimension dim.
func Origin(dim int) Point {
	return NewPoint(make([]float64, dim)...)
}

// PointSet is a set of points that iterates in Compare order.
type PointSet map[Point]struct{}

// Add inserts p and reports whether it was new.
func (s PointSet) Add(p Point) bool {
	if _, ok := s[p]; ok {
		return false
	}
	s[p] = struct{}{}
	return true
}

// Has reports membership.
func (s PointSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in Compare order.
func (s PointSet) Sorted() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	SortPoints(out)
	return out
}

// SortPoints sorts ps in place in Compare order.
func SortPoints(ps []Point) {
	slices.SortFunc(ps, func(a, b Point) int { return a.Compare(b) })
}
