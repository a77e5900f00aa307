package substrate

import (
	"fmt"
	"math"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
)

// QuadPoint is one cell of the sampling tree. In 2D it is a quadtree node with
// 4 children, in 3D an octree node with 8. A cell exclusively owns its children;
// the whole tree is dropped once the anchor point has been processed.
type QuadPoint struct {
	Center   Point
	Radius   float64 // Half the side length of the cell
	Level    int     // The root is level 1
	Weight   float64 // Field value between the anchor and Center
	Children []*QuadPoint
}

// Leaf reports whether the cell was never subdivided.
func (q *QuadPoint) Leaf() bool { return len(q.Children) == 0 }

// Variance is the population variance of the children's weights, 0 for a leaf.
func (q *QuadPoint) Variance() float64 {
	if q.Leaf() {
		return 0
	}
	ws := make([]float64, len(q.Children))
	for i, c := range q.Children {
		ws[i] = c.Weight
	}
	return hyperneat.Variance(ws)
}

// Walk calls fn for q and every descendant, parents before children.
func (q *QuadPoint) Walk(fn func(*QuadPoint)) {
	fn(q)
	for _, c := range q.Children {
		c.Walk(fn)
	}
}

// Check verifies that every subdivided cell has exactly 2^dim children.
func (q *QuadPoint) Check(dim int) error {
	want := 1 << dim
	var err error
	q.Walk(func(c *QuadPoint) {
		if err == nil && !c.Leaf() && len(c.Children) != want {
			err = fmt.Errorf("%w: cell %v at level %d has %d children, want %d",
				hyperneat.ErrInvariantViolation, c.Center, c.Level, len(c.Children), want)
		}
	})
	return err
}

// Connection is an extracted substrate connection, not yet attached to a network.
type Connection struct {
	From   Point
	To     Point
	Weight float64
}

func (c Connection) String() string {
	return fmt.Sprintf("%v -> %v (%.4f)", c.From, c.To, c.Weight)
}

// Sampler samples the weight field around anchor points and extracts connections.
type Sampler struct {
	config hyperneat.QuadTreeConfig
	dim    int
	field  Field
}

// NewSampler creates a Sampler for the substrate described by config.
func NewSampler(config *hyperneat.Config, field Field) *Sampler {
	return &Sampler{config: config.QuadTree, dim: config.Substrate.Dimension, field: field}
}

// weight evaluates the field between anchor and p. When outgoing is true the
// anchor is the source of the connection, otherwise its destination.
func (s *Sampler) weight(anchor, p Point, outgoing bool) float64 {
	if outgoing {
		return s.field.Weight(anchor, p)
	}
	return s.field.Weight(p, anchor)
}

func (s *Sampler) expressed(anchor, p Point, outgoing bool) bool {
	if outgoing {
		return s.field.Expressed(anchor, p)
	}
	return s.field.Expressed(p, anchor)
}

// Divide builds the sampling tree for anchor breadth-first. Every processed
// cell receives 2^dim children. A cell's children are processed in turn while
// its level is below initial_depth, or below max_depth when their weights vary
// by more than division_threshold.
func (s *Sampler) Divide(anchor Point, outgoing bool) *QuadPoint {
	root := &QuadPoint{Center: Origin(s.dim), Radius: 1, Level: 1}
	queue := []*QuadPoint{root}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		s.split(q, anchor, outgoing)
		if q.Level < s.config.InitialDepth ||
			(q.Level < s.config.MaxDepth && q.Variance() > s.config.DivisionThreshold) {
			queue = append(queue, q.Children...)
		}
	}
	return root
}

// split attaches the 2^dim sub-cells of q and samples their weights.
func (s *Sampler) split(q *QuadPoint, anchor Point, outgoing bool) {
	half := q.Radius / 2
	center := q.Center.Coords()
	n := 1 << s.dim
	q.Children = make([]*QuadPoint, n)
	for k := 0; k < n; k++ {
		coords := make([]float64, s.dim)
		for axis := 0; axis < s.dim; axis++ {
			if k&(1<<axis) == 0 {
				coords[axis] = center[axis] - half
			} else {
				coords[axis] = center[axis] + half
			}
		}
		c := &QuadPoint{Center: NewPoint(coords...), Radius: half, Level: q.Level + 1}
		c.Weight = s.weight(anchor, c.Center, outgoing)
		q.Children[k] = c
	}
}

// Extract walks the tree built by Divide and emits a connection for every cell
// whose band value exceeds band_threshold and whose link is expressed. Cells
// whose children still vary by at least variance_threshold are refined instead.
func (s *Sampler) Extract(root *QuadPoint, anchor Point, outgoing bool) []Connection {
	var out []Connection
	s.extract(root, anchor, outgoing, &out)
	return out
}

func (s *Sampler) extract(q *QuadPoint, anchor Point, outgoing bool, out *[]Connection) {
	for _, c := range q.Children {
		if !c.Leaf() && c.Variance() >= s.config.VarianceThreshold {
			s.extract(c, anchor, outgoing, out)
			continue
		}
		if s.Band(c, anchor, outgoing) <= s.config.BandThreshold {
			continue
		}
		if !s.expressed(anchor, c.Center, outgoing) {
			continue
		}
		conn := Connection{From: anchor, To: c.Center, Weight: c.Weight}
		if !outgoing {
			conn.From, conn.To = c.Center, anchor
		}
		*out = append(*out, conn)
	}
}

// Band measures how sharply the field changes around cell c: for every axis
// it takes the smaller of the differences to the neighbours one radius away on
// either side, then the largest of those over all axes.
func (s *Sampler) Band(c *QuadPoint, anchor Point, outgoing bool) float64 {
	band := 0.0
	for axis := 0; axis < s.dim; axis++ {
		neg := math.Abs(c.Weight - s.weight(anchor, c.Center.Offset(axis, -c.Radius), outgoing))
		pos := math.Abs(c.Weight - s.weight(anchor, c.Center.Offset(axis, c.Radius), outgoing))
		band = math.Max(band, math.Min(neg, pos))
	}
	return band
}

// Sample runs Divide and Extract for one anchor point.
func (s *Sampler) Sample(anchor Point, outgoing bool) []Connection {
	return s.Extract(s.Divide(anchor, outgoing), anchor, outgoing)
}
