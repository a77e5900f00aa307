package substrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointQuantisation(t *testing.T) {
	assert.Equal(t, NewPoint(0.3, 0), NewPoint(0.1+0.2, 0))
	assert.Equal(t, NewPoint(0.5, -0.25), NewPoint(0.5000000004, -0.2499999996))
	assert.NotEqual(t, NewPoint(0.5, 0), NewPoint(0.500001, 0))
	assert.NotEqual(t, NewPoint(0, 0), NewPoint(0, 0, 0))
}

func TestPointAccessors(t *testing.T) {
	p := NewPoint(0.25, -0.75, 1)
	assert.Equal(t, 3, p.Dim())
	assert.Equal(t, 0.25, p.X())
	assert.Equal(t, -0.75, p.Y())
	assert.Equal(t, []float64{0.25, -0.75, 1}, p.Coords())
	assert.Equal(t, "(0.25, -0.75, 1)", p.String())
	assert.Equal(t, NewPoint(0.25, -0.25, 1), p.Offset(1, 0.5))
	assert.Equal(t, NewPoint(0, 0), Origin(2))
}

func TestPointCompare(t *testing.T) {
	a, b, c := NewPoint(-1, 1), NewPoint(0, -1), NewPoint(0, 0.5)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
	assert.Equal(t, 0, c.Compare(NewPoint(0, 0.5)))

	ps := []Point{c, a, b}
	SortPoints(ps)
	assert.Equal(t, []Point{a, b, c}, ps)
}

func TestPointSet(t *testing.T) {
	s := make(PointSet)
	assert.True(t, s.Add(NewPoint(1, 0)))
	assert.True(t, s.Add(NewPoint(-1, 0)))
	assert.False(t, s.Add(NewPoint(1, 0)))
	assert.True(t, s.Has(NewPoint(-1, 0)))
	assert.False(t, s.Has(NewPoint(0, 0)))
	assert.Equal(t, []Point{NewPoint(-1, 0), NewPoint(1, 0)}, s.Sorted())
}

func TestNewPointPanicsOnBadDimension(t *testing.T) {
	assert.Panics(t, func() { NewPoint(1) })
	assert.Panics(t, func() { NewPoint(1, 2, 3, 4) })
}
