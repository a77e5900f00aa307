package substrate

import (
	"math"
	"testing"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, initialDepth, maxDepth int, band float64) *hyperneat.Config {
	t.Helper()
	cfg := hyperneat.DefaultConfig()
	cfg.Substrate.Bias = false
	cfg.QuadTree.InitialDepth = initialDepth
	cfg.QuadTree.MaxDepth = maxDepth
	cfg.QuadTree.BandThreshold = band
	require.NoError(t, cfg.Validate())
	return cfg
}

func constantField(w float64) FieldFunc {
	return func(src, dst Point) float64 { return w }
}

// wavyField varies quickly over the substrate and only depends on src + dst,
// so both directions see the same pattern.
var wavyField = FieldFunc(func(src, dst Point) float64 {
	return math.Sin(4*(dst.X()+src.X())) * math.Cos(5*(dst.Y()+src.Y()))
})

func leaves(root *QuadPoint) []*QuadPoint {
	var out []*QuadPoint
	root.Walk(func(q *QuadPoint) {
		if q.Leaf() {
			out = append(out, q)
		}
	})
	return out
}

func maxLevel(root *QuadPoint) int {
	level := 0
	root.Walk(func(q *QuadPoint) { level = max(level, q.Level) })
	return level
}

func TestDivideConstantFieldIsUniform(t *testing.T) {
	cfg := testConfig(t, 3, 5, 0.3)
	s := NewSampler(cfg, constantField(1))

	root := s.Divide(NewPoint(0, -1), true)
	require.NoError(t, root.Check(2))
	ls := leaves(root)
	assert.Len(t, ls, 64)
	for _, l := range ls {
		assert.Equal(t, 4, l.Level)
		assert.Equal(t, 0.125, l.Radius)
		assert.Equal(t, 1.0, l.Weight)
	}
	assert.Equal(t, 0.0, root.Variance())
}

func TestDivideTerminatesAtMaxDepth(t *testing.T) {
	cfg := testConfig(t, 2, 4, 0.1)
	s := NewSampler(cfg, wavyField)

	for _, outgoing := range []bool{true, false} {
		root := s.Divide(NewPoint(0, -1), outgoing)
		require.NoError(t, root.Check(2))
		assert.Equal(t, cfg.QuadTree.MaxDepth+1, maxLevel(root))
		root.Walk(func(q *QuadPoint) {
			if !q.Leaf() {
				assert.Len(t, q.Children, 4)
				assert.LessOrEqual(t, q.Level, cfg.QuadTree.MaxDepth)
			}
		})
	}
}

func TestDivideChildGeometry(t *testing.T) {
	cfg := testConfig(t, 1, 1, 0.3)
	root := NewSampler(cfg, constantField(0)).Divide(NewPoint(0, 0), true)

	require.Len(t, root.Children, 4)
	var centers []Point
	for _, c := range root.Children {
		assert.Equal(t, 2, c.Level)
		assert.Equal(t, 0.5, c.Radius)
		assert.True(t, c.Leaf())
		centers = append(centers, c.Center)
	}
	SortPoints(centers)
	assert.Equal(t, []Point{
		NewPoint(-0.5, -0.5), NewPoint(-0.5, 0.5), NewPoint(0.5, -0.5), NewPoint(0.5, 0.5),
	}, centers)
}

func TestDivideOctree(t *testing.T) {
	cfg := hyperneat.DefaultConfig()
	cfg.Substrate.Dimension = 3
	cfg.Substrate.BiasPosition = []float64{0, 0, 0}
	cfg.QuadTree.InitialDepth = 2
	cfg.QuadTree.MaxDepth = 3
	require.NoError(t, cfg.Validate())

	field := FieldFunc(func(src, dst Point) float64 { return dst.X() * dst.Coord(2) })
	root := NewSampler(cfg, field).Divide(NewPoint(0, 0, 0), true)
	require.NoError(t, root.Check(3))
	root.Walk(func(q *QuadPoint) {
		assert.Equal(t, 3, q.Center.Dim())
		if !q.Leaf() {
			assert.Len(t, q.Children, 8)
		}
	})
	assert.GreaterOrEqual(t, len(leaves(root)), 64)
}

func TestCheckRejectsBadChildCount(t *testing.T) {
	root := &QuadPoint{Center: Origin(2), Radius: 1, Level: 1}
	for i := 0; i < 3; i++ {
		root.Children = append(root.Children, &QuadPoint{Center: NewPoint(float64(i), 0), Level: 2})
	}
	require.ErrorIs(t, root.Check(2), hyperneat.ErrInvariantViolation)
}

func findCell(root *QuadPoint, p Point) *QuadPoint {
	var found *QuadPoint
	root.Walk(func(q *QuadPoint) {
		if found == nil && q != root && q.Center == p {
			found = q
		}
	})
	return found
}

func TestExtractEmitsOnlyAboveBandThreshold(t *testing.T) {
	cfg := testConfig(t, 2, 4, 0.1)
	s := NewSampler(cfg, wavyField)
	anchor := NewPoint(0, -1)

	for _, outgoing := range []bool{true, false} {
		root := s.Divide(anchor, outgoing)
		conns := s.Extract(root, anchor, outgoing)
		require.NotEmpty(t, conns)

		for _, c := range conns {
			target := c.To
			if outgoing {
				assert.Equal(t, anchor, c.From)
			} else {
				assert.Equal(t, anchor, c.To)
				target = c.From
			}
			cell := findCell(root, target)
			require.NotNil(t, cell, "no cell centred at %v", target)
			assert.Greater(t, s.Band(cell, anchor, outgoing), cfg.QuadTree.BandThreshold)
			assert.Equal(t, cell.Weight, c.Weight)
		}
	}
}

func TestExtractHighBandThresholdFindsNothing(t *testing.T) {
	cfg := testConfig(t, 2, 4, 5)
	s := NewSampler(cfg, wavyField)
	assert.Empty(t, s.Sample(NewPoint(0, -1), true))
}

// gatedField expresses links only towards the right half of the substrate.
type gatedField struct{ FieldFunc }

func (gatedField) Expressed(src, dst Point) bool { return dst.X() > 0 }

func TestExtractRespectsExpressionGate(t *testing.T) {
	cfg := testConfig(t, 2, 4, 0.1)
	s := NewSampler(cfg, gatedField{wavyField})

	conns := s.Sample(NewPoint(0, -1), true)
	require.NotEmpty(t, conns)
	for _, c := range conns {
		assert.Greater(t, c.To.X(), 0.0)
	}
}
