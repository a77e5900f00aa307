package substrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterKeepsNodesOnInputOutputPaths(t *testing.T) {
	in, out := NewPoint(-1, -1), NewPoint(0, 1)
	h1 := NewPoint(0, 0)      // on a path from the input to the output
	h2 := NewPoint(0.5, 0)    // reached from the input, dead end
	h3 := NewPoint(-0.5, 0)   // reaches the output, never reached from the input
	h4 := NewPoint(0.25, 0.5) // isolated pair
	h5 := NewPoint(0.75, 0.5)

	conns := []Connection{
		{From: in, To: h1, Weight: 1},
		{From: h1, To: out, Weight: 2},
		{From: in, To: h2, Weight: 3},
		{From: h3, To: out, Weight: 4},
		{From: h3, To: h1, Weight: 5},
		{From: in, To: out, Weight: 6},
		{From: h1, To: h1, Weight: 7},
		{From: in, To: h1, Weight: 9},
		{From: h4, To: h5, Weight: 10},
	}

	hidden, kept := Filter([]Point{in}, []Point{out}, conns)
	assert.Equal(t, []Point{h1}, hidden)
	assert.Equal(t, []Connection{
		{From: in, To: h1, Weight: 1},
		{From: h1, To: h1, Weight: 7},
		{From: in, To: out, Weight: 6},
		{From: h1, To: out, Weight: 2},
	}, kept)
}

func TestFilterEmpty(t *testing.T) {
	hidden, kept := Filter([]Point{NewPoint(-1, -1)}, []Point{NewPoint(1, 1)}, nil)
	assert.Empty(t, hidden)
	assert.Empty(t, kept)
}

// reachable returns every point reachable from from along conns.
func reachable(conns []Connection, from []Point) map[Point]bool {
	seen := make(map[Point]bool)
	queue := append([]Point{}, from...)
	for _, p := range from {
		seen[p] = true
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, c := range conns {
			if c.From == p && !seen[c.To] {
				seen[c.To] = true
				queue = append(queue, c.To)
			}
		}
	}
	return seen
}

func reverse(conns []Connection) []Connection {
	out := make([]Connection, len(conns))
	for i, c := range conns {
		out[i] = Connection{From: c.To, To: c.From, Weight: c.Weight}
	}
	return out
}

func TestFilterReachabilityProperty(t *testing.T) {
	cfg := testConfig(t, 2, 4, 0.1)
	cfg.Substrate.Iterations = 2
	inputs := []Point{NewPoint(-1, -1), NewPoint(1, -1)}
	outputs := []Point{NewPoint(0, 1)}
	s := NewSampler(cfg, wavyField)

	// Collect an unfiltered connection set the way the connector does.
	var conns []Connection
	frontier := make(PointSet)
	for _, in := range inputs {
		for _, c := range s.Sample(in, true) {
			conns = append(conns, c)
			frontier.Add(c.To)
		}
	}
	for _, p := range frontier.Sorted() {
		conns = append(conns, s.Sample(p, true)...)
	}
	for _, out := range outputs {
		conns = append(conns, s.Sample(out, false)...)
	}
	require.NotEmpty(t, conns)

	hidden, kept := Filter(inputs, outputs, conns)
	fromInputs := reachable(conns, inputs)
	toOutputs := reachable(reverse(conns), outputs)

	survivors := make(PointSet)
	for _, p := range inputs {
		survivors.Add(p)
	}
	for _, p := range outputs {
		survivors.Add(p)
	}
	for _, h := range hidden {
		assert.True(t, fromInputs[h], "%v is not reachable from an input", h)
		assert.True(t, toOutputs[h], "%v does not reach an output", h)
		survivors.Add(h)
	}
	for _, c := range kept {
		assert.True(t, survivors.Has(c.From), "%v references a removed point", c)
		assert.True(t, survivors.Has(c.To), "%v references a removed point", c)
	}
}
