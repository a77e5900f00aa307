package cppn

import (
	"math"
	"testing"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	identityFn = 0
	gaussianFn = 1
	tanhFn     = 6
)

func config(t *testing.T, bias, leo, biasOutput bool) *hyperneat.Config {
	t.Helper()
	cfg := hyperneat.DefaultConfig()
	cfg.Substrate.Bias = bias
	cfg.Substrate.LEO = leo
	cfg.Substrate.BiasOutput = biasOutput
	require.NoError(t, cfg.Validate())
	return cfg
}

func genome(t *testing.T, inputs, outputs int, functions []int, links []hyperneat.LinkRecord) *hyperneat.Genome {
	t.Helper()
	r := hyperneat.Record{InputCount: inputs, OutputCount: outputs, NextNodeID: len(functions)}
	for id, fn := range functions {
		r.Nodes = append(r.Nodes, hyperneat.NodeRecord{ID: id, Function: fn})
	}
	for _, l := range links {
		r.Links = append(r.Links, l)
		if l.ID >= r.NextLinkID {
			r.NextLinkID = l.ID + 1
		}
	}
	g, err := hyperneat.FromRecord(r)
	require.NoError(t, err)
	return g
}

func TestActivateFollowsTopologicalOrder(t *testing.T) {
	cfg := config(t, false, false, false)
	// Inputs 0-3, output 4 (tanh), hidden 5 (identity) and 6 (gaussian).
	g := genome(t, 4, 1,
		[]int{identityFn, identityFn, identityFn, identityFn, tanhFn, identityFn, gaussianFn},
		[]hyperneat.LinkRecord{
			{ID: 0, Src: 6, Dst: 4, Weight: 1},
			{ID: 1, Src: 5, Dst: 6, Weight: 1},
			{ID: 2, Src: 0, Dst: 5, Weight: 2},
			{ID: 3, Src: 1, Dst: 5, Weight: -1},
			{ID: 4, Src: 2, Dst: 4, Weight: 0.5},
		})

	net, err := FromGenome(g, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, net.InputCount())
	assert.Equal(t, 1, net.OutputCount())
	assert.Empty(t, net.IgnoredLinks())

	out, err := net.Activate([]float64{1, 0.5, 2, 0})
	require.NoError(t, err)
	h5 := 2*1.0 - 0.5
	h6 := math.Exp(-h5 * h5 / 2)
	assert.InDelta(t, math.Tanh(h6+0.5*2), out[0], 1e-12)

	_, err = net.Activate([]float64{1, 2})
	assert.Error(t, err)
}

func TestFromGenomeIgnoresCycleLinks(t *testing.T) {
	cfg := config(t, false, false, false)
	g := genome(t, 4, 1,
		[]int{identityFn, identityFn, identityFn, identityFn, identityFn, identityFn, identityFn},
		[]hyperneat.LinkRecord{
			{ID: 0, Src: 0, Dst: 5, Weight: 1},
			{ID: 1, Src: 5, Dst: 6, Weight: 1},
			{ID: 2, Src: 6, Dst: 4, Weight: 1},
			{ID: 3, Src: 6, Dst: 5, Weight: 1}, // closes 5 -> 6 -> 5
			{ID: 4, Src: 4, Dst: 4, Weight: 1}, // self-loop
			{ID: 5, Src: 4, Dst: 1, Weight: 1}, // into an input
		})

	net, err := FromGenome(g, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, net.IgnoredLinks())

	out, err := net.Activate([]float64{3, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out[0], 1e-12)
}

func TestFromGenomeChecksInterface(t *testing.T) {
	cfg := config(t, true, false, false) // 5 inputs
	g := genome(t, 4, 1, []int{0, 0, 0, 0, 0}, nil)
	_, err := FromGenome(g, cfg, nil)
	require.ErrorIs(t, err, hyperneat.ErrConfiguration)
}

func TestFromGenomeUnknownFunction(t *testing.T) {
	cfg := config(t, false, false, false)
	g := genome(t, 4, 1, []int{0, 0, 0, 0, 99}, nil)
	_, err := FromGenome(g, cfg, nil)
	require.Error(t, err)
}

func TestQuery(t *testing.T) {
	cfg := config(t, true, true, true)
	// Inputs x1 y1 x2 y2 bias (0-4); outputs weight 5, leo 6, bias 7.
	g := genome(t, 5, 3,
		[]int{identityFn, identityFn, identityFn, identityFn, identityFn, identityFn, identityFn, identityFn},
		[]hyperneat.LinkRecord{
			{ID: 0, Src: 0, Dst: 5, Weight: 1},    // weight = x1
			{ID: 1, Src: 3, Dst: 6, Weight: 1},    // leo = y2
			{ID: 2, Src: 4, Dst: 7, Weight: 0.25}, // bias output = 0.25 * bias input
		})

	net, err := FromGenome(g, cfg, nil)
	require.NoError(t, err)

	out, err := net.Query([]float64{0.5, 0}, []float64{0, -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Weight, 1e-12)
	assert.InDelta(t, -1.0, out.Expression, 1e-12)
	assert.InDelta(t, 0.25, out.Bias, 1e-12)
	assert.False(t, out.Expressed())

	out, err = net.Query([]float64{0, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.True(t, out.Expressed())

	_, err = net.Query([]float64{0, 0, 0}, []float64{0, 0, 0})
	assert.Error(t, err)
}

func TestQueryWithoutLEO(t *testing.T) {
	cfg := config(t, false, false, false)
	g := genome(t, 4, 1, []int{0, 0, 0, 0, gaussianFn}, nil)

	net, err := FromGenome(g, cfg, nil)
	require.NoError(t, err)
	out, err := net.Query([]float64{0.3, 0.1}, []float64{-0.2, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out.Weight, 1e-12, "an unconnected gaussian output is constant 1")
	assert.Equal(t, 1.0, out.Expression)
	assert.Equal(t, 0.0, out.Bias)
}
