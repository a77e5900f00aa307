package substrate

import (
	"fmt"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
)

// Result is the outcome of substrate discovery: the surviving hidden neuron
// positions and the connections between all neurons, both in Point order.
type Result struct {
	Hidden      []Point
	Connections []Connection
}

// Connector discovers hidden neurons and connections for a set of declared
// input and output points.
type Connector struct {
	config  *hyperneat.Config
	sampler *Sampler
	logger  hyperneat.Logger
}

// NewConnector creates a Connector sampling field with the given configuration.
func NewConnector(config *hyperneat.Config, field Field, logger hyperneat.Logger) *Connector {
	return &Connector{
		config:  config,
		sampler: NewSampler(config, field),
		logger:  hyperneat.OrNop(logger),
	}
}

// Connect runs the three discovery phases and the connectivity filter. inputs
// must already contain the bias point when the substrate has one.
//
// The input phase samples outward from every input and collects the reached
// points as hidden neurons. The hidden phase repeats that from every hidden
// point not yet explored, for a fixed number of rounds. The output phase
// samples inward to every output without collecting new points.
func (c *Connector) Connect(inputs, outputs []Point) (Result, error) {
	dim := c.config.Substrate.Dimension
	declared := make(PointSet, len(inputs)+len(outputs))
	for _, p := range append(append([]Point{}, inputs...), outputs...) {
		if p.Dim() != dim {
			return Result{}, fmt.Errorf("%w: point %v has %d coordinates, substrate dimension is %d",
				hyperneat.ErrConfiguration, p, p.Dim(), dim)
		}
		declared.Add(p)
	}

	var conns []Connection
	hidden := make(PointSet)
	harvest := func(found []Connection) int {
		added := 0
		for _, conn := range found {
			if declared.Has(conn.To) {
				continue
			}
			if hidden.Add(conn.To) {
				added++
			}
		}
		return added
	}

	// Input phase
	for _, in := range inputs {
		found := c.sampler.Sample(in, true)
		conns = append(conns, found...)
		harvest(found)
	}
	c.logger.Debugf("connector: input phase found %d connections and %d hidden points", len(conns), len(hidden))

	// Hidden phase
	explored := make(PointSet)
	unexplored := hidden.Sorted()
	for round := 0; round < c.config.Substrate.Iterations; round++ {
		before := len(conns)
		for _, p := range unexplored {
			found := c.sampler.Sample(p, true)
			conns = append(conns, found...)
			harvest(found)
			explored.Add(p)
		}
		unexplored = unexplored[:0]
		for _, p := range hidden.Sorted() {
			if !explored.Has(p) {
				unexplored = append(unexplored, p)
			}
		}
		c.logger.Debugf("connector: hidden round %d found %d connections, %d points left unexplored",
			round+1, len(conns)-before, len(unexplored))
		if len(unexplored) == 0 {
			break
		}
	}

	// Output phase
	before := len(conns)
	for _, out := range outputs {
		conns = append(conns, c.sampler.Sample(out, false)...)
	}
	c.logger.Debugf("connector: output phase found %d connections", len(conns)-before)

	kept, filtered := Filter(inputs, outputs, conns)
	c.logger.Debugf("connector: kept %d of %d hidden points and %d of %d connections",
		len(kept), len(hidden), len(filtered), len(conns))
	return Result{Hidden: kept, Connections: filtered}, nil
}
