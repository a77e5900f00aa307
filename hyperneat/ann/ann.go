// Package ann materialises the substrate discovered by ES-HyperNEAT into a
// steppable network and evaluates it by relaxation.
package ann

import (
	"fmt"
	"slices"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/cppn"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/substrate"
)

// NeuronType is the role of a neuron in the network.
type NeuronType int

const (
	Input NeuronType = iota
	Output
	Hidden
	Bias
)

func (t NeuronType) String() string {
	switch t {
	case Input:
		return "input"
	case Output:
		return "output"
	case Hidden:
		return "hidden"
	case Bias:
		return "bias"
	}
	return fmt.Sprintf("NeuronType(%d)", int(t))
}

// Link is an incoming connection. Source indexes the owning ANN's neuron table.
type Link struct {
	Weight float64
	Source int
}

// Neuron is one unit of the network.
type Neuron struct {
	Position substrate.Point
	Type     NeuronType
	Bias     float64
	Value    float64
	Incoming []Link
}

// ANN is a substrate network. It owns every neuron; links refer to neurons by
// their index in the table, so they are only meaningful inside this ANN.
type ANN struct {
	neurons    []Neuron
	index      map[substrate.Point]int
	inputs     []int // Declared input order
	outputs    []int // Declared output order
	activation hyperneat.Function
	scratch    []float64
}

// FromGenome compiles g into a CPPN and builds the network it encodes.
func FromGenome(config *hyperneat.Config, g *hyperneat.Genome, bias *substrate.Point, inputs, outputs []substrate.Point, logger hyperneat.Logger) (*ANN, error) {
	net, err := cppn.FromGenome(g, config, logger)
	if err != nil {
		return nil, err
	}
	return Build(config, bias, inputs, outputs, net, logger)
}

// Build discovers the substrate encoded by net and builds the network.
func Build(config *hyperneat.Config, bias *substrate.Point, inputs, outputs []substrate.Point, net *cppn.CPPN, logger hyperneat.Logger) (*ANN, error) {
	field, err := substrate.NewCPPNField(net, config)
	if err != nil {
		return nil, err
	}
	return BuildField(config, bias, inputs, outputs, field, logger)
}

// BuildField builds the network for an arbitrary weight field.
//
// When the substrate has a bias neuron and bias is nil, it is placed at the
// configured bias_position. The bias neuron comes first, then the inputs and
// the outputs in the given order, then the hidden neurons in Point order.
func BuildField(config *hyperneat.Config, bias *substrate.Point, inputs, outputs []substrate.Point, field substrate.Field, logger hyperneat.Logger) (*ANN, error) {
	logger = hyperneat.OrNop(logger)
	act, err := config.Functions.Lookup(config.Substrate.Activation)
	if err != nil {
		return nil, fmt.Errorf("%w: activation: %v", hyperneat.ErrConfiguration, err)
	}

	if config.Substrate.Bias && bias == nil {
		p := substrate.NewPoint(config.Substrate.BiasPosition...)
		bias = &p
	}
	if !config.Substrate.Bias && bias != nil {
		return nil, fmt.Errorf("%w: bias point given but the substrate has no bias", hyperneat.ErrConfiguration)
	}
	declared := slices.Concat(inputs, outputs)
	if bias != nil {
		declared = append(declared, *bias)
	}
	for _, p := range declared {
		if dim := config.Substrate.Dimension; p.Dim() != dim {
			return nil, fmt.Errorf("%w: point %v has %d coordinates, substrate dimension is %d",
				hyperneat.ErrConfiguration, p, p.Dim(), dim)
		}
	}

	a := &ANN{
		index:      make(map[substrate.Point]int),
		activation: act.Fn,
	}
	sources := slices.Clone(inputs)
	if bias != nil {
		if _, err := a.add(*bias, Bias, 0); err != nil {
			return nil, err
		}
		a.neurons[0].Value = 1
		sources = append(sources, *bias)
	}
	for _, p := range inputs {
		i, err := a.add(p, Input, 0)
		if err != nil {
			return nil, err
		}
		a.inputs = append(a.inputs, i)
	}
	for _, p := range outputs {
		i, err := a.add(p, Output, field.Bias(p))
		if err != nil {
			return nil, err
		}
		a.outputs = append(a.outputs, i)
	}

	res, err := substrate.NewConnector(config, field, logger).Connect(sources, outputs)
	if err != nil {
		return nil, err
	}
	for _, p := range res.Hidden {
		if _, err := a.add(p, Hidden, field.Bias(p)); err != nil {
			return nil, fmt.Errorf("%w: %v", hyperneat.ErrInvariantViolation, err)
		}
	}
	for _, c := range res.Connections {
		src, ok := a.index[c.From]
		if !ok {
			return nil, fmt.Errorf("%w: connection %v has no source neuron", hyperneat.ErrInvariantViolation, c)
		}
		dst, ok := a.index[c.To]
		if !ok {
			return nil, fmt.Errorf("%w: connection %v has no destination neuron", hyperneat.ErrInvariantViolation, c)
		}
		if t := a.neurons[dst].Type; t == Input || t == Bias {
			continue
		}
		a.neurons[dst].Incoming = append(a.neurons[dst].Incoming, Link{Weight: c.Weight, Source: src})
	}
	a.scratch = make([]float64, len(a.neurons))

	logger.Infof("ann: built %d neurons (%d hidden) with %d links", len(a.neurons), len(res.Hidden), a.LinkCount())
	return a, nil
}

func (a *ANN) add(p substrate.Point, t NeuronType, bias float64) (int, error) {
	if prev, ok := a.index[p]; ok {
		return 0, fmt.Errorf("%w: %s neuron at %v collides with %s neuron",
			hyperneat.ErrConfiguration, t, p, a.neurons[prev].Type)
	}
	i := len(a.neurons)
	a.neurons = append(a.neurons, Neuron{Position: p, Type: t, Bias: bias})
	a.index[p] = i
	return i, nil
}

// Evaluate writes in to the input neurons, relaxes the network for substeps
// rounds and copies the output neurons into out. Every round recomputes each
// hidden and output neuron from the values of the previous round, so a signal
// advances one link per round.
func (a *ANN) Evaluate(in, out []float64, substeps int) error {
	if len(in) != len(a.inputs) {
		return fmt.Errorf("mismatch between input count (%d) and network input neurons (%d)", len(in), len(a.inputs))
	}
	if len(out) != len(a.outputs) {
		return fmt.Errorf("mismatch between output count (%d) and network output neurons (%d)", len(out), len(a.outputs))
	}
	for i, idx := range a.inputs {
		a.neurons[idx].Value = in[i]
	}

	for step := 0; step < substeps; step++ {
		for i := range a.neurons {
			n := &a.neurons[i]
			if n.Type == Input || n.Type == Bias {
				a.scratch[i] = n.Value
				continue
			}
			sum := n.Bias
			for _, l := range n.Incoming {
				sum += l.Weight * a.neurons[l.Source].Value
			}
			a.scratch[i] = a.activation(sum)
		}
		for i := range a.neurons {
			a.neurons[i].Value = a.scratch[i]
		}
	}

	for i, idx := range a.outputs {
		out[i] = a.neurons[idx].Value
	}
	return nil
}

// Reset zeroes every neuron value except the bias neuron's.
func (a *ANN) Reset() {
	for i := range a.neurons {
		if a.neurons[i].Type != Bias {
			a.neurons[i].Value = 0
		}
	}
}

// Len returns the number of neurons.
func (a *ANN) Len() int { return len(a.neurons) }

// LinkCount returns the number of links.
func (a *ANN) LinkCount() int {
	n := 0
	for i := range a.neurons {
		n += len(a.neurons[i].Incoming)
	}
	return n
}

// Neurons returns a copy of every neuron in Point order.
func (a *ANN) Neurons() []Neuron {
	out := make([]Neuron, len(a.neurons))
	for i, n := range a.neurons {
		n.Incoming = slices.Clone(n.Incoming)
		out[i] = n
	}
	slices.SortFunc(out, func(x, y Neuron) int { return x.Position.Compare(y.Position) })
	return out
}

// Neuron returns the neuron at p.
func (a *ANN) Neuron(p substrate.Point) (Neuron, bool) {
	i, ok := a.index[p]
	if !ok {
		return Neuron{}, false
	}
	n := a.neurons[i]
	n.Incoming = slices.Clone(n.Incoming)
	return n, true
}

// Inputs returns the input positions in declared order.
func (a *ANN) Inputs() []substrate.Point { return a.positions(a.inputs) }

// Outputs returns the output positions in declared order.
func (a *ANN) Outputs() []substrate.Point { return a.positions(a.outputs) }

// Hidden returns the hidden positions in Point order.
func (a *ANN) Hidden() []substrate.Point {
	var out []substrate.Point
	for _, n := range a.neurons {
		if n.Type == Hidden {
			out = append(out, n.Position)
		}
	}
	return out
}

func (a *ANN) positions(idx []int) []substrate.Point {
	out := make([]substrate.Point, len(idx))
	for i, j := range idx {
		out[i] = a.neurons[j].Position
	}
	return out
}
