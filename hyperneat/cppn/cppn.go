// Package cppn compiles a CPPN genome into an immutable evaluator mapping a
// pair of substrate coordinates to the CPPN outputs.
package cppn

import (
	"fmt"
	"sort"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
)

// incoming is one accepted link as seen from its destination node.
type incoming struct {
	src    int // Slot of the source node
	weight float64
}

// evalNode is a non-input node prepared for evaluation.
type evalNode struct {
	id   int
	slot int
	fn   hyperneat.Function
	in   []incoming
}

// CPPN is a compiled genome snapshot. It never changes after FromGenome returns
// and does not reference the genome it was built from.
type CPPN struct {
	inputCount  int
	slots       int
	order       []evalNode // Non-input nodes in topological order
	outputSlots []int      // Declared output order
	ignored     []int      // Ids of links dropped because they closed a cycle
	leo         bool
	biasOutput  bool
}

// Outputs is the decoded CPPN output vector for one coordinate pair.
type Outputs struct {
	Weight     float64
	Expression float64 // LEO output; 1 when the genome has none
	Bias       float64 // Bias output; 0 when the genome has none
}

// Expressed reports whether the link expression gate is open.
func (o Outputs) Expressed() bool { return o.Expression > 0 }

// FromGenome compiles g. The genome's interface sizes must match config.
//
// The CPPN is evaluated in a topological order fixed here. Links are accepted
// in id order and a link that would close a cycle is ignored, as is any link
// ending in an input node.
func FromGenome(g *hyperneat.Genome, config *hyperneat.Config, logger hyperneat.Logger) (*CPPN, error) {
	logger = hyperneat.OrNop(logger)
	if g.InputCount != config.InputCount() || g.OutputCount != config.OutputCount() {
		return nil, fmt.Errorf("%w: genome has %d inputs/%d outputs, substrate needs %d/%d",
			hyperneat.ErrConfiguration, g.InputCount, g.OutputCount, config.InputCount(), config.OutputCount())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	// Assign a dense slot to every node, ascending by id so inputs keep 0..n-1.
	ids := g.NodeIDs()
	slot := make(map[int]int, len(ids))
	for i, id := range ids {
		slot[id] = i
	}

	// Accept links in id order unless they would close a cycle.
	accepted := make(map[int][]*hyperneat.LinkGene) // dst id -> accepted incoming links
	forward := make(map[int][]int)                  // src id -> dst ids
	var ignored []int
	for _, l := range g.SortedLinks() {
		if g.IsInput(l.Dst) {
			continue
		}
		if l.Src == l.Dst || reaches(forward, l.Dst, l.Src) {
			ignored = append(ignored, l.ID)
			continue
		}
		accepted[l.Dst] = append(accepted[l.Dst], l)
		forward[l.Src] = append(forward[l.Src], l.Dst)
	}
	if len(ignored) > 0 {
		logger.Warnf("cppn: ignoring %d cycle-forming links %v", len(ignored), ignored)
	}

	// Topological sort of nodes (Kahn's algorithm)
	inDegree := make(map[int]int, len(ids))
	for dst, links := range accepted {
		inDegree[dst] = len(links)
	}
	queue := []int{}
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	net := &CPPN{
		inputCount: g.InputCount,
		slots:      len(ids),
		ignored:    ignored,
		leo:        config.Substrate.LEO,
		biasOutput: config.Substrate.BiasOutput,
	}
	visited := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		visited++

		if !g.IsInput(u) {
			def, err := config.Functions.Get(g.Nodes[u].Function)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", u, err)
			}
			n := evalNode{id: u, slot: slot[u], fn: def.Fn}
			for _, l := range accepted[u] {
				n.in = append(n.in, incoming{src: slot[l.Src], weight: l.Weight})
			}
			net.order = append(net.order, n)
		}

		next := forward[u]
		sort.Ints(next)
		for _, v := range next {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
		sort.Ints(queue) // Keep queue sorted for determinism
	}
	if visited != len(ids) {
		return nil, fmt.Errorf("%w: topological sort visited %d of %d nodes", hyperneat.ErrInvariantViolation, visited, len(ids))
	}

	for _, id := range g.OutputIDs() {
		net.outputSlots = append(net.outputSlots, slot[id])
	}
	return net, nil
}

// reaches reports whether to is reachable from from along forward edges.
func reaches(forward map[int][]int, from, to int) bool {
	seen := map[int]bool{from: true}
	stack := []int{from}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if u == to {
			return true
		}
		for _, v := range forward[u] {
			if !seen[v] {
				seen[v] = true
				stack = append(stack, v)
			}
		}
	}
	return false
}

// InputCount is the length of the vector Activate expects.
func (c *CPPN) InputCount() int { return c.inputCount }

// OutputCount is the length of the vector Activate returns.
func (c *CPPN) OutputCount() int { return len(c.outputSlots) }

// IgnoredLinks returns the ids of links dropped to keep the graph acyclic.
func (c *CPPN) IgnoredLinks() []int {
	out := make([]int, len(c.ignored))
	copy(out, c.ignored)
	return out
}

// Activate evaluates the CPPN for one input vector and returns the outputs in
// declared order.
func (c *CPPN) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != c.inputCount {
		return nil, fmt.Errorf("mismatch between input count (%d) and cppn input nodes (%d)", len(inputs), c.inputCount)
	}
	values := make([]float64, c.slots)
	copy(values, inputs)

	for _, n := range c.order {
		sum := 0.0
		for _, in := range n.in {
			sum += in.weight * values[in.src]
		}
		values[n.slot] = n.fn(sum)
	}

	outputs := make([]float64, len(c.outputSlots))
	for i, s := range c.outputSlots {
		outputs[i] = values[s]
	}
	return outputs, nil
}

// Query evaluates the CPPN between a source and a destination coordinate. The
// input vector is src, then dst, then the constant 1 when the CPPN has a bias
// input.
func (c *CPPN) Query(src, dst []float64) (Outputs, error) {
	in := make([]float64, 0, c.inputCount)
	in = append(in, src...)
	in = append(in, dst...)
	switch c.inputCount - len(in) {
	case 0:
	case 1:
		in = append(in, 1.0)
	default:
		return Outputs{}, fmt.Errorf("cppn expects %d inputs, got %d coordinates", c.inputCount, len(in))
	}

	raw, err := c.Activate(in)
	if err != nil {
		return Outputs{}, err
	}
	out := Outputs{Weight: raw[0], Expression: 1}
	next := 1
	if c.leo {
		out.Expression = raw[next]
		next++
	}
	if c.biasOutput {
		out.Bias = raw[next]
	}
	return out, nil
}
