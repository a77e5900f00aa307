package hyperneat

import (
	"fmt"
	"sort"
	"strings"
)

// Genome is the evolvable CPPN description: a small directed graph of function
// nodes and weighted links.
//
// Node ids 0..InputCount-1 are the CPPN inputs, the next OutputCount ids are the
// outputs. Reserved nodes are never deleted. NextNodeID and NextLinkID always
// exceed every id in use.
type Genome struct {
	InputCount  int
	OutputCount int
	NextNodeID  int
	NextLinkID  int
	Nodes       map[int]*NodeGene // Map node ID -> NodeGene
	Links       map[int]*LinkGene // Map link ID -> LinkGene
}

// NewGenome creates an empty Genome with the given interface sizes. No nodes
// exist yet; callers add the reserved ones.
func NewGenome(inputCount, outputCount int) *Genome {
	return &Genome{
		InputCount:  inputCount,
		OutputCount: outputCount,
		Nodes:       make(map[int]*NodeGene),
		Links:       make(map[int]*LinkGene),
	}
}

// RandomGenome builds the fully connected bipartite seed genome: one node per
// CPPN input and output and one link per (input, output) pair.
func RandomGenome(config *Config, dice Dice) *Genome {
	g := NewGenome(config.InputCount(), config.OutputCount())
	identity, err := config.Functions.Lookup("identity")
	if err != nil {
		panic(fmt.Sprintf("function registry is missing identity: %v", err))
	}
	choices := config.Functions.Choices()

	for i := 0; i < g.InputCount; i++ {
		g.addNode(identity.ID)
	}
	for i := 0; i < g.OutputCount; i++ {
		g.addNode(PickOne(dice, choices))
	}
	for _, in := range g.InputIDs() {
		for _, out := range g.OutputIDs() {
			g.addLink(in, out, initWeight(&config.Genome, dice))
		}
	}
	return g
}

// addNode appends a node with the next free id.
func (g *Genome) addNode(function int) *NodeGene {
	n := NewNodeGene(g.NextNodeID, function)
	g.NextNodeID++
	g.Nodes[n.ID] = n
	return n
}

// addLink appends a link with the next free id.
func (g *Genome) addLink(src, dst int, weight float64) *LinkGene {
	l := NewLinkGene(g.NextLinkID, src, dst, weight)
	g.NextLinkID++
	g.Links[l.ID] = l
	return l
}

// InputIDs returns the reserved input node ids in order.
func (g *Genome) InputIDs() []int {
	ids := make([]int, g.InputCount)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// OutputIDs returns the reserved output node ids in declared order.
func (g *Genome) OutputIDs() []int {
	ids := make([]int, g.OutputCount)
	for i := range ids {
		ids[i] = g.InputCount + i
	}
	return ids
}

// IsInput reports whether id is a reserved input node.
func (g *Genome) IsInput(id int) bool { return id >= 0 && id < g.InputCount }

// IsReserved reports whether id is a reserved input or output node.
func (g *Genome) IsReserved(id int) bool {
	return id >= 0 && id < g.InputCount+g.OutputCount
}

// NodeIDs returns all node ids, ascending.
func (g *Genome) NodeIDs() []int {
	ids := make([]int, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LinkIDs returns all link ids, ascending.
func (g *Genome) LinkIDs() []int {
	ids := make([]int, 0, len(g.Links))
	for id := range g.Links {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedLinks returns the links ordered by id.
func (g *Genome) SortedLinks() []*LinkGene {
	out := make([]*LinkGene, 0, len(g.Links))
	for _, id := range g.LinkIDs() {
		out = append(out, g.Links[id])
	}
	return out
}

// HasLink reports whether a link src->dst exists.
func (g *Genome) HasLink(src, dst int) bool {
	for _, l := range g.Links {
		if l.Src == src && l.Dst == dst {
			return true
		}
	}
	return false
}

// Degrees returns the in- and out-degree of every node.
func (g *Genome) Degrees() (in, out map[int]int) {
	in = make(map[int]int, len(g.Nodes))
	out = make(map[int]int, len(g.Nodes))
	for _, l := range g.Links {
		out[l.Src]++
		in[l.Dst]++
	}
	return in, out
}

// Copy creates a deep copy of the genome.
func (g *Genome) Copy() *Genome {
	c := NewGenome(g.InputCount, g.OutputCount)
	c.NextNodeID = g.NextNodeID
	c.NextLinkID = g.NextLinkID
	for id, n := range g.Nodes {
		c.Nodes[id] = n.Copy()
	}
	for id, l := range g.Links {
		c.Links[id] = l.Copy()
	}
	return c
}

// Equal reports structural equality: same counters and the same nodes and
// links by id.
func (g *Genome) Equal(o *Genome) bool {
	if g.InputCount != o.InputCount || g.OutputCount != o.OutputCount ||
		g.NextNodeID != o.NextNodeID || g.NextLinkID != o.NextLinkID ||
		len(g.Nodes) != len(o.Nodes) || len(g.Links) != len(o.Links) {
		return false
	}
	for id, n := range g.Nodes {
		on, ok := o.Nodes[id]
		if !ok || *on != *n {
			return false
		}
	}
	for id, l := range g.Links {
		ol, ok := o.Links[id]
		if !ok || *ol != *l {
			return false
		}
	}
	return true
}

// Validate checks every structural invariant. Failures wrap ErrInvariantViolation.
func (g *Genome) Validate() error {
	if g.InputCount < 0 || g.OutputCount < 1 {
		return fmt.Errorf("%w: bad interface sizes (inputs %d, outputs %d)", ErrInvariantViolation, g.InputCount, g.OutputCount)
	}
	for id := 0; id < g.InputCount+g.OutputCount; id++ {
		if _, ok := g.Nodes[id]; !ok {
			return fmt.Errorf("%w: reserved node %d is missing", ErrInvariantViolation, id)
		}
	}
	for id, n := range g.Nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node keyed %d carries id %d", ErrInvariantViolation, id, n.ID)
		}
		if id < 0 || id >= g.NextNodeID {
			return fmt.Errorf("%w: node id %d outside [0, %d)", ErrInvariantViolation, id, g.NextNodeID)
		}
	}
	for id, l := range g.Links {
		if l.ID != id {
			return fmt.Errorf("%w: link keyed %d carries id %d", ErrInvariantViolation, id, l.ID)
		}
		if id < 0 || id >= g.NextLinkID {
			return fmt.Errorf("%w: link id %d outside [0, %d)", ErrInvariantViolation, id, g.NextLinkID)
		}
		if _, ok := g.Nodes[l.Src]; !ok {
			return fmt.Errorf("%w: link %d has dangling source %d", ErrInvariantViolation, id, l.Src)
		}
		if _, ok := g.Nodes[l.Dst]; !ok {
			return fmt.Errorf("%w: link %d has dangling destination %d", ErrInvariantViolation, id, l.Dst)
		}
	}
	return nil
}

// String returns a multi-line representation, nodes and links in id order.
func (g *Genome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Genome(inputs: %d, outputs: %d, next node: %d, next link: %d)\n",
		g.InputCount, g.OutputCount, g.NextNodeID, g.NextLinkID)
	for _, id := range g.NodeIDs() {
		fmt.Fprintf(&b, "  %s\n", g.Nodes[id])
	}
	for _, l := range g.SortedLinks() {
		fmt.Fprintf(&b, "  %s\n", l)
	}
	return b.String()
}
