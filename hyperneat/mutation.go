package hyperneat

import (
	"fmt"
	"sort"
)

// MutationOp identifies one of the six mutation operators.
type MutationOp int

const (
	AddNode MutationOp = iota
	AddLink
	DeleteNode
	DeleteLink
	MutateWeight
	MutateFunction
	numMutationOps
)

var mutationOpNames = [...]string{"add_n", "add_l", "del_n", "del_l", "mut_w", "mut_f"}

func (op MutationOp) String() string {
	if op < 0 || op >= numMutationOps {
		return fmt.Sprintf("MutationOp(%d)", int(op))
	}
	return mutationOpNames[op]
}

// mutationCandidates holds the per-call candidate sets.
type mutationCandidates struct {
	missing   [][2]int // Ordered (src, dst) pairs with no link, src != dst
	deletable []int    // Non-reserved nodes with in-degree 1 and out-degree 1
}

// Mutate applies exactly one operator, chosen by a weighted pick among the
// operators that currently have a valid candidate. It returns the operator
// that fired. A failing operator leaves the genome unchanged.
func (g *Genome) Mutate(config *Config, dice Dice) (MutationOp, error) {
	c := g.candidates()
	lib := config.Functions
	m := config.Mutation

	rates := make([]float64, numMutationOps)
	rates[AddNode] = m.AddNodeRate
	if len(c.missing) > 0 {
		rates[AddLink] = m.AddLinkRate
	}
	if len(c.deletable) > 0 {
		rates[DeleteNode] = m.DeleteNodeRate
	}
	if len(g.Links) > 0 {
		rates[DeleteLink] = m.DeleteLinkRate
		rates[MutateWeight] = m.MutateWeightRate
	}
	if len(lib.Choices()) > 1 {
		rates[MutateFunction] = m.MutateFunctionRate
	}

	pick := dice.PickWeighted(rates)
	if pick < 0 {
		return 0, ErrNoMutation
	}
	op := MutationOp(pick)

	switch op {
	case AddNode:
		g.addNode(PickOne(dice, lib.Choices()))
	case AddLink:
		pair := PickOne(dice, c.missing)
		g.addLink(pair[0], pair[1], initWeight(&config.Genome, dice))
	case DeleteNode:
		if err := g.deleteNode(PickOne(dice, c.deletable)); err != nil {
			return op, err
		}
	case DeleteLink:
		delete(g.Links, PickOne(dice, g.LinkIDs()))
	case MutateWeight:
		l := g.Links[PickOne(dice, g.LinkIDs())]
		l.Weight = perturbWeight(l.Weight, &config.Genome, dice)
	case MutateFunction:
		n := g.Nodes[PickOne(dice, g.NodeIDs())]
		others := make([]int, 0, len(lib.Choices()))
		for _, id := range lib.Choices() {
			if id != n.Function {
				others = append(others, id)
			}
		}
		n.Function = PickOne(dice, others)
	}
	return op, nil
}

// candidates recomputes the add_l and del_n candidate sets.
func (g *Genome) candidates() mutationCandidates {
	var c mutationCandidates
	ids := g.NodeIDs()

	existing := make(map[[2]int]bool, len(g.Links))
	for _, l := range g.Links {
		existing[[2]int{l.Src, l.Dst}] = true
	}
	for _, src := range ids {
		for _, dst := range ids {
			if src == dst || existing[[2]int{src, dst}] {
				continue
			}
			c.missing = append(c.missing, [2]int{src, dst})
		}
	}

	in, out := g.Degrees()
	for _, id := range ids {
		if g.IsReserved(id) {
			continue
		}
		if in[id] == 1 && out[id] == 1 {
			c.deletable = append(c.deletable, id)
		}
	}
	return c
}

// deleteNode removes id together with its two incident links. Any other number
// of incident links is an invariant violation and nothing is removed.
func (g *Genome) deleteNode(id int) error {
	incident := make([]int, 0, 2)
	for lid, l := range g.Links {
		if l.Src == id || l.Dst == id {
			incident = append(incident, lid)
		}
	}
	if len(incident) != 2 {
		sort.Ints(incident)
		return fmt.Errorf("%w: del_n on node %d found %d incident links %v, want 2",
			ErrInvariantViolation, id, len(incident), incident)
	}
	for _, lid := range incident {
		delete(g.Links, lid)
	}
	delete(g.Nodes, id)
	return nil
}
