package substrate

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// pointKind types the nodes of the filter graph. Points that are not declared
// inputs or outputs are hidden.
type pointKind int

const (
	hiddenPoint pointKind = iota
	inputPoint
	outputPoint
)

// pointGraph indexes every point referenced by the filter with a gonum node id.
type pointGraph struct {
	ids    map[Point]int64
	points []Point
	kind   []pointKind
}

func (pg *pointGraph) add(p Point, k pointKind) int64 {
	if id, ok := pg.ids[p]; ok {
		return id
	}
	id := int64(len(pg.points))
	pg.ids[p] = id
	pg.points = append(pg.points, p)
	pg.kind = append(pg.kind, k)
	return id
}

// Filter keeps the hidden points that are reachable from some input and that
// reach some output, and rebuilds the connection list around them.
//
// The rebuilt list holds every incoming connection of a kept hidden point whose
// source survives, every outgoing connection of a kept hidden point into an
// output, and every direct connection from a declared point into an output.
// Repeated (from, to) pairs keep their first weight. Connections are ordered
// by destination, then source; hidden points are returned in Point order.
func Filter(inputs, outputs []Point, conns []Connection) ([]Point, []Connection) {
	pg := &pointGraph{ids: make(map[Point]int64)}
	for _, p := range inputs {
		pg.add(p, inputPoint)
	}
	for _, p := range outputs {
		pg.add(p, outputPoint)
	}
	for _, c := range conns {
		pg.add(c.From, hiddenPoint)
		pg.add(c.To, hiddenPoint)
	}

	forward := simple.NewDirectedGraph()
	backward := simple.NewDirectedGraph()
	for id := range pg.points {
		forward.AddNode(simple.Node(id))
		backward.AddNode(simple.Node(id))
	}
	for _, c := range conns {
		from, to := pg.ids[c.From], pg.ids[c.To]
		if from == to {
			continue
		}
		forward.SetEdge(forward.NewEdge(simple.Node(from), simple.Node(to)))
		backward.SetEdge(backward.NewEdge(simple.Node(to), simple.Node(from)))
	}

	iSeen := pg.reach(forward, inputs)
	oSeen := pg.reach(backward, outputs)

	kept := make(PointSet)
	for id, p := range pg.points {
		if pg.kind[id] == hiddenPoint && iSeen[int64(id)] && oSeen[int64(id)] {
			kept.Add(p)
		}
	}

	survives := func(p Point) bool {
		return pg.kind[pg.ids[p]] != hiddenPoint || kept.Has(p)
	}
	isOutput := func(p Point) bool { return pg.kind[pg.ids[p]] == outputPoint }

	var out []Connection
	emitted := make(map[[2]Point]bool)
	for _, c := range conns {
		keep := (kept.Has(c.To) && survives(c.From)) ||
			(kept.Has(c.From) && isOutput(c.To)) ||
			(pg.kind[pg.ids[c.From]] != hiddenPoint && isOutput(c.To))
		key := [2]Point{c.From, c.To}
		if !keep || emitted[key] {
			continue
		}
		emitted[key] = true
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b Connection) int {
		return cmp.Or(a.To.Compare(b.To), a.From.Compare(b.From))
	})
	return kept.Sorted(), out
}

// reach runs one breadth-first search seeded from every point in from and
// returns the ids of all visited nodes.
func (pg *pointGraph) reach(g *simple.DirectedGraph, from []Point) map[int64]bool {
	seen := make(map[int64]bool)
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { seen[n.ID()] = true },
	}
	for _, p := range from {
		bf.Walk(g, simple.Node(pg.ids[p]), nil)
	}
	return seen
}
