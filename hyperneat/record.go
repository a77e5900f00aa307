package hyperneat

import (
	"fmt"
	"sort"
)

// Record is the structural genome record exchanged with storage and other
// tools. Nodes and links are sorted by id.
type Record struct {
	InputCount  int          `json:"input_count"`
	OutputCount int          `json:"output_count"`
	NextNodeID  int          `json:"next_node_id"`
	NextLinkID  int          `json:"next_link_id"`
	Nodes       []NodeRecord `json:"nodes"`
	Links       []LinkRecord `json:"links"`
}

// NodeRecord is the record form of a NodeGene.
type NodeRecord struct {
	ID       int `json:"id"`
	Function int `json:"function"`
}

// LinkRecord is the record form of a LinkGene.
type LinkRecord struct {
	ID     int     `json:"id"`
	Src    int     `json:"src"`
	Dst    int     `json:"dst"`
	Weight float64 `json:"weight"`
}

// ToRecord snapshots g.
func (g *Genome) ToRecord() Record {
	r := Record{
		InputCount:  g.InputCount,
		OutputCount: g.OutputCount,
		NextNodeID:  g.NextNodeID,
		NextLinkID:  g.NextLinkID,
		Nodes:       make([]NodeRecord, 0, len(g.Nodes)),
		Links:       make([]LinkRecord, 0, len(g.Links)),
	}
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		r.Nodes = append(r.Nodes, NodeRecord{ID: n.ID, Function: n.Function})
	}
	for _, l := range g.SortedLinks() {
		r.Links = append(r.Links, LinkRecord{ID: l.ID, Src: l.Src, Dst: l.Dst, Weight: l.Weight})
	}
	return r
}

// FromRecord rebuilds a genome from r and validates it. Duplicate ids and
// broken invariants wrap ErrInvariantViolation.
func FromRecord(r Record) (*Genome, error) {
	g := NewGenome(r.InputCount, r.OutputCount)
	g.NextNodeID = r.NextNodeID
	g.NextLinkID = r.NextLinkID

	for _, n := range r.Nodes {
		if _, dup := g.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrInvariantViolation, n.ID)
		}
		g.Nodes[n.ID] = NewNodeGene(n.ID, n.Function)
	}
	for _, l := range r.Links {
		if _, dup := g.Links[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate link id %d", ErrInvariantViolation, l.ID)
		}
		g.Links[l.ID] = NewLinkGene(l.ID, l.Src, l.Dst, l.Weight)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genome record: %w", err)
	}
	return g, nil
}

// Sort orders nodes and links by id in place.
func (r *Record) Sort() {
	sort.Slice(r.Nodes, func(i, j int) bool { return r.Nodes[i].ID < r.Nodes[j].ID })
	sort.Slice(r.Links, func(i, j int) bool { return r.Links[i].ID < r.Links[j].ID })
}
