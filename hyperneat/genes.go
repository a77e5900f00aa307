package hyperneat

import "fmt"

// --------------------------- NodeGene ---------------------------

// NodeGene represents a function node of the CPPN genome.
type NodeGene struct {
	ID       int // Dense, never reused. The first InputCount+OutputCount ids are reserved.
	Function int // Id in the FunctionLibrary
}

// NewNodeGene creates a new NodeGene.
func NewNodeGene(id, function int) *NodeGene {
	return &NodeGene{ID: id, Function: function}
}

// String returns a string representation of the NodeGene.
func (ng *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %d, Function: %d)", ng.ID, ng.Function)
}

// Copy creates a deep copy of the NodeGene.
func (ng *NodeGene) Copy() *NodeGene {
	return &NodeGene{ID: ng.ID, Function: ng.Function}
}

// --------------------------- LinkGene ---------------------------

// LinkGene represents a weighted link between two CPPN nodes.
type LinkGene struct {
	ID     int
	Src    int
	Dst    int
	Weight float64
}

// NewLinkGene creates a new LinkGene.
func NewLinkGene(id, src, dst int, weight float64) *LinkGene {
	return &LinkGene{ID: id, Src: src, Dst: dst, Weight: weight}
}

// String returns a string representation of the LinkGene.
func (lg *LinkGene) String() string {
	return fmt.Sprintf("LinkGene(ID: %d, %d->%d, Weight: %.3f)", lg.ID, lg.Src, lg.Dst, lg.Weight)
}

// Copy creates a deep copy of the LinkGene.
func (lg *LinkGene) Copy() *LinkGene {
	return &LinkGene{ID: lg.ID, Src: lg.Src, Dst: lg.Dst, Weight: lg.Weight}
}

// --------------------------- Attribute Helpers ---------------------------

// initWeight draws a weight for a newly created link.
func initWeight(config *GenomeConfig, dice Dice) float64 {
	return dice.Draw(config.WeightInitMin, config.WeightInitMax)
}

// perturbWeight adds bounded noise to w and clips the result to the weight bounds.
func perturbWeight(w float64, config *GenomeConfig, dice Dice) float64 {
	p := config.WeightMutatePower
	return clamp(w+dice.Draw(-p, p), config.WeightMinValue, config.WeightMaxValue)
}
