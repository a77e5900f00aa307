package substrate

import (
	"fmt"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/cppn"
)

// Field is the connection-weight field sampled over the substrate.
type Field interface {
	// Weight is the connection weight from src to dst.
	Weight(src, dst Point) float64
	// Expressed is the link expression gate for src -> dst.
	Expressed(src, dst Point) bool
	// Bias is the bias of a neuron placed at p.
	Bias(p Point) float64
}

// FieldFunc adapts a plain weight function to Field. Every link is expressed
// and every bias is 0.
type FieldFunc func(src, dst Point) float64

func (f FieldFunc) Weight(src, dst Point) float64 { return f(src, dst) }
func (f FieldFunc) Expressed(src, dst Point) bool { return true }
func (f FieldFunc) Bias(p Point) float64          { return 0 }

// CPPNField reads the weight field from a compiled CPPN.
type CPPNField struct {
	net  *cppn.CPPN
	dim  int
	leo  bool
	fold bool
}

// NewCPPNField wraps net for a substrate described by config.
func NewCPPNField(net *cppn.CPPN, config *hyperneat.Config) (*CPPNField, error) {
	if net.InputCount() != config.InputCount() {
		return nil, fmt.Errorf("%w: cppn has %d inputs, substrate needs %d",
			hyperneat.ErrConfiguration, net.InputCount(), config.InputCount())
	}
	return &CPPNField{
		net:  net,
		dim:  config.Substrate.Dimension,
		leo:  config.Substrate.LEO,
		fold: config.Substrate.LEOFold,
	}, nil
}

func (f *CPPNField) query(src, dst Point) cppn.Outputs {
	if src.Dim() != f.dim || dst.Dim() != f.dim {
		panic(fmt.Sprintf("substrate: %dD query %v -> %v on a %dD substrate", src.Dim(), src, dst, f.dim))
	}
	out, err := f.net.Query(src.Coords(), dst.Coords())
	if err != nil {
		// Dimensions are checked above, so the CPPN cannot reject the vector.
		panic(fmt.Sprintf("substrate: cppn query: %v", err))
	}
	return out
}

// Weight returns the CPPN weight output, multiplied by the LEO output when
// link expression is folded into the weight.
func (f *CPPNField) Weight(src, dst Point) float64 {
	out := f.query(src, dst)
	if f.fold {
		return out.Weight * out.Expression
	}
	return out.Weight
}

// Expressed evaluates the LEO gate. Without LEO, or with LEO folded into the
// weight, every link is expressed.
func (f *CPPNField) Expressed(src, dst Point) bool {
	if !f.leo || f.fold {
		return true
	}
	return f.query(src, dst).Expressed()
}

// Bias queries the CPPN bias output from the origin to p.
func (f *CPPNField) Bias(p Point) float64 {
	return f.query(Origin(f.dim), p).Bias
}
