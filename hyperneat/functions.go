package hyperneat

import (
	"fmt"
	"math"
	"sort"
)

// Function is a pure scalar function used by CPPN nodes and substrate neurons.
type Function func(x float64) float64

// Range is the closed output range of a Function.
type Range struct {
	Min float64
	Max float64
}

// FunctionSpec describes one registered function. ID is the value stored in
// NodeGene.Function and is stable for the lifetime of the process.
type FunctionSpec struct {
	ID    int
	Name  string
	Fn    Function
	Range Range
}

// FunctionLibrary is an immutable registry of functions plus the subset of ids
// that random choices (RandomGenome, add_n, mut_f) may pick from.
type FunctionLibrary struct {
	specs   []FunctionSpec
	byName  map[string]int
	choices []int
}

// builtinFunctions lists the registry in id order. Appending is safe; reordering
// changes the meaning of stored genomes.
var builtinFunctions = []struct {
	name string
	fn   Function
	rng  Range
}{
	{"identity", Identity, Range{math.Inf(-1), math.Inf(1)}},
	{"gaussian", Gaussian, Range{0, 1}},
	{"sine", Sine, Range{-1, 1}},
	{"cosine", Cosine, Range{-1, 1}},
	{"abs", Absolute, Range{0, math.Inf(1)}},
	{"sigmoid", Sigmoid, Range{0, 1}},
	{"tanh", Tanh, Range{-1, 1}},
	{"step", Step, Range{0, 1}},
	{"bipolar_sigmoid", BipolarSigmoid, Range{-1, 1}},
	{"clamped", Clamped, Range{-1, 1}},
	{"hat", Hat, Range{0, 1}},
	{"square", Square, Range{0, math.Inf(1)}},
}

// DefaultFunctions is built once at start-up and never modified. Components
// receive it through Config.Functions rather than reading it directly.
var DefaultFunctions = newBuiltinLibrary()

func newBuiltinLibrary() *FunctionLibrary {
	lib := &FunctionLibrary{byName: make(map[string]int, len(builtinFunctions))}
	for i, b := range builtinFunctions {
		lib.specs = append(lib.specs, FunctionSpec{ID: i, Name: b.name, Fn: b.fn, Range: b.rng})
		lib.byName[b.name] = i
		lib.choices = append(lib.choices, i)
	}
	return lib
}

// Len returns the number of registered functions.
func (l *FunctionLibrary) Len() int { return len(l.specs) }

// Get returns the function registered under id.
func (l *FunctionLibrary) Get(id int) (FunctionSpec, error) {
	if id < 0 || id >= len(l.specs) {
		return FunctionSpec{}, fmt.Errorf("unknown function id: %d", id)
	}
	return l.specs[id], nil
}

// Lookup retrieves a function by name.
func (l *FunctionLibrary) Lookup(name string) (FunctionSpec, error) {
	id, ok := l.byName[name]
	if !ok {
		return FunctionSpec{}, fmt.Errorf("unknown function: %s", name)
	}
	return l.specs[id], nil
}

// Choices returns the ids eligible for random picks, ascending.
func (l *FunctionLibrary) Choices() []int {
	out := make([]int, len(l.choices))
	copy(out, l.choices)
	return out
}

// Restrict returns a library sharing the same ids whose random choices are
// limited to names. An empty names list keeps every function.
func (l *FunctionLibrary) Restrict(names []string) (*FunctionLibrary, error) {
	if len(names) == 0 {
		return l, nil
	}
	seen := make(map[int]bool, len(names))
	choices := make([]int, 0, len(names))
	for _, name := range names {
		id, ok := l.byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown function: %s", name)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		choices = append(choices, id)
	}
	sort.Ints(choices)
	return &FunctionLibrary{specs: l.specs, byName: l.byName, choices: choices}, nil
}

// --- Built-in function implementations ---

// Identity returns x unchanged.
func Identity(x float64) float64 { return x }

// Gaussian is exp(-x²/2); it peaks at 1 for x = 0.
func Gaussian(x float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Sine activation function.
func Sine(x float64) float64 { return math.Sin(x) }

// Cosine activation function.
func Cosine(x float64) float64 { return math.Cos(x) }

// Absolute value activation function.
func Absolute(x float64) float64 { return math.Abs(x) }

// Sigmoid is the steepened logistic 1 / (1 + exp(-4.9x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-4.9*x))
}

// Tanh activation function.
func Tanh(x float64) float64 { return math.Tanh(x) }

// Step returns 1 for positive input and 0 otherwise.
func Step(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// BipolarSigmoid maps the steepened sigmoid onto [-1, 1].
func BipolarSigmoid(x float64) float64 {
	return 2.0/(1.0+math.Exp(-4.9*x)) - 1.0
}

// Clamped restricts x to [-1, 1].
func Clamped(x float64) float64 { return clamp(x, -1.0, 1.0) }

// Hat is a triangular pulse centred at 0.
func Hat(x float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Square returns x².
func Square(x float64) float64 { return x * x }
