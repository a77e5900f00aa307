package hyperneat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config stores every tunable of the genome, the mutation operators and the
// ES-HyperNEAT substrate. It is read-only once LoadConfig or Validate returns.
type Config struct {
	Genome    GenomeConfig    `yaml:"genome"`
	Mutation  MutationConfig  `yaml:"mutation"`
	Substrate SubstrateConfig `yaml:"substrate"`
	QuadTree  QuadTreeConfig  `yaml:"quadtree"`

	// --- Calculated/Derived ---
	Functions *FunctionLibrary `yaml:"-"` // Registry restricted to FunctionOptions
}

// GenomeConfig holds CPPN link weight bounds and function choices.
type GenomeConfig struct {
	WeightMinValue    float64  `ini:"weight_min_value" yaml:"weight_min_value"`
	WeightMaxValue    float64  `ini:"weight_max_value" yaml:"weight_max_value"`
	WeightInitMin     float64  `ini:"weight_init_min" yaml:"weight_init_min"`
	WeightInitMax     float64  `ini:"weight_init_max" yaml:"weight_init_max"`
	WeightMutatePower float64  `ini:"weight_mutate_power" yaml:"weight_mutate_power"`
	FunctionOptions   []string `ini:"function_options" delim:" " yaml:"function_options"` // Empty means all
}

// MutationConfig holds the relative rates of the six mutation operators.
type MutationConfig struct {
	AddNodeRate        float64 `ini:"add_node_rate" yaml:"add_node_rate"`
	AddLinkRate        float64 `ini:"add_link_rate" yaml:"add_link_rate"`
	DeleteNodeRate     float64 `ini:"delete_node_rate" yaml:"delete_node_rate"`
	DeleteLinkRate     float64 `ini:"delete_link_rate" yaml:"delete_link_rate"`
	MutateWeightRate   float64 `ini:"mutate_weight_rate" yaml:"mutate_weight_rate"`
	MutateFunctionRate float64 `ini:"mutate_function_rate" yaml:"mutate_function_rate"`
}

// SubstrateConfig describes the substrate and how CPPN outputs are read.
type SubstrateConfig struct {
	Dimension    int       `ini:"dimension" yaml:"dimension"`                        // 2 or 3
	Bias         bool      `ini:"bias" yaml:"bias"`                                  // CPPN bias input and substrate bias neuron
	LEO          bool      `ini:"leo" yaml:"leo"`                                    // Link expression output
	LEOFold      bool      `ini:"leo_fold" yaml:"leo_fold"`                          // Multiply LEO into the sampled weight
	BiasOutput   bool      `ini:"bias_output" yaml:"bias_output"`                    // CPPN output driving neuron biases
	Activation   string    `ini:"activation" yaml:"activation"`                      // Global ANN activation
	Iterations   int       `ini:"iterations" yaml:"iterations"`                      // Hidden phase rounds
	BiasPosition []float64 `ini:"bias_position" delim:" " yaml:"bias_position,flow"` // Bias neuron coordinates
}

// QuadTreeConfig holds the adaptive sampling and extraction thresholds.
type QuadTreeConfig struct {
	InitialDepth      int     `ini:"initial_depth" yaml:"initial_depth"`
	MaxDepth          int     `ini:"max_depth" yaml:"max_depth"`
	DivisionThreshold float64 `ini:"division_threshold" yaml:"division_threshold"`
	VarianceThreshold float64 `ini:"variance_threshold" yaml:"variance_threshold"`
	BandThreshold     float64 `ini:"band_threshold" yaml:"band_threshold"`
}

// maxTreeDepth caps max_depth; a 3D tree at this depth already holds millions of cells.
const maxTreeDepth = 10

// DefaultConfig returns the built-in settings, already validated.
func DefaultConfig() *Config {
	cfg := &Config{
		Genome: GenomeConfig{
			WeightMinValue:    -3.0,
			WeightMaxValue:    3.0,
			WeightInitMin:     -1.0,
			WeightInitMax:     1.0,
			WeightMutatePower: 0.5,
		},
		Mutation: MutationConfig{
			AddNodeRate:        0.05,
			AddLinkRate:        0.1,
			DeleteNodeRate:     0.02,
			DeleteLinkRate:     0.03,
			MutateWeightRate:   0.7,
			MutateFunctionRate: 0.1,
		},
		Substrate: SubstrateConfig{
			Dimension:    2,
			Bias:         true,
			LEO:          false,
			Activation:   "tanh",
			Iterations:   1,
			BiasPosition: []float64{0, 0},
		},
		QuadTree: QuadTreeConfig{
			InitialDepth:      3,
			MaxDepth:          5,
			DivisionThreshold: 0.03,
			VarianceThreshold: 0.03,
			BandThreshold:     0.3,
		},
	}
	if err := cfg.Validate(); err != nil {
		// The literal above is under our control; failing here is a programming error.
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// LoadConfig loads configuration parameters from an INI file, or from YAML when
// the file extension is .yaml or .yml. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()
	config.Functions = nil
	config.Substrate.BiasPosition = nil

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
		}
	default:
		if err := loadINI(filePath, config); err != nil {
			return nil, err
		}
	}

	// A missing bias_position puts the bias neuron at the origin.
	if len(config.Substrate.BiasPosition) == 0 {
		config.Substrate.BiasPosition = make([]float64, config.Substrate.Dimension)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(filePath string, config *Config) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Allow # comments starting with # or ;
		UnescapeValueCommentSymbols: true, // If # or ; appear in value, treat as value
	}, filePath)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	// Map sections to structs
	if err := cfg.Section("Genome").MapTo(&config.Genome); err != nil {
		return fmt.Errorf("failed to map [Genome] section: %w", err)
	}
	if err := cfg.Section("Mutation").MapTo(&config.Mutation); err != nil {
		return fmt.Errorf("failed to map [Mutation] section: %w", err)
	}
	if err := cfg.Section("Substrate").MapTo(&config.Substrate); err != nil {
		return fmt.Errorf("failed to map [Substrate] section: %w", err)
	}
	if err := cfg.Section("QuadTree").MapTo(&config.QuadTree); err != nil {
		return fmt.Errorf("failed to map [QuadTree] section: %w", err)
	}

	config.Substrate.Activation = cleanIniString(config.Substrate.Activation)
	opts := config.Genome.FunctionOptions[:0]
	for _, opt := range config.Genome.FunctionOptions {
		opt = strings.TrimSpace(opt)
		if strings.HasPrefix(opt, "#") || strings.HasPrefix(opt, ";") {
			break // Rest of the line is a comment
		}
		if opt != "" {
			opts = append(opts, opt)
		}
	}
	config.Genome.FunctionOptions = opts
	return nil
}

// Validate checks the settings and fills the derived fields. Every failure
// wraps ErrConfiguration.
func (c *Config) Validate() error {
	g := c.Genome
	if g.WeightMaxValue < g.WeightMinValue {
		return fmt.Errorf("%w: weight_max_value cannot be less than weight_min_value", ErrConfiguration)
	}
	if g.WeightInitMax < g.WeightInitMin {
		return fmt.Errorf("%w: weight_init_max cannot be less than weight_init_min", ErrConfiguration)
	}
	if g.WeightInitMin < g.WeightMinValue || g.WeightInitMax > g.WeightMaxValue {
		return fmt.Errorf("%w: initial weight range must lie within [weight_min_value, weight_max_value]", ErrConfiguration)
	}
	if g.WeightMutatePower < 0 {
		return fmt.Errorf("%w: weight_mutate_power cannot be negative", ErrConfiguration)
	}

	m := c.Mutation
	for name, rate := range map[string]float64{
		"add_node_rate":        m.AddNodeRate,
		"add_link_rate":        m.AddLinkRate,
		"delete_node_rate":     m.DeleteNodeRate,
		"delete_link_rate":     m.DeleteLinkRate,
		"mutate_weight_rate":   m.MutateWeightRate,
		"mutate_function_rate": m.MutateFunctionRate,
	} {
		if rate < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrConfiguration, name)
		}
	}

	s := c.Substrate
	if s.Dimension != 2 && s.Dimension != 3 {
		return fmt.Errorf("%w: dimension must be 2 or 3, got %d", ErrConfiguration, s.Dimension)
	}
	if s.LEOFold && !s.LEO {
		return fmt.Errorf("%w: leo_fold requires leo", ErrConfiguration)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("%w: iterations cannot be negative", ErrConfiguration)
	}
	if s.Bias && len(s.BiasPosition) != s.Dimension {
		return fmt.Errorf("%w: bias_position needs %d coordinates, got %d", ErrConfiguration, s.Dimension, len(s.BiasPosition))
	}
	if _, err := DefaultFunctions.Lookup(s.Activation); err != nil {
		return fmt.Errorf("%w: activation: %v", ErrConfiguration, err)
	}

	q := c.QuadTree
	if q.InitialDepth < 1 {
		return fmt.Errorf("%w: initial_depth must be at least 1", ErrConfiguration)
	}
	if q.MaxDepth < q.InitialDepth {
		return fmt.Errorf("%w: max_depth cannot be less than initial_depth", ErrConfiguration)
	}
	if q.MaxDepth > maxTreeDepth {
		return fmt.Errorf("%w: max_depth cannot exceed %d", ErrConfiguration, maxTreeDepth)
	}

	lib, err := DefaultFunctions.Restrict(g.FunctionOptions)
	if err != nil {
		return fmt.Errorf("%w: function_options: %v", ErrConfiguration, err)
	}
	c.Functions = lib
	return nil
}

// InputCount is the number of CPPN inputs: source and destination coordinates
// plus the optional bias input.
func (c *Config) InputCount() int {
	n := 2 * c.Substrate.Dimension
	if c.Substrate.Bias {
		n++
	}
	return n
}

// OutputCount is the number of CPPN outputs: weight, then LEO, then bias output.
func (c *Config) OutputCount() int {
	n := 1
	if c.Substrate.LEO {
		n++
	}
	if c.Substrate.BiasOutput {
		n++
	}
	return n
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	// Remove comments starting with # or ;
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
