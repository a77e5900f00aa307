// Package hyperneat provides a Go implementation of the genotype side of
// ES-HyperNEAT (Evolvable-Substrate HyperNEAT).
//
// A Genome describes a small CPPN (Compositional Pattern Producing Network).
// It is mutated in place, one operator per call, and compiled into an
// evaluator by the cppn subpackage. The substrate subpackage samples the CPPN
// weight field with an adaptive quadtree to discover hidden neurons and their
// connections, and the ann subpackage turns the result into a network that can
// be stepped repeatedly.
//
// This implementation follows the ES-HyperNEAT papers by Sebastian Risi and
// Kenneth O. Stanley.
//
// Basic usage:
//
//	// Load configuration
//	config, err := hyperneat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create and mutate a genome
//	dice := hyperneat.NewRandDice(42)
//	g := hyperneat.RandomGenome(config, dice)
//	if _, err := g.Mutate(config, dice); err != nil {
//		log.Fatalf("Error mutating genome: %v", err)
//	}
//
//	// Build the substrate network and run it
//	inputs := []substrate.Point{substrate.NewPoint(-1, -1), substrate.NewPoint(1, -1)}
//	outputs := []substrate.Point{substrate.NewPoint(0, 1)}
//	net, err := ann.FromGenome(config, g, nil, inputs, outputs, nil)
//	if err != nil {
//		log.Fatalf("Error building network: %v", err)
//	}
//	out := make([]float64, 1)
//	if err := net.Evaluate([]float64{1, 0}, out, 3); err != nil {
//		log.Fatalf("Error evaluating network: %v", err)
//	}
package hyperneat
