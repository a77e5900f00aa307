package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/ann"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/cppn"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/store"
	"github.com/baldhumanity/es-hyperneat-go/hyperneat/substrate"
)

func loadConfig(flags *globalFlags) (*hyperneat.Config, error) {
	if flags.config == "" {
		return hyperneat.DefaultConfig(), nil
	}
	return hyperneat.LoadConfig(flags.config)
}

func logger() hyperneat.Logger {
	return hyperneat.NewSlogLogger(slog.Default())
}

// readGenome loads a .gz checkpoint or a JSON record.
func readGenome(path string) (*hyperneat.Genome, error) {
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		return hyperneat.LoadCheckpoint(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genome: %w", err)
	}
	var r hyperneat.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing genome %s: %w", path, err)
	}
	return hyperneat.FromRecord(r)
}

// writeGenome writes a .gz checkpoint, a JSON record, or JSON to stdout when
// path is empty.
func writeGenome(path string, g *hyperneat.Genome) error {
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		return hyperneat.SaveCheckpoint(g, path)
	}
	return writeRecord(path, g.ToRecord())
}

func writeRecord(path string, r hyperneat.Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// parsePoints parses "x,y;x,y" into points.
func parsePoints(s string) ([]substrate.Point, error) {
	var points []substrate.Point
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		coords, err := parseFloats(part)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		if len(coords) < 2 || len(coords) > 3 {
			return nil, fmt.Errorf("point %q: need 2 or 3 coordinates", part)
		}
		points = append(points, substrate.NewPoint(coords...))
	}
	return points, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func runRandom(flags *globalFlags, seed int64, out string) error {
	config, err := loadConfig(flags)
	if err != nil {
		return err
	}
	g := hyperneat.RandomGenome(config, hyperneat.NewRandDice(seed))
	return writeGenome(out, g)
}

func runMutate(flags *globalFlags, path string, seed int64, steps int, out string) error {
	config, err := loadConfig(flags)
	if err != nil {
		return err
	}
	g, err := readGenome(path)
	if err != nil {
		return err
	}

	dice := hyperneat.NewRandDice(seed)
	for i := 0; i < steps; i++ {
		op, err := g.Mutate(config, dice)
		if err != nil {
			return fmt.Errorf("mutation %d: %w", i+1, err)
		}
		fmt.Fprintf(os.Stderr, "%d: %s\n", i+1, op)
	}

	if out == "" {
		out = path
	}
	return writeGenome(out, g)
}

func buildNetwork(flags *globalFlags, path string, sub substrateFlags) (*ann.ANN, error) {
	config, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	g, err := readGenome(path)
	if err != nil {
		return nil, err
	}
	inputs, err := parsePoints(sub.inputs)
	if err != nil {
		return nil, fmt.Errorf("--inputs: %w", err)
	}
	outputs, err := parsePoints(sub.outputs)
	if err != nil {
		return nil, fmt.Errorf("--outputs: %w", err)
	}

	net, err := cppn.FromGenome(g, config, logger())
	if err != nil {
		return nil, err
	}
	return ann.Build(config, nil, inputs, outputs, net, logger())
}

func runBuild(flags *globalFlags, path string, sub substrateFlags) error {
	net, err := buildNetwork(flags, path, sub)
	if err != nil {
		return err
	}

	fmt.Printf("Neurons: %d (%d hidden)\n", net.Len(), len(net.Hidden()))
	fmt.Printf("Links:   %d\n", net.LinkCount())
	for _, n := range net.Neurons() {
		fmt.Printf("  %-6s %-22s bias %+.4f  in %d\n", n.Type, n.Position, n.Bias, len(n.Incoming))
	}
	return nil
}

func runEval(flags *globalFlags, path string, sub substrateFlags, values string, substeps int) error {
	net, err := buildNetwork(flags, path, sub)
	if err != nil {
		return err
	}
	in, err := parseFloats(values)
	if err != nil {
		return fmt.Errorf("--values: %w", err)
	}

	out := make([]float64, len(net.Outputs()))
	if err := net.Evaluate(in, out, substeps); err != nil {
		return err
	}
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	fmt.Println(strings.Join(parts, ","))
	return nil
}

func openStore(ctx context.Context, backend, dbPath string) (store.Store, error) {
	s, err := store.NewStore(backend, dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s store: %w", backend, err)
	}
	return s, nil
}

func runStorePut(ctx context.Context, backend, dbPath, id, path string) error {
	g, err := readGenome(path)
	if err != nil {
		return err
	}
	s, err := openStore(ctx, backend, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err = s.SaveGenome(ctx, id, g.ToRecord())
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runStoreGet(ctx context.Context, backend, dbPath, id, out string) error {
	s, err := openStore(ctx, backend, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	r, ok, err := s.GetGenome(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("genome %s not found", id)
	}
	if _, err := hyperneat.FromRecord(r); err != nil {
		return err
	}
	return writeRecord(out, r)
}

func runStoreList(ctx context.Context, backend, dbPath string) error {
	s, err := openStore(ctx, backend, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := s.ListGenomes(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
