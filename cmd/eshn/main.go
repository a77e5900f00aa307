package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	config  string
	verbose bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "eshn",
		Short:         "ES-HyperNEAT genome and substrate tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file (.ini, .yaml or .yml); built-in defaults when empty")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log substrate discovery at debug level")

	rootCmd.AddCommand(randomCmd(&flags))
	rootCmd.AddCommand(mutateCmd(&flags))
	rootCmd.AddCommand(buildCmd(&flags))
	rootCmd.AddCommand(evalCmd(&flags))
	rootCmd.AddCommand(storeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func randomCmd(flags *globalFlags) *cobra.Command {
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Create a fully connected seed genome",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRandom(flags, seed, out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.json record or .gz checkpoint); stdout when empty")
	return cmd
}

func mutateCmd(flags *globalFlags) *cobra.Command {
	var seed int64
	var steps int
	var out string

	cmd := &cobra.Command{
		Use:   "mutate [genome-file]",
		Short: "Apply mutation operators to a genome",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMutate(flags, args[0], seed, steps, out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of mutations")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; overwrites the input when empty")
	return cmd
}

type substrateFlags struct {
	inputs  string
	outputs string
}

func (s *substrateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.inputs, "inputs", "-1,-1;1,-1", "input points, ';' separated, coordinates ',' separated")
	cmd.Flags().StringVar(&s.outputs, "outputs", "0,1", "output points, ';' separated, coordinates ',' separated")
}

func buildCmd(flags *globalFlags) *cobra.Command {
	var sub substrateFlags

	cmd := &cobra.Command{
		Use:   "build [genome-file]",
		Short: "Discover the substrate network encoded by a genome",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBuild(flags, args[0], sub)
		},
	}
	sub.register(cmd)
	return cmd
}

func evalCmd(flags *globalFlags) *cobra.Command {
	var sub substrateFlags
	var values string
	var substeps int

	cmd := &cobra.Command{
		Use:   "eval [genome-file]",
		Short: "Build the substrate network and evaluate it on one input vector",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEval(flags, args[0], sub, values, substeps)
		},
	}
	sub.register(cmd)
	cmd.Flags().StringVar(&values, "values", "", "input values, ',' separated (required)")
	cmd.Flags().IntVar(&substeps, "substeps", 3, "relaxation rounds")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func storeCmd() *cobra.Command {
	var backend, dbPath string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load genome records",
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "sqlite", "store backend: memory or sqlite")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "genomes.db", "sqlite database path")

	var id string
	put := &cobra.Command{
		Use:   "put [genome-file]",
		Short: "Store a genome and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runStorePut(c.Context(), backend, dbPath, id, args[0])
		},
	}
	put.Flags().StringVar(&id, "id", "", "record id; a new UUID when empty")

	var out string
	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Load a stored genome",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runStoreGet(c.Context(), backend, dbPath, args[0], out)
		},
	}
	get.Flags().StringVarP(&out, "out", "o", "", "output file; stdout when empty")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored genome ids",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runStoreList(c.Context(), backend, dbPath)
		},
	}

	cmd.AddCommand(put, get, list)
	return cmd
}
