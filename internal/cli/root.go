// Package cli implements gymctl, the command-line front end of the gym ledger.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"gymledger/internal/config"
	"gymledger/internal/core"
	"gymledger/internal/idgen"
	"gymledger/internal/kv"
	"gymledger/internal/logger"
	"gymledger/internal/metrics"
)

// skipSeed marks commands that must not seed the store before running.
const skipSeed = "gymctl/skip-seed"

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(stdout, map[string]any{"error": err.Error()})
		} else {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// app carries what every command needs to open the store.
type app struct {
	envFile   string
	output    string
	stderr    io.Writer
	registry  *prometheus.Registry
	collector *metrics.Collector
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	registry := prometheus.NewRegistry()
	a := &app{
		stderr:    stderr,
		registry:  registry,
		collector: metrics.NewCollector(registry),
	}

	rootCmd := &cobra.Command{
		Use:           "gymctl",
		Short:         "Gym ledger CLI",
		Long:          "Manage gym members, courses, diet plans, inventory and sales.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(a.output)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	rootCmd.AddCommand(newMemberCmd(a))
	rootCmd.AddCommand(newCourseCmd(a))
	rootCmd.AddCommand(newDietPlanCmd(a))
	rootCmd.AddCommand(newProductCmd(a))
	rootCmd.AddCommand(newSaleCmd(a))
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newSeedCmd(a))
	rootCmd.AddCommand(newResetCmd(a))
	rootCmd.AddCommand(newMetricsCmd(a))

	return rootCmd
}

// open wires config, logging, metrics and the backing driver into a Store.
// Unless seed is false the starter data is written first.
func (a *app) open(ctx context.Context, seed bool) (*core.Store, error) {
	cfg, err := config.LoadFiles(a.envFile)
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.SetupDefault(a.stderr, level)
	ids, err := idgen.New(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}
	opts := []core.Option{
		core.WithLogger(log),
		core.WithObserver(a.collector),
		core.WithKeyPrefix(cfg.KeyPrefix),
		core.WithIDGenerator(ids),
	}
	if cfg.SeedFile != "" {
		catalog, err := core.LoadCatalog(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithCatalog(catalog))
	}

	backing, err := kv.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	store := core.New(backing, opts...)
	if seed {
		if _, err := store.EnsureSeeded(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

// withStore adapts fn into a RunE that opens the store for the duration of
// the command.
func (a *app) withStore(fn func(cmd *cobra.Command, args []string, s *core.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		_, noSeed := cmd.Annotations[skipSeed]
		s, err := a.open(cmd.Context(), !noSeed)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, s)
	}
}

var errResetNotConfirmed = errors.New("reset deletes all data: pass --yes to confirm")
