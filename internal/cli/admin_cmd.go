package cli

import (
	"github.com/spf13/cobra"

	"gymledger/internal/core"
	"gymledger/internal/metrics"
	"gymledger/pkg/domain"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the login flag",
	}
	render := func(cmd *cobra.Command, state domain.AuthSession) error {
		if getOutputFormat(cmd) == "json" {
			return printJSON(cmd.OutOrStdout(), state)
		}
		login := "-"
		if state.LoginTime != nil {
			login = formatTime(*state.LoginTime)
		}
		return printTable(cmd.OutOrStdout(), []string{"AUTHENTICATED", "LOGIN TIME"},
			[][]string{{boolString(state.IsAuthenticated), login}})
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Mark the session authenticated",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			state, err := s.Session.Login(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, state)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the login flag",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			if err := s.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			return render(cmd, domain.AuthSession{})
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the login flag",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			state, err := s.Session.State(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, state)
		}),
	})
	return cmd
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "seed",
		Short:       "Write starter data for every absent collection",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSeed: "true"},
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			seeded, err := s.EnsureSeeded(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				return printMessage(cmd, "seeded", false, "store already initialized")
			}
			return printMessage(cmd, "seeded", true, "starter data written")
		}),
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:         "reset",
		Short:       "Remove every key owned by the store",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSeed: "true"},
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			if !yes {
				return errResetNotConfirmed
			}
			if err := s.Reset(cmd.Context()); err != nil {
				return err
			}
			return printMessage(cmd, "reset", true, "store reset")
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

const metricsLong = `Print the metrics of this invocation in Prometheus text format.

Each gymctl run starts a fresh registry, so the counters only cover the
store open and seed check of this run. Nothing is accumulated across runs.`

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the metrics of this invocation in Prometheus text format",
		Long:  metricsLong,
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, _ *core.Store) error {
			return metrics.WriteText(cmd.OutOrStdout(), a.registry)
		}),
	}
}
