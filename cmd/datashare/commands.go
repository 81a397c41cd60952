package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/datashare/internal/buildinfo"
	"github.com/dmitrijs2005/datashare/internal/client/cli"
	"github.com/dmitrijs2005/datashare/internal/client/config"
	"github.com/dmitrijs2005/datashare/internal/client/datastore"
	"github.com/dmitrijs2005/datashare/internal/client/services"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "datashare",
		Short:         "Share company metrics and image files between two roles",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runShell,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive client (default)",
			RunE:  runShell,
		},
		&cobra.Command{
			Use:   "demo",
			Short: "Seed demo records into an empty store",
			RunE:  runDemo,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Remove all records and the saved session",
			RunE:  runReset,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return root
}

// setup resolves configuration from file, environment and flags, then
// builds the logger.
func setup(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	path, err := cmd.Flags().GetString(config.FlagConfig)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	return app.Run(ctx)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := datastore.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := services.SeedDemo(ctx, store.Metrics, store.Files, time.Now().UTC())
	out := cmd.OutOrStdout()
	if res.Metric != nil {
		fmt.Fprintf(out, "Added demo metrics for %s\n", res.Metric.CompanyName)
	}
	if res.File != nil {
		fmt.Fprintf(out, "Added demo file %s\n", res.File.FileName)
	}
	if res.Metric == nil && res.File == nil {
		fmt.Fprintln(out, "Store already has data, nothing seeded")
	}
	return err
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := datastore.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All DataShare data removed")
	return nil
}
