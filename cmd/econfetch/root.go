package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"econfetch/internal/adapters"
	"econfetch/internal/config"
	"econfetch/internal/fetcher"
	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/internal/pipeline"
	"econfetch/internal/report"
	"econfetch/internal/sink"
)

// errSourcesFailed is returned by run --fail-on-error when any source failed.
var errSourcesFailed = errors.New("one or more data sources failed")

type rootOptions struct {
	configPath string
	envFile    string
}

type runOptions struct {
	outputDir   string
	format      string
	sources     []string
	failOnError bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "econfetch",
		Short:         "Fetch economic data sources and save them as tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to the YAML configuration")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before ${VAR} expansion")

	cmd.AddCommand(newRunCmd(opts), newCheckCmd(opts), newAdaptersCmd())

	return cmd
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch every enabled source and write one file per source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Override output.dir")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Override output.format (csv, markdown)")
	cmd.Flags().StringSliceVarP(&opts.sources, "source", "s", nil, "Only run the named sources (repeatable)")
	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "Exit non-zero when any source fails")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level regardless of logging.level")

	return cmd
}

func runFetch(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	cfg, err := config.LoadConfig(root.configPath, root.envFile)
	if err != nil {
		return err
	}

	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}

	if opts.format != "" {
		cfg.Output.Format = opts.format
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	sources, err := cfg.SelectSources(opts.sources)
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg).With("run_id", uuid.NewString())
	if opts.verbose {
		log.SetLevel("debug")
	}

	log.Info("🚀 Starting data collection", "sources", len(sources), "output", cfg.Output.Dir, "format", cfg.Output.Format)

	client := fetcher.NewClient(cfg.HTTP, log)
	runner := pipeline.NewRunner(
		adapters.Default(client, log),
		sink.New(cfg.Output.Dir, cfg.Output.Format, log),
		log,
	)

	outcomes := runner.Run(cmd.Context(), sources)

	report.Outcomes(cmd.OutOrStdout(), outcomes)

	summary := models.Summarize(outcomes)
	log.Info("✨ Data collection complete", "succeeded", summary.Succeeded, "failed", summary.Failed)

	if opts.failOnError && summary.Failed > 0 {
		return errSourcesFailed
	}

	return nil
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and show how each source resolves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(root.configPath, root.envFile)
			if err != nil {
				return err
			}

			log := newLogger(cmd.ErrOrStderr(), cfg)
			registry := adapters.Default(fetcher.NewClient(cfg.HTTP, log), log)

			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			report.Sources(cmd.OutOrStdout(), cfg.Sources, registry)

			return nil
		},
	}
}

func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the registered adapters and their aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Discard()
			registry := adapters.Default(fetcher.NewClient(config.HTTPConfig{}, log), log)

			report.Adapters(cmd.OutOrStdout(), registry)

			return nil
		},
	}
}

func newLogger(w io.Writer, cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output: w,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
