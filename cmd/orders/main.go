/*
main.go - Command-line entry point for the fundraiser order automation

PURPOSE:
  Runs one operation against the configured backend and prints its
  transcript. The exit code is non-zero when the operation failed.

COMMANDS:
  organize       color-code MASTER rows and refresh "<school> MASTER" sheets
  production     production PDF + Production sheet
  leaderboards   one HTML leaderboard per school
  errors         Error Log sheet + CSV
  export [school]  order forms for one school (prompts when omitted)
  schools        list schools that have a MASTER view
  import <file>  replace MASTER with a CSV export

FLAGS:
  --config   path to a config file (default: ./orders.yaml if present)
  --verbose  debug logging

EXAMPLES:
  orders organize
  ORDERS_BACKEND=xlsx ORDERS_XLSX_PATH=./spring.xlsx orders production
  orders export "Lincoln Elementary"

SEE ALSO:
  - config/config.go: every setting and its environment variable
  - automation/: the operations
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jfc974-droid/order-management-system/automation"
	"github.com/jfc974-droid/order-management-system/config"
)

var (
	configPath string
	verbose    bool

	logger  *zap.Logger
	cfg     config.Config
	backend *automation.Backend
	runner  *automation.Runner
)

var rootCmd = &cobra.Command{
	Use:   "orders",
	Short: "Fundraiser order automation",
	Long: `Automates the fundraiser order workbook: per-school views, production
counts, sales leaderboards, data-quality checks and printable order forms.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Verbose = true
		}

		zc := zap.NewProductionConfig()
		if !cfg.Verbose {
			// Transcripts already go to stdout.
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		} else {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		backend, err = automation.OpenBackend(cmd.Context(), cfg, os.Stdin, os.Stdout, logger)
		if err != nil {
			return err
		}
		runner = backend.Runner(cfg, logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./orders.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(organizeCmd, productionCmd, leaderboardsCmd, errorsCmd, exportCmd, schoolsCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

// cleanup runs whether or not the command failed.
func cleanup() {
	if backend != nil {
		if err := backend.Close(); err != nil && logger != nil {
			logger.Warn("close backend", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
