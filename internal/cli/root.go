// Package cli defines Cobra command definitions for the fincoach CLI.
// This file contains the root command, persistent flags and shared setup.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/config"
	"github.com/fincoach-dev/fincoach/internal/tui"
	"github.com/fincoach-dev/fincoach/internal/tui/app"
)

var (
	homeDir string
	verbose bool
	version = "dev" // set via ldflags at build time
)

// env is populated by PersistentPreRunE before any command runs.
var env struct {
	dir    string
	cfg    *config.Config
	logger *zap.Logger
}

var rootCmd = &cobra.Command{
	Use:   "fincoach",
	Short: "Personal finance advisory client",
	Long: `fincoach walks you through onboarding with an advisory backend:
submit a profile, answer tailored questions, read your analysis and
financial plan, then track recommendations until they are complete.

Run without arguments for the interactive interface.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch TUI if TTY, list the
		// non-interactive commands otherwise
		out := cmd.OutOrStdout()
		if !tui.IsTTY(out) {
			return tui.NewFallbackRunner(out).Run()
		}

		svc := tui.NewServices(newClient(), env.logger)
		svc.Events = openEvents()
		store := openStore()
		if store != nil {
			defer store.Close()
			svc.Store = store
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return tui.Run(app.New(ctx, env.cfg, svc))
	},
}

// setup loads configuration and builds the logger. The console log core is
// only enabled for --verbose so it never interferes with the TUI.
func setup(cmd *cobra.Command, args []string) error {
	env.dir = homeDir
	if env.dir == "" {
		env.dir = config.DefaultDir()
	}

	cfg, err := config.Load(env.dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	env.cfg = cfg

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	env.logger = logger
	return nil
}

// Execute runs the root command. Called from main.
func Execute() {
	err := rootCmd.Execute()
	if env.logger != nil {
		_ = env.logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory for config, logs and journal (default ~/.fincoach)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&credentials.email, "email", "", "Account email (or FINCOACH_EMAIL)")
	rootCmd.PersistentFlags().StringVar(&credentials.password, "password", "", "Account password (or FINCOACH_PASSWORD)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(questionnaireCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(recsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
