// Package cli is the qactl command tree. Every command runs synchronously against the
// configured stores without the job queue.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/akolanti/QuestionnaireAPI/internal/bootstrap"
	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	app *bootstrap.App

	// buildApp and releaseApp are swapped in tests.
	releaseApp = (*bootstrap.App).Close
	buildApp   = func(ctx context.Context, path string) (*bootstrap.App, error) {
		s, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		return bootstrap.Build(ctx, s)
	}
)

var rootCmd = &cobra.Command{
	Use:   "qactl",
	Short: "Answer questionnaires from your document corpus",
	Long: `qactl ingests documents, creates questionnaire projects, generates grounded
answers and scores them against reference answers.

Configuration is read from --config (yaml or toml), a .env file and QA_* variables.`,
	SilenceUsage:       true,
	PersistentPreRunE:  openApp,
	PersistentPostRunE: closeApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	rootCmd.SetOut(os.Stdout)
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func openApp(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q", logLevel)
	}
	// stdout carries command output
	logger_i.InitWithWriter(os.Stderr, level, false)

	built, err := buildApp(cmd.Context(), cfgFile)
	if err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	app = built
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := releaseApp(app)
	app = nil
	return err
}

func requireApp() (*bootstrap.App, error) {
	if app == nil {
		return nil, errors.New("services not initialised")
	}
	return app, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
