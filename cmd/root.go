package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mockexam",
	Short: "AI mock exam helper",
	Long: "mockexam generates practice tests for Taiwanese AI and net-zero certification exams " +
		"with an LLM, grades them and keeps a local history.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotEnv()
	},
	RunE: runPlay,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Config file (default ./mockexam.yaml or ~/.config/mockexam/mockexam.yaml)")
	f.String("db", "", "Path to SQLite database file (overrides MOCKEXAM_DB env var)")
	f.String("provider", "", "LLM provider: gemini, openai, anthropic or openrouter")
	f.String("model", "", "Model for the selected provider")
	f.String("lang", "", "UI language: zh-TW or en")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
	f.String("log-format", "", "Log format (text, json)")
	f.String("log-file", "", "Log file (the TUI logs next to the database by default)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads ./.env into the process environment. Variables that
// are already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
}
