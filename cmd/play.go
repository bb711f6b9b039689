package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mockexam/internal/app"
	"github.com/abhisek/mockexam/internal/feedback"
	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/screen"
	"github.com/abhisek/mockexam/internal/session"
	"github.com/abhisek/mockexam/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive mock test (default)",
	RunE:  runPlay,
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logs, err := setupLogging(cfg.LogLevel, cfg.LogFormat, cfg.tuiLogFile())
	if err != nil {
		return err
	}
	defer logs.Close()

	tr, err := i18n.New(cfg.Lang)
	if err != nil {
		return err
	}

	st, err := cfg.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := buildProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		// The TUI still starts; the first generation shows the error.
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		slog.Error("LLM provider not configured", "provider", cfg.LLM.Provider, "error", err)
		provider = &unconfiguredProvider{err: err, model: cfg.LLM.Model()}
	}

	history := session.NewKVHistory(st.KV())
	sess := session.New(
		questiongen.New(provider, questiongen.DefaultConfig()),
		feedback.New(provider, feedback.DefaultConfig()),
		history,
	)
	if err := sess.LoadHistory(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Could not load test history:", err)
	}

	env := screen.NewEnv(ctx, sess, tr)
	env.ExportDir = cfg.ExportDir

	slog.Info("starting TUI", "provider", cfg.LLM.Provider, "model", provider.ModelID(), "db", cfg.DBPath)
	return app.Run(env)
}

// buildProvider validates cfg and constructs the provider stack.
func buildProvider(ctx context.Context, cfg llm.Config, events store.EventRepo) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg, events)
}

// unconfiguredProvider fails every call with the configuration error, so
// the TUI can report it in place.
type unconfiguredProvider struct {
	err   error
	model string
}

func (p *unconfiguredProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	return nil, p.err
}

func (p *unconfiguredProvider) ModelID() string { return p.model }

var (
	_ session.QuestionGenerator = (*questiongen.Generator)(nil)
	_ session.FeedbackGenerator = (*feedback.Generator)(nil)
	_ llm.Provider              = (*unconfiguredProvider)(nil)
)
