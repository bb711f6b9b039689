package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/mockexam/internal/llm"
	"github.com/abhisek/mockexam/internal/store"
)

// config is the resolved configuration for one command run.
type config struct {
	DBPath    string
	Lang      string
	LogLevel  string
	LogFormat string
	LogFile   string
	ExportDir string
	LLM       llm.Config
}

// flagKeys maps persistent flag names to their config keys.
var flagKeys = map[string]string{
	"db":         "db",
	"provider":   "llm.provider",
	"model":      "llm.model",
	"lang":       "lang",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// viperForCmd binds a command's flags, the environment and an optional
// config file to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	v.SetEnvPrefix("MOCKEXAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", defaults.Provider)
	v.SetDefault("llm.retry.max_attempts", defaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_delay", defaults.Retry.InitialDelay)
	v.SetDefault("lang", "zh-TW")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("export.dir", ".")

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mockexam")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mockexam")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	}
	return v
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viperForCmd(cmd)

	cfg := &config{
		DBPath:    v.GetString("db"),
		Lang:      v.GetString("lang"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogFile:   v.GetString("log.file"),
		ExportDir: v.GetString("export.dir"),
		LLM:       llm.DefaultConfig(),
	}

	if cfg.DBPath != "" {
		if err := store.EnsureDir(cfg.DBPath); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	}

	cfg.LLM.Provider = strings.ToLower(v.GetString("llm.provider"))
	cfg.LLM.Gemini.APIKey = v.GetString("gemini.api_key")
	cfg.LLM.OpenAI.APIKey = v.GetString("openai.api_key")
	cfg.LLM.Anthropic.APIKey = v.GetString("anthropic.api_key")
	cfg.LLM.OpenRouter.APIKey = v.GetString("openrouter.api_key")
	cfg.LLM.SetModel(v.GetString("llm.model"))
	cfg.LLM.Retry.MaxAttempts = v.GetInt("llm.retry.max_attempts")
	cfg.LLM.Retry.InitialDelay = v.GetDuration("llm.retry.initial_delay")
	cfg.LLM.FillKeysFromEnv()

	return cfg, nil
}

// setupLogging installs the default slog logger. An empty file logs to
// stderr. The returned closer releases the log file.
func setupLogging(level, format, file string) (io.Closer, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(h))
	return closer, nil
}

// tuiLogFile returns the log file used while the TUI owns the terminal.
func (c *config) tuiLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(filepath.Dir(c.DBPath), "mockexam.log")
}

// openStore opens the configured database.
func (c *config) openStore() (*store.Store, error) {
	st, err := store.Open(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
