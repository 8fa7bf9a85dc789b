package logger

import (
	"io"
	"log/slog"
	"os"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger/handlers/slogpretty"
)

// Setup builds the process logger for the given environment name.
func Setup(env string) *slog.Logger {
	return New(env, os.Stdout)
}

func New(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		log = slog.New(opts.NewPrettyHandler(out))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
