package config

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// Level maps a --log-level value to a slog level.
func Level(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogging installs a tint console handler behind slogctx as the default
// logger and returns ctx carrying it.
func SetupLogging(ctx context.Context, w io.Writer, level string, color bool) context.Context {
	h := tint.NewHandler(w, &tint.Options{
		Level:      Level(level),
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	})
	logger := slog.New(slogctx.NewHandler(h, nil))
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger)
}
