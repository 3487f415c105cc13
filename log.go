package main

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func slogErr(err error) slog.Attr {
	return slog.Any("err", err)
}

func parseLevel(str string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(str)); err != nil {
		return slog.LevelInfo
	}
	return level
}
