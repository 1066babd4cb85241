package core

import (
	"context"
	"io"
	"log/slog"
	"time"
)

type OptionKey string

const (
	WorkerOptionKey  OptionKey = "worker_options"
	TimeoutOptionKey OptionKey = "timeout_options"
	LoggerOptionKey  OptionKey = "logger_options"
)

type MaxLimitOption struct {
	Value int
}

type WorkerOptions struct {
	MaxCount MaxLimitOption
}

type TimeoutOptions struct {
	Idle time.Duration
}

func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxLimitOption{Value: maxWorkers}})
}

// GetWorkerMaxCount returns the worker count stored in ctx, or
// defaultMaxWorkers when none (or a non-positive one) was set.
func GetWorkerMaxCount(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok && options.MaxCount.Value > 0 {
		return options.MaxCount.Value
	}
	return defaultMaxWorkers
}

func WithTimeoutOptions(ctx context.Context, idle time.Duration) context.Context {
	return context.WithValue(ctx, TimeoutOptionKey, TimeoutOptions{Idle: idle})
}

func GetIdleTimeout(ctx context.Context, defaultIdle time.Duration) time.Duration {
	options, ok := ctx.Value(TimeoutOptionKey).(TimeoutOptions)
	if ok {
		return options.Idle
	}
	return defaultIdle
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerOptionKey, logger)
}

// Logger returns the logger carried by ctx. Library code logs nothing
// unless a caller installed one.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerOptionKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}
