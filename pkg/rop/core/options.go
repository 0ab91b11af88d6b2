package core

import "context"

type OptionKey string

const (
	ProcessOptionKey OptionKey = "process_options"
	WorkerOptionKey  OptionKey = "worker_options"
)

type WorkerOptions struct {
	MaxCount int
}

// ProcessOptions controls what happens to queued work on cancellation:
// with ProcessRemaining every queued job is still reported, as cancelled.
type ProcessOptions struct {
	ProcessRemaining bool
}

func WithProcessOptions(ctx context.Context, processRemaining bool) context.Context {
	return context.WithValue(ctx, ProcessOptionKey, ProcessOptions{ProcessRemaining: processRemaining})
}

func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxCount: maxWorkers})
}

// GetWorkerMaxCount returns the configured worker count, or def when none
// (or a non-positive one) is set.
func GetWorkerMaxCount(ctx context.Context, def int) int {
	if options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions); ok && options.MaxCount > 0 {
		return options.MaxCount
	}
	return def
}

func IsProcessRemainingEnabled(ctx context.Context, def bool) bool {
	if options, ok := ctx.Value(ProcessOptionKey).(ProcessOptions); ok {
		return options.ProcessRemaining
	}
	return def
}
