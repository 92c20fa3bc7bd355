package workflow

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// defaultMaxSteps bounds runaway loops in cyclic graphs. Tutorial graphs
// rarely exceed a few dozen steps; hitting this limit almost always means a
// router never routes to End.
const defaultMaxSteps = 100

// runConfig holds the execution configuration of a compiled graph,
// populated by Options at Compile time.
type runConfig struct {
	// maxSteps is the maximum number of node executions per run.
	maxSteps int

	// executionTimeout bounds the wall-clock duration of a run.
	// Zero means no timeout.
	executionTimeout time.Duration

	// checkpointer persists state snapshots between steps. Nil disables
	// checkpointing (and with it interrupt/resume across processes).
	checkpointer Checkpointer

	// tracer emits a span per run and per node execution.
	tracer trace.Tracer

	// logger receives structured step-level logs.
	logger *slog.Logger
}

func newRunConfig() *runConfig {
	return &runConfig{
		maxSteps: defaultMaxSteps,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Option is a functional option applied at Compile time.
type Option func(*runConfig)

// WithMaxSteps overrides the per-run step limit. A run that executes more
// than limit nodes fails with ErrMaxSteps.
func WithMaxSteps(limit int) Option {
	return func(config *runConfig) {
		if limit > 0 {
			config.maxSteps = limit
		}
	}
}

// WithExecutionTimeout bounds the wall-clock duration of a run. When the
// timeout elapses the run context is canceled and the current node receives
// the cancellation. Zero (the default) means no timeout.
func WithExecutionTimeout(timeout time.Duration) Option {
	return func(config *runConfig) {
		config.executionTimeout = timeout
	}
}

// WithCheckpointer enables state persistence. A checkpoint is saved after
// every completed node and on interrupt, keyed by the run's thread ID
// (see WithThreadID). Use NewMemorySaver for in-process persistence or the
// sqlitesaver subpackage for durable checkpoints.
func WithCheckpointer(saver Checkpointer) Option {
	return func(config *runConfig) {
		config.checkpointer = saver
	}
}

// WithTracer sets the OpenTelemetry tracer used to emit run and node spans.
// Without it the graph uses the globally registered tracer provider, which
// is a no-op unless the application installed one.
func WithTracer(tracer trace.Tracer) Option {
	return func(config *runConfig) {
		config.tracer = tracer
	}
}

// WithLogger sets the slog logger for step-level logs. Logging is disabled
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(config *runConfig) {
		if logger != nil {
			config.logger = logger
		}
	}
}

// runOptions holds per-invocation settings.
type runOptions struct {
	// threadID groups the checkpoints of one logical conversation or job.
	threadID string
}

// RunOption is a functional option applied per Invoke/Stream call.
type RunOption func(*runOptions)

// WithThreadID sets the thread ID under which checkpoints are saved.
// Required for Resume. When omitted and a checkpointer is configured,
// a random UUID-based thread ID is generated for the run.
func WithThreadID(threadID string) RunOption {
	return func(options *runOptions) {
		options.threadID = threadID
	}
}
