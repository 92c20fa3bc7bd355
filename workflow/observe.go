package workflow

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope reported on emitted spans.
const tracerName = "github.com/leofalp/flowgraph/workflow"

// tracer resolves the configured tracer, falling back to the global
// provider. The global provider is a no-op unless the application installed
// one, so tracing costs nothing when unused.
func (graph *CompiledGraph[S]) tracer() trace.Tracer {
	if graph.config.tracer != nil {
		return graph.config.tracer
	}
	return otel.Tracer(tracerName)
}

// startRunSpan opens the root span for one graph run.
func (graph *CompiledGraph[S]) startRunSpan(ctx context.Context, startNode string) (context.Context, trace.Span) {
	return graph.tracer().Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("workflow.entry_node", startNode),
			attribute.Int("workflow.max_steps", graph.config.maxSteps),
		),
	)
}

// startNodeSpan opens a child span for a single node execution.
func (graph *CompiledGraph[S]) startNodeSpan(ctx context.Context, node string, step int) (context.Context, trace.Span) {
	return graph.tracer().Start(ctx, "workflow.node",
		trace.WithAttributes(
			attribute.String("workflow.node", node),
			attribute.Int("workflow.step", step),
		),
	)
}

// endNodeSpan records the node outcome and closes its span.
func (graph *CompiledGraph[S]) endNodeSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// failRun records the error on the run span and returns it unchanged,
// keeping the call sites in the run loop compact.
func (graph *CompiledGraph[S]) failRun(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
