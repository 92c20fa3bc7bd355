package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/flowgraph/providers/model"
)

// Tool is the provider-agnostic interface all tools implement. It abstracts
// over the concrete generic parameters of [FuncTool] so tools can be stored
// and dispatched without knowing their input/output types.
type Tool interface {
	// Spec returns the metadata advertised to the model.
	Spec() model.ToolSpec

	// Call invokes the tool with a JSON-encoded input and returns a
	// JSON-encoded output.
	Call(ctx context.Context, argsJSON string) (string, error)
}

// FuncTool binds a name and description to a strongly-typed Go function and
// handles the JSON boundary on both sides. Model-supplied argument JSON is
// repaired before decoding, because language models routinely emit almost-
// valid JSON (trailing commas, single quotes, unquoted keys).
type FuncTool[I, O any] struct {
	name        string
	description string
	fn          func(ctx context.Context, input I) (O, error)
}

// New constructs a typed tool from a function.
//
// Example:
//
//	calculator := tools.New("calculator",
//	    "Performs basic arithmetic on two operands.",
//	    Calc,
//	)
func New[I, O any](name, description string, fn func(ctx context.Context, input I) (O, error)) *FuncTool[I, O] {
	return &FuncTool[I, O]{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// Spec returns the tool metadata advertised to the model.
func (tool *FuncTool[I, O]) Spec() model.ToolSpec {
	return model.ToolSpec{
		Name:        tool.name,
		Description: tool.description,
	}
}

// Call decodes argsJSON into I (repairing malformed JSON first), executes
// the function, and returns the output marshaled as JSON.
func (tool *FuncTool[I, O]) Call(ctx context.Context, argsJSON string) (string, error) {
	input, err := DecodeArgs[I](argsJSON)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", tool.name, err)
	}

	output, err := tool.fn(ctx, input)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", tool.name, err)
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("tool %q: encode output: %w", tool.name, err)
	}

	return string(encoded), nil
}

// DecodeArgs decodes a JSON argument string into T, first attempting a
// strict decode and falling back to jsonrepair for almost-valid input.
// An empty string decodes to the zero value.
func DecodeArgs[T any](argsJSON string) (T, error) {
	var input T

	if argsJSON == "" {
		return input, nil
	}

	if err := json.Unmarshal([]byte(argsJSON), &input); err == nil {
		return input, nil
	}

	repaired, err := jsonrepair.JSONRepair(argsJSON)
	if err != nil {
		return input, fmt.Errorf("decode arguments: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), &input); err != nil {
		return input, fmt.Errorf("decode arguments: %w", err)
	}

	return input, nil
}

// Registry is a concurrency-safe collection of tools keyed by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry(tools ...Tool) *Registry {
	registry := &Registry{
		tools: make(map[string]Tool),
	}
	for _, tool := range tools {
		registry.Register(tool)
	}
	return registry
}

// Register adds or replaces a tool under its spec name.
func (registry *Registry) Register(tool Tool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.tools[tool.Spec().Name] = tool
}

// Get returns the tool registered under name.
func (registry *Registry) Get(name string) (Tool, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	tool, exists := registry.tools[name]
	return tool, exists
}

// Call dispatches a model tool call to the registered tool.
func (registry *Registry) Call(ctx context.Context, call model.ToolCall) (string, error) {
	tool, exists := registry.Get(call.Name)
	if !exists {
		return "", fmt.Errorf("tools: unknown tool %q", call.Name)
	}

	return tool.Call(ctx, call.Arguments)
}

// Specs returns the specs of all registered tools, sorted by name for
// deterministic prompts.
func (registry *Registry) Specs() []model.ToolSpec {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	specs := make([]model.ToolSpec, 0, len(registry.tools))
	for _, tool := range registry.tools {
		specs = append(specs, tool.Spec())
	}

	sort.Slice(specs, func(left, right int) bool {
		return specs[left].Name < specs[right].Name
	})

	return specs
}
