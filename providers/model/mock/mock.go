package mock

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/leofalp/flowgraph/providers/model"
)

// ErrSimulatedOutage is the error injected by WithFailureRate, used by the
// error-handling tutorials to exercise retry and circuit-breaker paths.
var ErrSimulatedOutage = errors.New("mock: simulated provider outage")

// ToolRouter decides whether the latest user message should trigger a tool
// call. Returning nil means the mock answers with text instead.
type ToolRouter func(userMessage string, tools []model.ToolSpec) *model.ToolCall

// Provider is a deterministic offline stand-in for a chat model. Replies are
// either scripted (WithResponses) or synthesized from the latest user
// message, and tool-call decisions are delegated to a keyword-driven
// ToolRouter so agent loops stay reproducible.
type Provider struct {
	mu           sync.Mutex
	name         string
	scripted     []string
	nextScripted int
	toolRouter   ToolRouter
	failureRate  float64
	minLatency   time.Duration
	maxLatency   time.Duration
	rng          *rand.Rand
}

// Compile-time check that Provider implements model.Provider.
var _ model.Provider = (*Provider)(nil)

// Option configures the mock provider.
type Option func(*Provider)

// WithName sets the reported model name. Default: "flowgraph-mock-1".
func WithName(name string) Option {
	return func(provider *Provider) {
		provider.name = name
	}
}

// WithResponses scripts the replies, returned in order. When the script is
// exhausted the mock falls back to synthesized replies.
func WithResponses(responses ...string) Option {
	return func(provider *Provider) {
		provider.scripted = responses
	}
}

// WithToolRouter installs the tool-call decision function.
func WithToolRouter(router ToolRouter) Option {
	return func(provider *Provider) {
		provider.toolRouter = router
	}
}

// WithFailureRate makes a fraction of calls fail with ErrSimulatedOutage.
// rate is clamped to [0, 1].
func WithFailureRate(rate float64) Option {
	return func(provider *Provider) {
		provider.failureRate = min(max(rate, 0), 1)
	}
}

// WithLatency makes calls sleep a uniform random duration in [minimum,
// maximum] to simulate network time in the parallel-execution demos.
func WithLatency(minimum, maximum time.Duration) Option {
	return func(provider *Provider) {
		provider.minLatency = minimum
		provider.maxLatency = maximum
	}
}

// WithSeed fixes the random source so failure injection and latency are
// reproducible in tests.
func WithSeed(seed uint64) Option {
	return func(provider *Provider) {
		provider.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// New creates a mock provider. Without options it answers instantly, never
// fails, and never calls tools.
func New(opts ...Option) *Provider {
	provider := &Provider{
		name: "flowgraph-mock-1",
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// Name returns the mock's model identifier.
func (provider *Provider) Name() string {
	return provider.name
}

// Send produces one reply. Scripted responses are consumed first; otherwise
// the tool router is consulted, and finally a reply is synthesized from the
// latest user message.
func (provider *Provider) Send(ctx context.Context, request model.Request) (*model.Response, error) {
	if err := provider.simulateCall(ctx); err != nil {
		return nil, err
	}

	userMessage := latestUserMessage(request.Messages)

	if scripted, ok := provider.takeScripted(); ok {
		return provider.respond(request, scripted, nil), nil
	}

	// Once a tool result is in the history the model answers from it
	// instead of requesting the same tool again.
	if provider.toolRouter != nil && len(request.Tools) > 0 && !hasToolResult(request.Messages) {
		if call := provider.toolRouter(userMessage, request.Tools); call != nil {
			return provider.respond(request, "", call), nil
		}
	}

	return provider.respond(request, synthesizeReply(request, userMessage), nil), nil
}

// Stream produces the same reply as Send, yielded word by word.
func (provider *Provider) Stream(ctx context.Context, request model.Request) iter.Seq2[model.Chunk, error] {
	return func(yield func(model.Chunk, error) bool) {
		response, err := provider.Send(ctx, request)
		if err != nil {
			yield(model.Chunk{}, err)
			return
		}

		words := strings.Fields(response.Content)
		for index, word := range words {
			if err := ctx.Err(); err != nil {
				yield(model.Chunk{}, err)
				return
			}

			chunk := word
			if index < len(words)-1 {
				chunk += " "
			}

			if !yield(model.Chunk{Content: chunk}, nil) {
				return
			}
		}
	}
}

// simulateCall applies latency and failure injection.
func (provider *Provider) simulateCall(ctx context.Context) error {
	provider.mu.Lock()
	var delay time.Duration
	if provider.maxLatency > 0 {
		spread := provider.maxLatency - provider.minLatency
		delay = provider.minLatency
		if spread > 0 {
			delay += time.Duration(provider.rng.Int64N(int64(spread)))
		}
	}
	fail := provider.failureRate > 0 && provider.rng.Float64() < provider.failureRate
	provider.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if fail {
		return ErrSimulatedOutage
	}

	return nil
}

// takeScripted pops the next scripted reply, if any remain.
func (provider *Provider) takeScripted() (string, bool) {
	provider.mu.Lock()
	defer provider.mu.Unlock()

	if provider.nextScripted >= len(provider.scripted) {
		return "", false
	}

	reply := provider.scripted[provider.nextScripted]
	provider.nextScripted++
	return reply, true
}

// respond assembles a Response with word-count token accounting.
func (provider *Provider) respond(request model.Request, content string, call *model.ToolCall) *model.Response {
	inputTokens := 0
	for _, message := range request.Messages {
		inputTokens += len(strings.Fields(message.Content))
	}

	response := &model.Response{
		Content: content,
		Model:   provider.name,
		Usage: model.Usage{
			InputTokens:  inputTokens,
			OutputTokens: len(strings.Fields(content)),
		},
	}

	if call != nil {
		response.ToolCalls = []model.ToolCall{*call}
	}

	return response
}

// hasToolResult reports whether a tool result follows the latest user
// message.
func hasToolResult(messages []model.Message) bool {
	for index := len(messages) - 1; index >= 0; index-- {
		switch messages[index].Role {
		case model.RoleUser:
			return false
		case model.RoleTool:
			return true
		}
	}
	return false
}

// latestUserMessage returns the content of the most recent RoleUser message.
func latestUserMessage(messages []model.Message) string {
	for index := len(messages) - 1; index >= 0; index-- {
		if messages[index].Role == model.RoleUser {
			return messages[index].Content
		}
	}
	return ""
}

// synthesizeReply fabricates a plausible answer. Tool results in the
// history are echoed back so agent loops terminate with a grounded answer.
func synthesizeReply(request model.Request, userMessage string) string {
	for index := len(request.Messages) - 1; index >= 0; index-- {
		message := request.Messages[index]
		if message.Role == model.RoleUser {
			break
		}
		if message.Role == model.RoleTool {
			return fmt.Sprintf("Based on the %s tool: %s", message.ToolName, message.Content)
		}
	}

	if userMessage == "" {
		return "Hello! How can I help you today?"
	}

	return fmt.Sprintf("Here is my take on %q: this is a mock answer produced offline for demonstration purposes.", userMessage)
}
