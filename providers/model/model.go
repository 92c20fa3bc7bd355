package model

import (
	"context"
	"iter"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem carries instructions that frame the conversation.
	RoleSystem Role = "system"

	// RoleUser carries end-user input.
	RoleUser Role = "user"

	// RoleAssistant carries model output.
	RoleAssistant Role = "assistant"

	// RoleTool carries the result of a tool execution fed back to the model.
	RoleTool Role = "tool"
)

// Message is a single conversation turn.
type Message struct {
	// Role is the author of the message.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// ToolName names the tool that produced this message.
	// Set only for RoleTool messages.
	ToolName string `json:"tool_name,omitempty"`
}

// ToolSpec describes a tool offered to the model in a request.
type ToolSpec struct {
	// Name is the unique tool name.
	Name string `json:"name"`

	// Description tells the model what the tool does and when to use it.
	Description string `json:"description"`
}

// ToolCall is the model's decision to invoke a tool.
type ToolCall struct {
	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments is the JSON-encoded tool input.
	Arguments string `json:"arguments"`
}

// Usage reports the token accounting of one model call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Request is one model invocation: the conversation so far plus the tools
// the model may call.
type Request struct {
	// Messages is the conversation history, oldest first.
	Messages []Message `json:"messages"`

	// Tools lists the tools available to the model. Empty means plain chat.
	Tools []ToolSpec `json:"tools,omitempty"`
}

// Response is the model's reply to a Request. When ToolCalls is non-empty
// the caller is expected to execute the tools and send a follow-up request
// with the results appended as RoleTool messages.
type Response struct {
	// Content is the assistant text. Empty when the model chose to call
	// tools instead.
	Content string `json:"content"`

	// ToolCalls lists the tools the model wants invoked.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Model names the model that produced the response.
	Model string `json:"model"`

	// Usage is the token accounting for this call.
	Usage Usage `json:"usage"`
}

// Chunk is one fragment of a streamed response.
type Chunk struct {
	// Content is the text delta.
	Content string `json:"content"`
}

// Provider is a chat model backend. The tutorials run against the mock
// implementation; the interface keeps the workflows provider-agnostic so a
// real backend can be dropped in without touching the graphs.
type Provider interface {
	// Name returns the provider's model identifier.
	Name() string

	// Send performs one blocking model call.
	Send(ctx context.Context, request Request) (*Response, error)

	// Stream performs one model call, yielding the reply as content chunks.
	Stream(ctx context.Context, request Request) iter.Seq2[Chunk, error]
}
