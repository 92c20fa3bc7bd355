package memory

import (
	"sync"

	"github.com/leofalp/flowgraph/providers/model"
)

// Buffer is a concurrency-safe short-term conversation store. It uses
// RWMutex to guard access and is efficient for read-heavy workloads.
type Buffer struct {
	mu       sync.RWMutex
	messages []model.Message
}

// NewBuffer returns a new, empty [Buffer] ready for immediate use.
func NewBuffer() *Buffer {
	return &Buffer{
		messages: []model.Message{},
	}
}

// Append stores message at the end of the history.
func (buffer *Buffer) Append(message model.Message) {
	buffer.mu.Lock()
	buffer.messages = append(buffer.messages, message)
	buffer.mu.Unlock()
}

// Len returns the number of messages stored.
func (buffer *Buffer) Len() int {
	buffer.mu.RLock()
	defer buffer.mu.RUnlock()
	return len(buffer.messages)
}

// All returns a copy of all messages to avoid external mutation of internal
// state. The returned slice is always non-nil.
func (buffer *Buffer) All() []model.Message {
	buffer.mu.RLock()
	defer buffer.mu.RUnlock()

	out := make([]model.Message, len(buffer.messages))
	copy(out, buffer.messages)
	return out
}

// Last returns up to the last n messages as a new, independent slice.
// If n exceeds the total number of stored messages, all messages are
// returned. Returns an empty, non-nil slice when n is zero or negative.
func (buffer *Buffer) Last(n int) []model.Message {
	if n <= 0 {
		return []model.Message{}
	}

	buffer.mu.RLock()
	defer buffer.mu.RUnlock()

	if n > len(buffer.messages) {
		n = len(buffer.messages)
	}

	out := make([]model.Message, n)
	copy(out, buffer.messages[len(buffer.messages)-n:])
	return out
}

// Clear removes all messages while retaining the underlying slice capacity,
// so subsequent appends do not immediately trigger a reallocation.
func (buffer *Buffer) Clear() {
	buffer.mu.Lock()
	buffer.messages = buffer.messages[:0]
	buffer.mu.Unlock()
}
