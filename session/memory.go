package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/transcript/core/protocol"
)

type memoryTranscript struct {
	id       string
	messages []protocol.Message
	mu       sync.RWMutex
}

// NewMemoryTranscript creates an empty Transcript backed by an in-memory
// slice. The session is assigned a unique UUIDv7 identifier.
func NewMemoryTranscript() Transcript {
	return &memoryTranscript{
		id: uuid.Must(uuid.NewV7()).String(),
	}
}

func (t *memoryTranscript) ID() string {
	return t.id
}

func (t *memoryTranscript) Append(msg protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg.Clone())
}

func (t *memoryTranscript) All() []protocol.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make([]protocol.Message, len(t.messages))
	for i, msg := range t.messages {
		copied[i] = msg.Clone()
	}
	return copied
}

func (t *memoryTranscript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *memoryTranscript) Last() (protocol.Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.messages) == 0 {
		return protocol.Message{}, false
	}
	return t.messages[len(t.messages)-1].Clone(), true
}
