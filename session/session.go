// Package session holds the transcript of a single conversation.
package session

import (
	"github.com/tailored-agentic-units/transcript/core/protocol"
)

// Transcript is the append-only, ordered log of a session's messages.
// Insertion order is display order. Implementations must be safe for
// concurrent use.
type Transcript interface {
	// ID returns the unique session identifier.
	ID() string
	// Append adds a message to the end of the transcript. It is the only
	// mutator; messages are never updated or removed.
	Append(msg protocol.Message)
	// All returns a snapshot of the transcript. Later appends are not
	// reflected in a snapshot already handed out.
	All() []protocol.Message
	// Len returns the number of messages appended so far.
	Len() int
	// Last returns the most recent message, if any.
	Last() (protocol.Message, bool)
}
