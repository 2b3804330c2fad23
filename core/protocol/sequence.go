package protocol

import (
	"slices"
	"sync/atomic"
	"time"
)

// Sequence allocates message IDs for one session and builds messages with
// them. Every ID it issues is strictly greater than all IDs issued before,
// so a response built after its trigger always sorts after it.
//
// A Sequence is safe for concurrent use.
type Sequence struct {
	last atomic.Uint64
	now  func() time.Time
}

// NewSequence creates a Sequence whose first ID is 1. A nil clock defaults
// to time.Now.
func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{now: now}
}

// Next reserves and returns the next ID.
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}

// Last returns the most recently issued ID, or 0 if none was issued.
func (s *Sequence) Last() uint64 {
	return s.last.Load()
}

// UserText builds a user message carrying text.
func (s *Sequence) UserText(text string) Message {
	return Message{
		ID:        s.Next(),
		Origin:    OriginUser,
		Text:      text,
		CreatedAt: s.now(),
	}
}

// UserAttachments builds a user message carrying a file batch. The
// attachments are copied so the caller keeps no reference into the message.
func (s *Sequence) UserAttachments(text string, attachments []Attachment) Message {
	return Message{
		ID:          s.Next(),
		Origin:      OriginUser,
		Text:        text,
		Attachments: slices.Clone(attachments),
		CreatedAt:   s.now(),
	}
}

// Assistant builds an assistant message. replyTo is the ID of the triggering
// user message, or 0 for unsolicited messages such as a greeting.
func (s *Sequence) Assistant(text string, replyTo uint64) Message {
	return Message{
		ID:        s.Next(),
		Origin:    OriginAssistant,
		Text:      text,
		CreatedAt: s.now(),
		ReplyTo:   replyTo,
	}
}
