// Package protocol defines the transcript data model shared across the
// session, ingest, responder, and engine packages.
package protocol

import (
	"slices"
	"time"
)

// Origin identifies which party authored a transcript message.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Valid reports whether o is one of the two known origins.
func (o Origin) Valid() bool {
	return o == OriginUser || o == OriginAssistant
}

// Message is a single transcript entry. Messages are created once by a
// Sequence and never modified afterwards.
//
// Attachments distinguishes "absent" from "empty": a nil slice marks a plain
// text message, while file-carrying messages always hold at least one entry.
//
// For responses produced by a trigger, ReplyTo carries the ID of the user
// message that requested them.
type Message struct {
	ID          uint64       `json:"id"`
	Origin      Origin       `json:"origin"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ReplyTo     uint64       `json:"reply_to,omitempty"`
}

// HasAttachments reports whether the message carries a file batch.
func (m Message) HasAttachments() bool {
	return m.Attachments != nil
}

// Clone returns a copy of m that shares no attachment storage with it.
func (m Message) Clone() Message {
	m.Attachments = slices.Clone(m.Attachments)
	return m
}
