// Package responder defines the boundary between a session and the service
// that writes assistant replies.
//
// The session engine treats a Responder as opaque: given a Request derived
// from a user message it eventually returns a Response or fails with
// ErrTimeout or ErrFailed. Implementations include a local Demo responder and
// a Connect RPC client for remote responders.
package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/transcript/core/protocol"
)

// Request is what a responder receives for one trigger.
type Request struct {
	Text              string `json:"text"`
	AttachmentSummary string `json:"attachment_summary,omitempty"`
	AttachmentCount   int    `json:"attachment_count,omitempty"`
}

// Response carries the assistant reply text.
type Response struct {
	Text string `json:"text"`
}

// Responder produces assistant replies. Respond may block until the reply
// is ready; callers bound it with ctx.
type Responder interface {
	Respond(ctx context.Context, req Request) (Response, error)
}

// Func adapts an ordinary function to the Responder interface.
type Func func(ctx context.Context, req Request) (Response, error)

func (f Func) Respond(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// RequestFor derives the responder request for a triggering message. File
// messages list each attachment as "name (kind)".
func RequestFor(msg protocol.Message) Request {
	req := Request{Text: msg.Text}
	if !msg.HasAttachments() {
		return req
	}

	parts := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		parts[i] = fmt.Sprintf("%s (%s)", a.Name, a.Kind)
	}
	req.AttachmentSummary = strings.Join(parts, ", ")
	req.AttachmentCount = len(msg.Attachments)
	return req
}
