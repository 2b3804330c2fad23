// Package ingest turns uploaded file batches into transcript attachments.
//
// The transforms here are pure: mapping an entry can never fail. Appending
// the resulting message and requesting a response is the engine's job.
package ingest

import (
	"fmt"

	"github.com/tailored-agentic-units/transcript/core/protocol"
)

// Attachments maps every raw entry to an Attachment, preserving order and
// duplicates. It returns nil for an empty batch.
func Attachments(entries []protocol.RawEntry) []protocol.Attachment {
	if len(entries) == 0 {
		return nil
	}

	attachments := make([]protocol.Attachment, len(entries))
	for i, entry := range entries {
		attachments[i] = protocol.NewAttachment(entry)
	}
	return attachments
}

// Summary returns the user-visible text for a batch of n entries.
func Summary(n int) string {
	return fmt.Sprintf("Uploaded %d file(s)", n)
}
