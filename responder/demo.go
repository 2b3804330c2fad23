package responder

import (
	"context"
	"fmt"
	"time"
)

// Canned replies of the demo responder.
const (
	DemoTextReply = "Thanks for your message! This is a demo response from the chatbot."
	demoFileReply = "Received %d file(s). Here's what I found:"
)

// Demo answers every request with a fixed reply. Text messages get
// DemoTextReply; file batches get an acknowledgement naming the count.
type Demo struct {
	Delay time.Duration // Simulated generation time; honours ctx.
}

func (d Demo) Respond(ctx context.Context, req Request) (Response, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return Response{}, Classify(ctx.Err())
		}
	}

	if req.AttachmentCount > 0 {
		return Response{Text: fmt.Sprintf(demoFileReply, req.AttachmentCount)}, nil
	}
	return Response{Text: DemoTextReply}, nil
}
