package engine

import "errors"

var (
	// ErrInvalidInput describes an empty or whitespace-only text submission.
	// SubmitText treats such input as a silent no-op and never returns it;
	// it is exported for front ends that want to reject input themselves.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConcurrentTrigger is returned in strict mode when a submission
	// arrives while an earlier trigger is still unresolved.
	ErrConcurrentTrigger = errors.New("trigger while awaiting response")

	// ErrSessionClosed is returned for submissions after Close.
	ErrSessionClosed = errors.New("session closed")

	// ErrEmptyResponse marks a responder reply with no text.
	ErrEmptyResponse = errors.New("empty response")
)
