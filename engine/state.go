package engine

import "time"

// State is the response protocol state of a session.
type State int

const (
	// StateIdle means no trigger is pending or queued.
	StateIdle State = iota
	// StateAwaiting means a response has been requested and not yet
	// appended.
	StateAwaiting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaiting:
		return "AWAITING_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// PendingResponse records the trigger currently being answered.
type PendingResponse struct {
	TriggerID uint64
	Since     time.Time
}
