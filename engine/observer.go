package engine

import "github.com/tailored-agentic-units/transcript/observability"

// Engine event types.
const (
	EventSessionStart      observability.EventType = "engine.session.start"
	EventSessionClose      observability.EventType = "engine.session.close"
	EventMessageAppend     observability.EventType = "engine.message.append"
	EventInputIgnored      observability.EventType = "engine.input.ignored"
	EventTriggerEnqueue    observability.EventType = "engine.trigger.enqueue"
	EventTriggerRejected   observability.EventType = "engine.trigger.rejected"
	EventTriggerStart      observability.EventType = "engine.trigger.start"
	EventResponse          observability.EventType = "engine.response"
	EventResponseError     observability.EventType = "engine.response.error"
	EventResponseDiscarded observability.EventType = "engine.response.discarded"
)
