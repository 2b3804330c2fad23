package observability

import "context"

// NoOpObserver drops session events. It is registered as "noop" for
// sessions configured without logging, and NewMultiObserver leaves it out.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
