package observability

import "context"

// MultiObserver delivers each session event to several sinks, such as the
// slog observer and a terminal typing indicator, in the order given.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver combines observers into one. Nil and no-op observers are
// dropped and nested MultiObservers are flattened, so an engine emitting on
// its worker goroutine calls each real sink exactly once.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	flat := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver, *NoOpObserver:
		case *MultiObserver:
			if o != nil {
				flat = append(flat, o.observers...)
			}
		default:
			flat = append(flat, obs)
		}
	}
	return &MultiObserver{observers: flat}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// Len returns the number of sinks events are delivered to.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}
