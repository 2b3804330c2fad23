// Package engine runs a conversational session: it accepts user text and
// file batches, appends them to the transcript, and requests an assistant
// reply for each one without blocking the caller.
//
// Replies are produced by a single worker goroutine that services triggers
// in submission order, so every reply lands after its own user message and
// before the reply to any later message. While a reply is outstanding the
// session keeps accepting input; new triggers queue behind the current one.
//
//	s, err := engine.New(&cfg)
//	defer s.Close()
//	s.SubmitText(ctx, "hello")
//	s.WaitIdle(ctx)
//	msgs := s.Transcript()
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/transcript/core/protocol"
	"github.com/tailored-agentic-units/transcript/ingest"
	"github.com/tailored-agentic-units/transcript/observability"
	"github.com/tailored-agentic-units/transcript/responder"
	"github.com/tailored-agentic-units/transcript/session"
)

// Option configures a Session after config-driven initialization.
type Option func(*Session)

// WithResponder overrides the config-created responder.
func WithResponder(r responder.Responder) Option {
	return func(s *Session) { s.responder = r }
}

// WithRegistry creates the config-selected responder from r instead of the
// built-in registry. Ignored when WithResponder is also given.
func WithRegistry(r *responder.Registry) Option {
	return func(s *Session) { s.registry = r }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithLogger sends events to logger through a SlogObserver.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.observer = observability.NewSlogObserver(logger) }
}

// WithClock overrides the clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one live conversation. All methods are safe for concurrent use.
type Session struct {
	seq        *protocol.Sequence
	transcript session.Transcript
	responder  responder.Responder
	registry   *responder.Registry
	observer   observability.Observer
	now        func() time.Time

	minLatency      time.Duration
	responseTimeout time.Duration
	failureText     string
	strict          bool

	mu      sync.Mutex
	queue   []protocol.Message // unresolved triggers; queue[0] is being answered
	pending *PendingResponse
	idle    chan struct{} // closed whenever queue is empty
	closed  bool
	wake    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Session from configuration and starts its response worker.
// Subsystems not overridden by options are built from their config
// sections.
func New(cfg *Config, opts ...Option) (*Session, error) {
	s := &Session{
		now:             time.Now,
		minLatency:      cfg.MinLatency.Std(),
		responseTimeout: cfg.ResponseTimeout.Std(),
		failureText:     cfg.FailureText,
		strict:          cfg.StrictTriggers,
		idle:            closedChannel(),
		wake:            make(chan struct{}, 1),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.failureText == "" {
		s.failureText = DefaultFailureText
	}

	s.seq = protocol.NewSequence(s.now)

	transcript, err := session.New(&cfg.Session, s.seq)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.transcript = transcript

	if s.responder == nil {
		registry := s.registry
		if registry == nil {
			registry = responder.NewRegistry()
		}
		r, err := registry.Create(&cfg.Responder)
		if err != nil {
			return nil, fmt.Errorf("failed to create responder: %w", err)
		}
		s.responder = r
	}

	if s.observer == nil {
		name := cfg.Observer
		if name == "" {
			name = defaultObserver
		}
		obs, err := observability.GetObserver(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create observer: %w", err)
		}
		s.observer = obs
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.run()

	s.emit(s.ctx, EventSessionStart, observability.LevelInfo, "engine.New", map[string]any{
		"messages":    s.transcript.Len(),
		"min_latency": s.minLatency.String(),
		"strict":      s.strict,
	})

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.transcript.ID()
}

// Transcript returns a snapshot of the session's messages in order.
func (s *Session) Transcript() []protocol.Message {
	return s.transcript.All()
}

// SubmitText appends a user text message and requests a reply. Input that
// is empty after trimming is ignored: nothing is appended and ok is false.
// The stored text is the input as given.
func (s *Session) SubmitText(ctx context.Context, text string) (msg protocol.Message, ok bool, err error) {
	if strings.TrimSpace(text) == "" {
		s.emit(ctx, EventInputIgnored, observability.LevelVerbose, "engine.SubmitText", map[string]any{
			"reason": "empty text",
		})
		return protocol.Message{}, false, nil
	}

	return s.submit(ctx, "engine.SubmitText", func() protocol.Message {
		return s.seq.UserText(text)
	})
}

// Ingest appends one user message carrying every entry of the batch as an
// attachment and requests a reply. An empty batch is ignored: nothing is
// appended and ok is false.
func (s *Session) Ingest(ctx context.Context, entries []protocol.RawEntry) (msg protocol.Message, ok bool, err error) {
	attachments := ingest.Attachments(entries)
	if attachments == nil {
		s.emit(ctx, EventInputIgnored, observability.LevelVerbose, "engine.Ingest", map[string]any{
			"reason": "empty batch",
		})
		return protocol.Message{}, false, nil
	}

	return s.submit(ctx, "engine.Ingest", func() protocol.Message {
		return s.seq.UserAttachments(ingest.Summary(len(attachments)), attachments)
	})
}

// State reports whether a reply is outstanding.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) > 0 {
		return StateAwaiting
	}
	return StateIdle
}

// Pending returns the trigger currently being answered, if any.
func (s *Session) Pending() (PendingResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return PendingResponse{}, false
	}
	return *s.pending, true
}

// QueueLength returns the number of unresolved triggers, including the one
// being answered.
func (s *Session) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// WaitIdle blocks until no trigger is pending or queued, the session is
// closed, or ctx is done.
func (s *Session) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the session. The outstanding request is cancelled, queued
// triggers are dropped, and any reply that still arrives is discarded.
// Further submissions fail with ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	dropped := len(s.queue)
	s.queue = nil
	s.pending = nil
	closeIdle(s.idle)
	s.mu.Unlock()

	s.cancel()

	s.emit(context.Background(), EventSessionClose, observability.LevelInfo, "engine.Close", map[string]any{
		"messages":         s.transcript.Len(),
		"dropped_triggers": dropped,
	})
	return nil
}

// Done is closed once the response worker has exited after Close.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) submit(ctx context.Context, source string, build func() protocol.Message) (protocol.Message, bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return protocol.Message{}, false, ErrSessionClosed
	}
	if s.strict && len(s.queue) > 0 {
		pendingID := s.queue[0].ID
		s.mu.Unlock()
		s.emit(ctx, EventTriggerRejected, observability.LevelError, source, map[string]any{
			"pending_trigger": pendingID,
		})
		return protocol.Message{}, false, fmt.Errorf("%w: trigger %d unresolved", ErrConcurrentTrigger, pendingID)
	}

	msg := build()
	s.transcript.Append(msg)
	queued := s.enqueue(msg)
	s.mu.Unlock()

	s.emit(ctx, EventMessageAppend, observability.LevelVerbose, source, map[string]any{
		"id":          msg.ID,
		"origin":      string(msg.Origin),
		"attachments": len(msg.Attachments),
	})
	s.emit(ctx, EventTriggerEnqueue, observability.LevelVerbose, source, map[string]any{
		"trigger_id": msg.ID,
		"queued":     queued,
	})

	return msg, true, nil
}

// enqueue adds a trigger and wakes the worker. Callers hold s.mu.
func (s *Session) enqueue(msg protocol.Message) int {
	if len(s.queue) == 0 {
		s.idle = make(chan struct{})
		s.pending = &PendingResponse{TriggerID: msg.ID, Since: s.now()}
	}
	s.queue = append(s.queue, msg)

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return len(s.queue)
}

// closeIdle closes ch if it is open. Callers hold s.mu.
func closeIdle(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}

func (s *Session) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.ctx.Done():
				return
			}
		}
		trigger := s.queue[0]
		s.mu.Unlock()

		text, err := s.request(trigger)
		s.resolve(trigger, text, err)
	}
}

// request asks the responder for a reply to trigger and holds the result
// until the latency floor has passed.
func (s *Session) request(trigger protocol.Message) (string, error) {
	start := time.Now()

	s.emit(s.ctx, EventTriggerStart, observability.LevelVerbose, "engine.worker", map[string]any{
		"trigger_id":  trigger.ID,
		"attachments": len(trigger.Attachments),
	})

	ctx := s.ctx
	if s.responseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, s.responseTimeout)
		defer cancel()
	}

	resp, err := s.call(ctx, responder.RequestFor(trigger))
	err = responder.Classify(err)
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = fmt.Errorf("%w: %w", responder.ErrFailed, ErrEmptyResponse)
	}

	if wait := s.minLatency - time.Since(start); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			timer.Stop()
		}
	}

	return resp.Text, err
}

type outcome struct {
	resp responder.Response
	err  error
}

// call runs the responder on its own goroutine and gives up when ctx is
// done, so a responder that ignores ctx cannot hold the worker past the
// timeout or past Close. The abandoned call's result is dropped.
func (s *Session) call(ctx context.Context, req responder.Request) (responder.Response, error) {
	done := make(chan outcome, 1)
	go func() {
		resp, err := s.responder.Respond(ctx, req)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case out := <-done:
		return out.resp, out.err
	case <-ctx.Done():
		return responder.Response{}, ctx.Err()
	}
}

// resolve appends the reply for trigger, or the failure text when err is
// set, and advances the queue. Replies for a closed session are dropped.
func (s *Session) resolve(trigger protocol.Message, text string, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.emit(context.Background(), EventResponseDiscarded, observability.LevelWarning, "engine.worker", map[string]any{
			"trigger_id": trigger.ID,
		})
		return
	}

	if err != nil {
		text = s.failureText
	}
	reply := s.seq.Assistant(text, trigger.ID)
	s.transcript.Append(reply)

	// The idle channel is released only after the events below are
	// emitted, so WaitIdle callers observe them.
	var settled chan struct{}
	s.queue[0] = protocol.Message{}
	s.queue = s.queue[1:]
	if len(s.queue) > 0 {
		s.pending = &PendingResponse{TriggerID: s.queue[0].ID, Since: s.now()}
	} else {
		s.queue = nil
		s.pending = nil
		settled = s.idle
	}
	remaining := len(s.queue)
	s.mu.Unlock()

	if err != nil {
		s.emit(s.ctx, EventResponseError, observability.LevelWarning, "engine.worker", map[string]any{
			"trigger_id": trigger.ID,
			"reply_id":   reply.ID,
			"error":      err.Error(),
		})
	} else {
		s.emit(s.ctx, EventResponse, observability.LevelInfo, "engine.worker", map[string]any{
			"trigger_id":      trigger.ID,
			"reply_id":        reply.ID,
			"response_length": len(text),
		})
	}
	s.emit(s.ctx, EventMessageAppend, observability.LevelVerbose, "engine.worker", map[string]any{
		"id":        reply.ID,
		"origin":    string(reply.Origin),
		"remaining": remaining,
	})

	if settled != nil {
		s.mu.Lock()
		closeIdle(settled)
		s.mu.Unlock()
	}
}

func (s *Session) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: s.now(),
		Source:    source,
		SessionID: s.transcript.ID(),
		Data:      data,
	})
}

func closedChannel() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
