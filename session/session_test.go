package session_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/transcript/core/protocol"
	"github.com/tailored-agentic-units/transcript/session"
)

func TestNewMemoryTranscript(t *testing.T) {
	tr := session.NewMemoryTranscript()

	if tr.ID() == "" {
		t.Error("session ID should not be empty")
	}
	if len(tr.All()) != 0 {
		t.Errorf("new transcript should have 0 messages, got %d", len(tr.All()))
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last on empty transcript should report false")
	}
}

func TestTranscript_ID_Unique(t *testing.T) {
	t1 := session.NewMemoryTranscript()
	t2 := session.NewMemoryTranscript()

	if t1.ID() == t2.ID() {
		t.Errorf("two transcripts should have different IDs, both got %q", t1.ID())
	}
}

func TestTranscript_ID_Stable(t *testing.T) {
	tr := session.NewMemoryTranscript()

	if tr.ID() != tr.ID() {
		t.Error("same transcript returned different IDs")
	}
}

func TestTranscript_Append_And_All(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)

	tr.Append(seq.UserAttachments("Uploaded 2 file(s)", []protocol.Attachment{
		{Name: "a.txt", Kind: "text/plain"},
		{Name: "docs", Kind: protocol.KindFolder},
	}))

	msgs := tr.All()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}

	got := msgs[0]
	if got.Origin != protocol.OriginUser {
		t.Errorf("got origin %q, want %q", got.Origin, protocol.OriginUser)
	}
	if got.Text != "Uploaded 2 file(s)" {
		t.Errorf("got text %q, want %q", got.Text, "Uploaded 2 file(s)")
	}
	if len(got.Attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(got.Attachments))
	}
	if got.Attachments[1].Kind != protocol.KindFolder {
		t.Errorf("got kind %q, want %q", got.Attachments[1].Kind, protocol.KindFolder)
	}
}

func TestTranscript_All_Order(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)

	texts := []string{"greeting", "hello", "reply", "again"}
	for i, text := range texts {
		if i%2 == 0 {
			tr.Append(seq.Assistant(text, 0))
		} else {
			tr.Append(seq.UserText(text))
		}
	}

	msgs := tr.All()
	if len(msgs) != len(texts) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(texts))
	}

	for i, msg := range msgs {
		if msg.Text != texts[i] {
			t.Errorf("message %d: got text %q, want %q", i, msg.Text, texts[i])
		}
		if i > 0 && msg.ID <= msgs[i-1].ID {
			t.Errorf("message %d: ID %d not greater than %d", i, msg.ID, msgs[i-1].ID)
		}
	}
}

func TestTranscript_All_Idempotent(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	tr.Append(seq.UserText("hello"))
	tr.Append(seq.Assistant("hi", 1))

	first := tr.All()
	second := tr.All()

	if !slices.EqualFunc(first, second, equalMessage) {
		t.Errorf("consecutive snapshots differ:\n%+v\n%+v", first, second)
	}
}

func TestTranscript_All_SnapshotIsolation(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	tr.Append(seq.UserText("hello"))

	snapshot := tr.All()
	tr.Append(seq.Assistant("hi", 1))

	if len(snapshot) != 1 {
		t.Errorf("earlier snapshot observed a later append: got %d messages", len(snapshot))
	}
	if tr.Len() != 2 {
		t.Errorf("got Len %d, want 2", tr.Len())
	}
}

func TestTranscript_All_DefensiveCopy(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	tr.Append(seq.UserText("hello"))
	tr.Append(seq.Assistant("hi", 1))

	msgs := tr.All()
	msgs[0] = seq.UserText("tampered")
	msgs = append(msgs, seq.UserText("extra"))

	original := tr.All()
	if len(original) != 2 {
		t.Fatalf("got %d messages, want 2", len(original))
	}
	if original[0].Text != "hello" {
		t.Errorf("first message was mutated: got %q", original[0].Text)
	}
}

func TestTranscript_Attachments_DefensiveCopy(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)

	attachments := []protocol.Attachment{{Name: "original", Kind: "text/plain"}}
	msg := seq.UserAttachments("Uploaded 1 file(s)", attachments)
	tr.Append(msg)

	msg.Attachments[0].Name = "mutated-before-read"

	msgs := tr.All()
	msgs[0].Attachments[0].Name = "tampered"
	msgs[0].Attachments = append(msgs[0].Attachments, protocol.Attachment{Name: "extra"})

	last, _ := tr.Last()
	if len(last.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(last.Attachments))
	}
	if last.Attachments[0].Name != "original" {
		t.Errorf("attachment name was mutated: got %q", last.Attachments[0].Name)
	}
}

func TestTranscript_Last(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	tr.Append(seq.UserText("first"))
	tr.Append(seq.UserText("second"))

	last, ok := tr.Last()
	if !ok {
		t.Fatal("Last reported no message")
	}
	if last.Text != "second" {
		t.Errorf("got %q, want %q", last.Text, "second")
	}
}

func TestTranscript_Concurrent_Append(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tr.Append(seq.UserText("msg"))
		}()
	}
	wg.Wait()

	if tr.Len() != n {
		t.Errorf("got %d messages, want %d", tr.Len(), n)
	}
}

func TestTranscript_Concurrent_AppendAndRead(t *testing.T) {
	tr := session.NewMemoryTranscript()
	seq := protocol.NewSequence(nil)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(2 * n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tr.Append(seq.UserText("msg"))
		}()
		go func() {
			defer wg.Done()
			_ = tr.All()
		}()
	}
	wg.Wait()
}

func equalMessage(a, b protocol.Message) bool {
	return a.ID == b.ID &&
		a.Origin == b.Origin &&
		a.Text == b.Text &&
		a.ReplyTo == b.ReplyTo &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		slices.Equal(a.Attachments, b.Attachments)
}
