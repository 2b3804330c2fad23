package responder_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tailored-agentic-units/transcript/responder"
)

func newTestServer(t *testing.T, r responder.Responder) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	path, handler := responder.NewHandler(r)
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestConnect_RoundTrip(t *testing.T) {
	var received responder.Request
	server := newTestServer(t, responder.Func(func(ctx context.Context, req responder.Request) (responder.Response, error) {
		received = req
		return responder.Response{Text: "remote reply"}, nil
	}))

	client := responder.NewConnectClient(server.Client(), server.URL)
	resp, err := client.Respond(context.Background(), responder.Request{
		Text:              "Uploaded 2 file(s)",
		AttachmentSummary: "a.png (image/png), docs (folder)",
		AttachmentCount:   2,
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	if resp.Text != "remote reply" {
		t.Errorf("got %q, want %q", resp.Text, "remote reply")
	}
	if received.Text != "Uploaded 2 file(s)" {
		t.Errorf("server got text %q", received.Text)
	}
	if received.AttachmentSummary != "a.png (image/png), docs (folder)" {
		t.Errorf("server got summary %q", received.AttachmentSummary)
	}
	if received.AttachmentCount != 2 {
		t.Errorf("server got count %d, want 2", received.AttachmentCount)
	}
}

func TestConnect_DemoOverTheWire(t *testing.T) {
	server := newTestServer(t, responder.Demo{})

	client := responder.NewConnectClient(server.Client(), server.URL+"/")
	resp, err := client.Respond(context.Background(), responder.Request{Text: "hello"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if resp.Text != responder.DemoTextReply {
		t.Errorf("got %q, want %q", resp.Text, responder.DemoTextReply)
	}
}

func TestConnect_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		serverErr error
		want      error
	}{
		{"timeout", responder.ErrTimeout, responder.ErrTimeout},
		{"failure", responder.ErrFailed, responder.ErrFailed},
		{"unclassified", errors.New("model offline"), responder.ErrFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, responder.Func(func(ctx context.Context, req responder.Request) (responder.Response, error) {
				return responder.Response{}, tt.serverErr
			}))

			client := responder.NewConnectClient(server.Client(), server.URL)
			_, err := client.Respond(context.Background(), responder.Request{Text: "hello"})
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConnect_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := responder.NewConnectClient(nil, url)
	_, err := client.Respond(context.Background(), responder.Request{Text: "hello"})
	if !errors.Is(err, responder.ErrFailed) {
		t.Errorf("got error %v, want %v", err, responder.ErrFailed)
	}
}
