package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/transcript/core/config"
	"github.com/tailored-agentic-units/transcript/core/protocol"
	"github.com/tailored-agentic-units/transcript/engine"
	"github.com/tailored-agentic-units/transcript/ingest"
	"github.com/tailored-agentic-units/transcript/observability"
	"github.com/tailored-agentic-units/transcript/responder"
)

const (
	commandUpload = "/upload"
	commandQuit   = "/quit"

	typingNotice = "assistant is typing..."
)

type chatOptions struct {
	configFile string
	responder  string
	addr       string
	minLatency time.Duration
	verbose    bool
}

func newChatCmd() *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session on stdin",
		Long: "Each input line is sent as a text message. " +
			"\"/upload <dir>\" sends the files under dir as one batch and \"/quit\" ends the session.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.engineConfig(cmd)
			if err != nil {
				return err
			}

			out := &syncWriter{w: cmd.OutOrStdout()}
			logger := newLogger(cmd.ErrOrStderr(), slog.LevelWarn, opts.verbose)
			observer := observability.NewMultiObserver(
				observability.NewSlogObserver(logger),
				&typingObserver{out: out},
			)

			s, err := engine.New(cfg, engine.WithObserver(observer))
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
			defer s.Close()

			return runChat(cmd.Context(), s, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to session config JSON file")
	cmd.Flags().StringVar(&opts.responder, "responder", "", "Responder type (demo|connect; overrides config)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Connect responder base URL (implies --responder connect)")
	cmd.Flags().DurationVar(&opts.minLatency, "min-latency", 0, "Minimum reply latency (overrides config)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging to stderr")

	return cmd
}

// engineConfig loads the config file, if any, and applies explicitly set
// flags on top of it.
func (o *chatOptions) engineConfig(cmd *cobra.Command) (*engine.Config, error) {
	var cfg *engine.Config
	if o.configFile != "" {
		loaded, err := engine.LoadConfig(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		defaults := engine.DefaultConfig()
		cfg = &defaults
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Responder.Address = o.addr
		cfg.Responder.Type = responder.TypeConnect
	}
	if flags.Changed("responder") {
		cfg.Responder.Type = o.responder
	}
	if flags.Changed("min-latency") {
		cfg.MinLatency = config.Duration(o.minLatency)
	}

	return cfg, nil
}

// runChat reads commands from in until EOF, /quit, or ctx is done. After
// each input it waits for the session to go idle and prints every message
// appended since the last print. Input never runs ahead of a pending reply.
func runChat(ctx context.Context, s *engine.Session, in io.Reader, out io.Writer) error {
	p := &printer{out: out}
	p.flush(s)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == commandQuit:
			return nil
		case trimmed == commandUpload || strings.HasPrefix(trimmed, commandUpload+" "):
			dir := strings.TrimSpace(strings.TrimPrefix(trimmed, commandUpload))
			if dir == "" {
				fmt.Fprintln(out, "usage: /upload <dir>")
				continue
			}
			entries, err := ingest.ScanDir(dir)
			if err != nil {
				fmt.Fprintf(out, "upload failed: %v\n", err)
				continue
			}
			if _, ok, err := s.Ingest(ctx, entries); err != nil {
				fmt.Fprintf(out, "upload rejected: %v\n", err)
				continue
			} else if !ok {
				fmt.Fprintf(out, "nothing to upload in %s\n", dir)
				continue
			}
		default:
			if _, _, err := s.SubmitText(ctx, line); err != nil {
				fmt.Fprintf(out, "message rejected: %v\n", err)
				continue
			}
		}

		if err := s.WaitIdle(ctx); err != nil {
			return nil
		}
		p.flush(s)
	}

	return scanner.Err()
}

type printer struct {
	out     io.Writer
	printed int
}

func (p *printer) flush(s *engine.Session) {
	msgs := s.Transcript()
	for _, msg := range msgs[p.printed:] {
		printMessage(p.out, msg)
	}
	p.printed = len(msgs)
}

func printMessage(w io.Writer, msg protocol.Message) {
	speaker := "you"
	if msg.Origin == protocol.OriginAssistant {
		speaker = "assistant"
	}
	fmt.Fprintf(w, "[%d] %s> %s\n", msg.ID, speaker, msg.Text)
	for _, a := range msg.Attachments {
		fmt.Fprintf(w, "      %s (%s)\n", a.Name, a.Kind)
	}
}

// typingObserver shows a composing notice while the responder works on a
// trigger.
type typingObserver struct {
	out io.Writer
}

func (o *typingObserver) OnEvent(_ context.Context, event observability.Event) {
	if event.Type == engine.EventTriggerStart {
		fmt.Fprintln(o.out, typingNotice)
	}
}

// syncWriter serializes writes from the input loop and the response worker.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
