package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/transcript/responder"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var (
		listen  string
		delay   time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo responder over Connect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd.ErrOrStderr(), slog.LevelInfo, verbose)

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", listen, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", responder.RespondProcedure, ln.Addr())
			return serve(cmd.Context(), ln, newServeMux(responder.Demo{Delay: delay}, logger), logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8089", "Address to listen on")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Artificial reply delay")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging to stderr")

	return cmd
}

// newServeMux mounts r on its Connect procedure and logs each call.
func newServeMux(r responder.Responder, logger *slog.Logger) *http.ServeMux {
	logged := responder.Func(func(ctx context.Context, req responder.Request) (responder.Response, error) {
		start := time.Now()
		resp, err := r.Respond(ctx, req)
		if err != nil {
			logger.WarnContext(ctx, "respond failed",
				"attachments", req.AttachmentCount,
				"duration", time.Since(start),
				"error", err)
			return resp, err
		}
		logger.DebugContext(ctx, "respond",
			"attachments", req.AttachmentCount,
			"duration", time.Since(start),
			"response_length", len(resp.Text))
		return resp, nil
	})

	mux := http.NewServeMux()
	mux.Handle(responder.NewHandler(logged))
	return mux
}

// serve runs an HTTP server on ln until ctx is done, then shuts it down.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", ln.Addr().String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
