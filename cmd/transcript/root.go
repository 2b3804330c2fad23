package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "transcript",
		Short:         "Run conversational sessions against a responder",
		Long:          "transcript drives a chat session from the terminal: text lines and folder uploads are appended to the transcript and answered by a local demo responder or a remote Connect responder service.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newChatCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// newLogger writes text logs to w at base level, or debug when verbose.
func newLogger(w io.Writer, base slog.Level, verbose bool) *slog.Logger {
	level := base
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
