// Command ferrotex-lsp runs the FerroTeX language server over stdio,
// per spec.md §4.7. The binary itself is a thin cobra root command
// (the same framework the teacher's cmd/devcmd and cli/main.go build
// on) around internal/lsp's dispatcher.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/jxoesneon/ferrotex/internal/lsp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "ferrotex-lsp",
		Short: "FerroTeX language server (LSP over stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)
			return serve(cmd.Context(), os.Stdin, os.Stdout, logger)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	// stderr only: stdout is reserved for LSP frames.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

type stdrwc struct {
	in  io.Reader
	out io.Writer
}

func (s stdrwc) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdrwc) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s stdrwc) Close() error                { return nil }

func serve(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stream := jsonrpc2.NewStream(stdrwc{in: in, out: out})
	conn := jsonrpc2.NewConn(stream)
	client := protocol.ClientDispatcher(conn)

	server := lsp.NewServer(conn, client, logger)
	conn.Go(ctx, protocol.ServerHandler(server, jsonrpc2.MethodNotFoundHandler))

	<-conn.Done()
	return conn.Err()
}
