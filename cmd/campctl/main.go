// Command campctl manages the camp directory's record store from the
// command line: bulk imports, backfilling coordinates and quick listings.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := newCLI()
	err := newRootCmd(c).ExecuteContext(ctx)
	c.release()
	if err != nil {
		os.Exit(1)
	}
}
