package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	client "github.com/hsn0918/pdf2af-client"
)

func main() {
	slog.SetDefault(newLogger(os.Stderr, slog.LevelInfo))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), client.UserMessage(err))
		os.Exit(1)
	}
}
