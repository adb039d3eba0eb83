package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"caregiver-support/internal/config"
	"caregiver-support/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
