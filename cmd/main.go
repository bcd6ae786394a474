package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pomodoro/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if version != "dev" {
		cli.Version = version
	}
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
