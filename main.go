package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dzjyyds666/tgmq/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
