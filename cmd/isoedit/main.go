package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"iso-asset-editor/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	observability.Sync()
	if err != nil {
		observability.GetLogger().Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
