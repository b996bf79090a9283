package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/carbonmatch-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(":" + application.Cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			application.Log.Error("HTTP server stopped", "error", err)
			application.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		application.Log.Info("Shutdown signal received")
	}
}
