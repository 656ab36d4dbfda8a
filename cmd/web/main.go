// Package main provides the entry point for the library web front end.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/librarydb/library-web/internal/di"
	"github.com/librarydb/library-web/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Services that implement do.Shutdownable are stopped in reverse
	// dependency order: HTTP server, API client, notice center, SSE manager.
	if report := injector.Shutdown(); !report.Succeed {
		log.Error("Shutdown error", "error", report)
	}

	log.Info("Goodbye.")
}
