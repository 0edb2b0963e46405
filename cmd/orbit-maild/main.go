package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/di"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	dispatcher *core.Dispatcher,
	store core.ScheduleStore,
	assistant core.Assistant,
	stats *core.Stats,
) error {
	defer logger.Sync()

	// Start the delivery scheduler
	dispatcher.Start()
	logger.Info("Delivery scheduler started")

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	dispatcher.Stop()

	// Close any resources that need closing
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close schedule store", zap.Error(err))
		}
	}
	if closer, ok := assistant.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close assistant", zap.Error(err))
		}
	}

	snapshot := stats.Snapshot()
	logger.Info("Shutdown complete",
		zap.Uint64("scheduled", snapshot.Scheduled),
		zap.Uint64("sent", snapshot.Sent),
		zap.Uint64("send_failures", snapshot.SendFailures),
		zap.Uint64("cancelled", snapshot.Cancelled))
	return nil
}
