package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/repogen/app/tooling/commands"
	"github.com/jrazmi/repogen/sdk/environment"
	"github.com/jrazmi/repogen/sdk/logger"
)

var build = "develop"

func run(ctx context.Context, log *logger.Logger, args []string) error {
	log.DebugContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	registry := commands.NewRegistry(build, os.Stdout)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	done := make(chan error, 1)
	go func() {
		done <- registry.Run(ctx, log, args)
	}()

	select {
	case err := <-done:
		return err

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		cancel()

		// Give a short time for the command to stop
		timer := time.NewTimer(5 * time.Second)
		defer timer.Stop()

		select {
		case err := <-done:
			return err
		case <-timer.C:
			return fmt.Errorf("shutdown timeout: %w", context.DeadlineExceeded)
		}
	}
}

func main() {
	if err := environment.LoadPath(os.Getenv("REPOGEN_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
		os.Exit(1)
	}

	log, err := logger.NewFromEnv(environment.Prefix)
	if err != nil {
		fmt.Fprintln(os.Stderr, "oh no we couldn't even get logging going:", err)
		os.Exit(1)
	}
	ctx := context.Background()

	if err = run(ctx, log, os.Args[1:]); err != nil {
		log.ErrorContext(ctx, "tooling", "err", err)
		os.Exit(1)
	}
}
