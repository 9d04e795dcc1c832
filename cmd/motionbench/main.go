package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"motionbench/internal/app"
	"motionbench/internal/config"
	"motionbench/internal/failure"
	"motionbench/internal/logger"

	"github.com/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	if err := cfg.ParseArgs(args, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "motionbench: %v\n", err)
		return failure.ExitCode(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "motionbench: failed to initialize logger: %v\n", err)
		return failure.ExitCode(err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.NewApp(cfg, log).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "motionbench: %s error: %v\n", failure.KindOf(err), err)
		return failure.ExitCode(err)
	}

	fmt.Println(report.Total)

	if cfg.JSONReport {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Warning("Failed to encode report: %v", err)
		}
	}
	return 0
}
