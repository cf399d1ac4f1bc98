package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bluelinehq/rinkline/internal/app"
	"github.com/bluelinehq/rinkline/internal/config"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/export"
	"github.com/bluelinehq/rinkline/internal/platform/logging"
	"github.com/bluelinehq/rinkline/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	mode, err := parseMode(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	}

	input := usecase.RunInput{Mode: mode}
	for _, arg := range os.Args[2:] {
		if arg == "--accept-changes" {
			input.AcceptChanges = true
			continue
		}
		if strings.HasPrefix(arg, "--") {
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", arg)
			printUsage()
			os.Exit(2)
		}
		input.GameIDs = append(input.GameIDs, arg)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	service, closeDB, err := app.NewPipelineService(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.Error("close db", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := service.Run(ctx, input)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	report, err := export.EncodeReport(result.RunID, result.Status, result.Findings)
	if err != nil {
		logger.Error("encode run report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(report))

	if result.Status == qa.StatusFailed {
		os.Exit(1)
	}
}

func parseMode(raw string) (usecase.RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "full-rebuild", "rebuild":
		return usecase.ModeFullRebuild, nil
	case "incremental":
		return usecase.ModeIncremental, nil
	case "validate":
		return usecase.ModeValidateOnly, nil
	case "ground-truth":
		return usecase.ModeGroundTruth, nil
	default:
		return "", fmt.Errorf("unknown run mode %q", raw)
	}
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <full-rebuild|incremental|validate|ground-truth> [--accept-changes] [gameID ...]\n", prog)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s full-rebuild\n", prog)
	fmt.Fprintf(os.Stderr, "  %s incremental 2025-10-04-AVA-BRW\n", prog)
	fmt.Fprintf(os.Stderr, "  %s validate 2025-10-04-AVA-BRW\n", prog)
	fmt.Fprintf(os.Stderr, "  %s full-rebuild --accept-changes\n", prog)
}
