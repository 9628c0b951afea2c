package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand) are registered by config.Load.
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	// The interactive UI owns the terminal, so it only logs to a file.
	// One-shot subcommands log to stderr.
	interactive := cli.Interactive(flag.Args(), ui.IsTTY(), cfg.Plain)
	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = nil
	}
	logger, closeLog, err := logging.New(logging.Options{
		File:     cfg.LogFile,
		Level:    cfg.LogLevel,
		Fallback: fallback,
	})
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, flag.Args(), cli.Options{
		Config:      cfg,
		Logger:      logger,
		Interactive: interactive,
	})
	stop()
	if err := closeLog(); err != nil {
		logger.Warn("close log file", "err", err)
	}
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
