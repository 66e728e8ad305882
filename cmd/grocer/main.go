package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"grocer/internal/backend"
	"grocer/internal/cli"
	"grocer/internal/core"
	"grocer/internal/log"
	"grocer/internal/services"
	"grocer/internal/session"
)

const usage = "Usage: grocer <grocery_file> <transaction_file> <user_file>"

func main() {
	os.Exit(start(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// start checks the command line, wires configuration and logging, and hands
// over to run. It returns the process exit code.
func start(args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintln(errOut, usage)
		return 1
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendConfig, err := backend.FromAppConfig(cfg, args[0], args[1], args[2])
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		return 1
	}

	return run(ctx, logger, backendConfig, session.Options{
		ChartDir:   cfg.ChartDir,
		ExportXLSX: cfg.ExportXLSX,
		Logger:     logger,
	}, in, out)
}

func run(ctx context.Context, logger *log.Logger, bc backend.Config, opts session.Options, in io.Reader, out io.Writer) int {
	startup := logger.WithComponent(log.ComponentBackend)

	result, err := backend.NewFactory(startup.Logger).CreateBackend(ctx, bc)
	if err != nil {
		startup.Error("Failed to create backend", "error", err)
		return 1
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			startup.Warn("Cleanup failed", "error", err)
		}
	}()
	b := result.Backend

	loaded, err := services.Load(ctx, b.Catalog, b.Transactions, b.Users)
	if err != nil {
		startup.Error("Failed to load data", "error", err)
		return 1
	}
	logger.WithComponent(log.ComponentStore).Issues(log.OpLoad, loaded.Issues)
	startup.Info("Data loaded",
		"groceries", loaded.State.Catalog.Len(),
		"transactions", len(loaded.State.Transactions),
		"users", len(loaded.Users))

	if n, err := b.Sales.Recover(ctx, loaded.State); err != nil {
		startup.Error("Sale recovery failed", "error", err)
	} else if n > 0 {
		startup.Warn("Recovered interrupted sales", "count", n)
	}

	s := session.New(in, out, session.Deps{
		Sales: b.Sales,
		Items: b.Items,
		State: loaded.State,
		Users: loaded.Users,
	}, opts)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		logger.Info("Session interrupted", log.FieldOperation, log.OpShutdown)
		return 0
	}
	if err != nil && !errors.Is(err, core.ErrAuthFailed) {
		logger.Error("Session ended with error", "error", err)
		return 1
	}
	return 0
}
