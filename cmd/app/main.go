package main

import (
	"bufio"
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/adapters/cli"
	"shop-backoffice/internal/adapters/repl"
	"shop-backoffice/internal/app"
	"shop-backoffice/internal/config"
	"shop-backoffice/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	// Keep the terminal readable: only warnings and above.
	logger := logging.New("warn", "text")

	ctx := context.Background()
	rt, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}

	var runErr error
	if len(os.Args) > 1 {
		runErr = cli.Run(ctx, rt.Service, os.Args[1:], os.Stdout)
	} else {
		repl.Run(ctx, rt.Service, bufio.NewReader(os.Stdin), os.Stdout)
	}

	if err := rt.Close(ctx); err != nil {
		logger.WithError(err).Warn("close")
	}
	if runErr != nil {
		logger.Error(runErr)
		os.Exit(1)
	}
}
