package main

import (
	"fmt"
	"os"

	"expense-tracker/internal/cli"
	"expense-tracker/internal/log"
	"expense-tracker/internal/report"
	"expense-tracker/internal/shell"
)

func main() {
	// Load .env file for local use (optional)
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg)
	logger.Debug("Starting expense tracker", log.FieldOperation, log.OpStartup, log.FieldDBPath, cfg.DBPath)

	// Make sure the database and tables exist
	repo, err := cli.InitStore(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize record store", log.FieldError, err)
		fmt.Fprintln(os.Stderr, "Cannot open the expense database:", err)
		os.Exit(1)
	}

	reports := report.NewService(repo, repo, cfg.ReportsDir, logger)

	ctx, cancel := cli.InterruptContext(logger)
	defer cancel()

	if err := shell.New(repo, reports, os.Stdin, os.Stdout, logger).Run(ctx); err != nil {
		logger.Error("Shell stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Debug("Expense tracker stopped", log.FieldOperation, log.OpShutdown)
}
