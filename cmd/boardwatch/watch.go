package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/history"
	"github.com/amishk599/boardwatch/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run on a schedule until interrupted",
	Long:  "Runs once immediately, then on watch.schedule; blocks until SIGINT/SIGTERM. Runs never overlap.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	logger.Info("config loaded",
		"board", cfg.Board.Name,
		"schedule", cfg.Watch.Schedule,
		"title_keywords", len(cfg.Filters.TitleKeywords),
	)

	store, err := history.Open(cfg.History)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(exitCode(err))
	}
	defer store.Close()

	n := setupNotifier(cfg, newHTTPClient(), logger)
	p, err := buildPoller(cfg, store, n, logger)
	if err != nil {
		logger.Error("invalid board configuration", "error", err)
		os.Exit(exitConfig)
	}

	sched, err := scheduler.NewScheduler(p, cfg.Watch.Schedule, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(exitFailure)
	}

	logger.Info("goodbye")
	return nil
}
