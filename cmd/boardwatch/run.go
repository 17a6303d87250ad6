package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/history"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check the board once and notify new postings",
	Long: `One run: fetch the listing, compare it with the stored history, send one
digest of new postings, and record them. Exits non-zero when the listing
cannot be fetched or the history cannot be read or written. A failed
notification is logged and the run still exits 0.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	logger.Info("config loaded",
		"board", cfg.Board.Name,
		"listing_url", cfg.Board.ListingURL,
		"history", cfg.History.Path,
		"notifier", cfg.Notification.Type,
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := p.Poll(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		store.Close()
		os.Exit(exitCode(err))
	}

	fmt.Println(rep.Status())
	return nil
}
