package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/history"
	"github.com/amishk599/boardwatch/internal/notifier"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check once, print new postings, exit",
	Long:  "One-shot run that logs new postings instead of sending them. Reads the history but does not write to it.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	logger.Info("check mode: history will not be updated")

	store, err := history.Open(cfg.History)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(exitCode(err))
	}
	defer store.Close()

	p, err := buildPoller(cfg, history.NewReadOnlyStore(store), notifier.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("invalid board configuration", "error", err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := p.Poll(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		store.Close()
		os.Exit(exitCode(err))
	}

	fmt.Printf("%d postings on board, %d in history, %d new\n", rep.Candidates, rep.Known, rep.New)
	return nil
}
