package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/audit"
	"github.com/amishk599/boardwatch/internal/history"
	"github.com/amishk599/boardwatch/internal/notifier"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse postings interactively (TUI)",
	Long:  "Fetches the listing, compares it with the history, and shows every posting next to the new ones. Nothing is sent or recorded.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	store, err := history.Open(cfg.History)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(exitCode(err))
	}
	defer store.Close()

	// Any log output while the TUI is up corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := buildPoller(cfg, history.NewReadOnlyStore(store), notifier.NewLogNotifier(silentLogger), silentLogger)
	if err != nil {
		logger.Error("invalid board configuration", "error", err)
		os.Exit(exitConfig)
	}

	scan, err := audit.RunLoader(cfg.Board.Name, p.Scan)
	if err != nil {
		fmt.Printf("Error fetching postings: %v\n", err)
		store.Close()
		os.Exit(exitCode(err))
	}
	if len(scan.Current) == 0 {
		fmt.Println("No postings found on the listing page. Check the row selector.")
		return nil
	}

	if err := audit.RunAuditTUI(cfg.Board.Name, scan, setupFilter(cfg)); err != nil {
		fmt.Printf("TUI error: %v\n", err)
		return nil
	}
	return nil
}
