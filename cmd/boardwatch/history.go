package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded postings",
	Long:  "Reads the history and prints the recorded postings as a table, most recently recorded last.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show only the last n postings (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(exitConfig)
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		os.Exit(exitCode(err))
	}
	defer store.Close()

	postings, err := store.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		store.Close()
		os.Exit(exitCode(err))
	}

	start := 0
	if historyLimit > 0 && len(postings) > historyLimit {
		start = len(postings) - historyLimit
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "Posted", "Title", "URL").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i, p := range postings[start:] {
		posted := p.PostedAt
		if posted == "" {
			posted = "n/a"
		}
		t.Row(strconv.Itoa(start+i+1), posted, p.Title, p.URL)
	}

	fmt.Println(t)
	fmt.Printf("\n%s: %d postings recorded", store.Location(), len(postings))
	if start > 0 {
		fmt.Printf(" (showing last %d)", len(postings)-start)
	}
	fmt.Println()
	return nil
}
