package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardwatch/internal/config"
	"github.com/amishk599/boardwatch/internal/extract"
	"github.com/amishk599/boardwatch/internal/fetch"
	"github.com/amishk599/boardwatch/internal/filter"
	"github.com/amishk599/boardwatch/internal/model"
	"github.com/amishk599/boardwatch/internal/notifier"
	"github.com/amishk599/boardwatch/internal/poller"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "boardwatch",
	Short: "New-posting alerts for a job board",
	Long:  "boardwatch checks a university job-postings board, emails a digest of postings it has not seen before, and records them.",
	// Default to `run` so that `boardwatch` with no args works from cron.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: BOARDWATCH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Exit codes. Notification failures are not fatal and exit 0.
const (
	exitFailure        = 1
	exitConfig         = 2
	exitFetch          = 3
	exitHistoryCorrupt = 4
	exitPersist        = 5
)

// exitCode maps a fatal run error to the process exit status.
func exitCode(err error) int {
	var fetchErr *model.FetchError
	var corruptErr *model.HistoryCorruptError
	var persistErr *model.PersistError
	switch {
	case errors.As(err, &fetchErr):
		return exitFetch
	case errors.As(err, &corruptErr):
		return exitHistoryCorrupt
	case errors.As(err, &persistErr):
		return exitPersist
	default:
		return exitFailure
	}
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > BOARDWATCH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("BOARDWATCH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// mustLoadConfig loads the config or exits with exitConfig.
func mustLoadConfig(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(exitConfig)
	}
	return cfg
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "email":
		logger.Info("using email notifier", "host", cfg.Notification.Email.Host, "recipients", len(cfg.Notification.Email.To))
		return notifier.NewEmailNotifier(cfg.Board.Name, cfg.Notification.Email, logger)
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Board.Name, cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupFilter returns nil when no keywords are configured so every new
// posting is notified.
func setupFilter(cfg *config.Config) model.PostingFilter {
	f := filter.NewTitleFilter(cfg.Filters.TitleKeywords, cfg.Filters.TitleExcludeKeywords)
	if !f.Active() {
		return nil
	}
	return f
}

func buildPoller(cfg *config.Config, history model.HistoryStore, n model.Notifier, logger *slog.Logger) (*poller.BoardPoller, error) {
	extractor, err := extract.NewExtractor(
		extract.Selectors{
			Row:   cfg.Selectors.Row,
			Title: cfg.Selectors.Title,
			Link:  cfg.Selectors.Link,
			Date:  cfg.Selectors.Date,
		},
		extract.LinkRules{
			DetailURLTemplate: cfg.Board.DetailURLTemplate,
			MenuNo:            cfg.Board.MenuNo,
			HandlerNames:      cfg.Board.HandlerNames,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewListingFetcher(cfg.Board.ListingURL, cfg.Board.UserAgent, cfg.Fetch.Timeout, nil)

	return poller.NewBoardPoller(
		cfg.Board.Name,
		cfg.Board.ListingURL,
		fetcher,
		extractor,
		history,
		setupFilter(cfg),
		n,
		logger,
	), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
