package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for boardwatch.
type Config struct {
	Board        BoardConfig
	Selectors    SelectorConfig
	Fetch        FetchConfig
	History      HistoryConfig
	Filters      FilterConfig
	Notification NotificationConfig
	Watch        WatchConfig
}

// BoardConfig identifies the listing page and how its script links map to
// detail pages.
type BoardConfig struct {
	Name              string   `yaml:"name"`
	ListingURL        string   `yaml:"listing_url"`
	UserAgent         string   `yaml:"user_agent"`
	MenuNo            string   `yaml:"menu_no"`             // substituted for {menu} in DetailURLTemplate
	DetailURLTemplate string   `yaml:"detail_url_template"` // must contain {id}
	HandlerNames      []string `yaml:"handler_names"`       // script functions whose first argument is a posting id
}

// SelectorConfig holds the CSS selectors used to pull postings out of the
// listing markup. Title, Link and Date are evaluated relative to each row.
type SelectorConfig struct {
	Row   string `yaml:"row"`
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
	Date  string `yaml:"date"` // optional
}

// FetchConfig controls the single listing request made per run.
type FetchConfig struct {
	Timeout time.Duration
}

// HistoryConfig selects where seen postings are kept.
type HistoryConfig struct {
	Driver string `yaml:"driver"` // "csv" or "sqlite"
	Path   string `yaml:"path"`
}

// FilterConfig narrows which new postings trigger a notification. Empty
// lists match everything.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string // "log", "email" or "slack"
	WebhookURL string // required if type is "slack"
	Email      EmailConfig
}

// EmailConfig is the SMTP submission setup for the email digest.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	From     string
	To       []string
	Timeout  time.Duration
}

// WatchConfig controls the built-in schedule used by `boardwatch watch`.
type WatchConfig struct {
	Schedule string `yaml:"schedule"` // cron expression or @every <duration>
}

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"

	defaultFetchTimeout = 12 * time.Second
	defaultEmailTimeout = 15 * time.Second
	defaultEmailPort    = 587
	defaultHistoryPath  = "posts.csv"
	defaultSchedule     = "@every 30m"
	defaultUserAgent    = "Mozilla/5.0 (compatible; boardwatch)"
)

// DefaultHandlerNames are the script functions boards commonly use to open a
// posting, e.g. javascript:view('319598','').
var DefaultHandlerNames = []string{"view", "fnView", "fn_view"}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Board        BoardConfig           `yaml:"board"`
	Selectors    SelectorConfig        `yaml:"selectors"`
	Fetch        rawFetchConfig        `yaml:"fetch"`
	History      HistoryConfig         `yaml:"history"`
	Filters      FilterConfig          `yaml:"filters"`
	Notification rawNotificationConfig `yaml:"notification"`
	Watch        WatchConfig           `yaml:"watch"`
}

type rawFetchConfig struct {
	Timeout string `yaml:"timeout"`
}

type rawNotificationConfig struct {
	Type       string         `yaml:"type"`
	WebhookURL string         `yaml:"webhook_url"`
	Email      rawEmailConfig `yaml:"email"`
}

type rawEmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"from_name"`
	From     string `yaml:"from"`
	To       string `yaml:"to"` // comma-separated so it can come from a single env var
	Timeout  string `yaml:"timeout"`
}

// loadEnvFiles loads secrets from ENV_FILE if set, otherwise from .env in the
// working directory. A missing file is not an error.
func loadEnvFiles() error {
	path := ".env"
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		path = envFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// Variables from a .env file are loaded first so ${VAR} references in the
// YAML can point at secrets kept out of the config file.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	fetchTimeout := defaultFetchTimeout
	if raw.Fetch.Timeout != "" {
		fetchTimeout, err = time.ParseDuration(raw.Fetch.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.timeout %q: %w", raw.Fetch.Timeout, err)
		}
	}

	emailTimeout := defaultEmailTimeout
	if raw.Notification.Email.Timeout != "" {
		emailTimeout, err = time.ParseDuration(raw.Notification.Email.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse notification.email.timeout %q: %w", raw.Notification.Email.Timeout, err)
		}
	}

	cfg := &Config{
		Board:     raw.Board,
		Selectors: raw.Selectors,
		Fetch:     FetchConfig{Timeout: fetchTimeout},
		History:   raw.History,
		Filters:   raw.Filters,
		Notification: NotificationConfig{
			Type:       raw.Notification.Type,
			WebhookURL: raw.Notification.WebhookURL,
			Email: EmailConfig{
				Host:     raw.Notification.Email.Host,
				Port:     raw.Notification.Email.Port,
				Username: raw.Notification.Email.Username,
				Password: raw.Notification.Email.Password,
				FromName: raw.Notification.Email.FromName,
				From:     raw.Notification.Email.From,
				To:       splitList(raw.Notification.Email.To),
				Timeout:  emailTimeout,
			},
		},
		Watch: raw.Watch,
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Board.Name == "" {
		cfg.Board.Name = "boardwatch"
	}
	if cfg.Board.UserAgent == "" {
		cfg.Board.UserAgent = defaultUserAgent
	}
	if len(cfg.Board.HandlerNames) == 0 {
		cfg.Board.HandlerNames = append([]string(nil), DefaultHandlerNames...)
	}
	if cfg.Selectors.Row == "" {
		cfg.Selectors.Row = "table tbody tr"
	}
	if cfg.Selectors.Title == "" {
		cfg.Selectors.Title = "td a"
	}
	if cfg.Selectors.Link == "" {
		cfg.Selectors.Link = cfg.Selectors.Title
	}
	if cfg.History.Driver == "" {
		cfg.History.Driver = DriverCSV
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistoryPath
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
	if cfg.Notification.Email.Port == 0 {
		cfg.Notification.Email.Port = defaultEmailPort
	}
	if cfg.Notification.Email.From == "" {
		cfg.Notification.Email.From = cfg.Notification.Email.Username
	}
	if cfg.Watch.Schedule == "" {
		cfg.Watch.Schedule = defaultSchedule
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Board.ListingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("board.listing_url must be an absolute http(s) URL, got %q", cfg.Board.ListingURL)
	}

	if cfg.Board.DetailURLTemplate == "" {
		return fmt.Errorf("board.detail_url_template is required")
	}
	if !strings.Contains(cfg.Board.DetailURLTemplate, "{id}") {
		return fmt.Errorf("board.detail_url_template must contain {id}, got %q", cfg.Board.DetailURLTemplate)
	}
	if strings.Contains(cfg.Board.DetailURLTemplate, "{menu}") && cfg.Board.MenuNo == "" {
		return fmt.Errorf("board.menu_no is required when detail_url_template uses {menu}")
	}

	for name, sel := range map[string]string{
		"row":   cfg.Selectors.Row,
		"title": cfg.Selectors.Title,
		"link":  cfg.Selectors.Link,
		"date":  cfg.Selectors.Date,
	} {
		if sel == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("selectors.%s %q: %w", name, sel, err)
		}
	}

	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %v", cfg.Fetch.Timeout)
	}

	if _, err := cron.ParseStandard(cfg.Watch.Schedule); err != nil {
		return fmt.Errorf("watch.schedule %q: %w", cfg.Watch.Schedule, err)
	}

	switch cfg.History.Driver {
	case DriverCSV, DriverSQLite:
	default:
		return fmt.Errorf("history.driver must be %q or %q, got %q", DriverCSV, DriverSQLite, cfg.History.Driver)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case "email":
		e := cfg.Notification.Email
		if e.Host == "" {
			return fmt.Errorf("notification.email.host is required when type is \"email\"")
		}
		if e.From == "" {
			return fmt.Errorf("notification.email.from (or username) is required when type is \"email\"")
		}
		if len(e.To) == 0 {
			return fmt.Errorf("notification.email.to needs at least one recipient")
		}
		if e.Timeout <= 0 {
			return fmt.Errorf("notification.email.timeout must be positive, got %v", e.Timeout)
		}
	default:
		return fmt.Errorf("notification.type must be log, email or slack, got %q", cfg.Notification.Type)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
