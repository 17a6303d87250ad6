package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalBoard = `
board:
  listing_url: https://example.org/kor/user/bbs/list.do?menuNo=200361
  detail_url_template: "https://example.org/kor/user/bbs/view.do?boardId={id}&menuNo={menu}"
  menu_no: "200361"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
board:
  name: KHU careers
  listing_url: https://example.org/list.do
  detail_url_template: "https://example.org/view.do?boardId={id}"
  handler_names: [view]
selectors:
  row: "table tbody tr"
  title: "td.subject a"
  date: "td:nth-child(4)"
fetch:
  timeout: 5s
history:
  driver: sqlite
  path: seen.db
filters:
  title_keywords:
    - research
watch:
  schedule: "*/15 * * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Name != "KHU careers" {
		t.Errorf("Board.Name = %q", cfg.Board.Name)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 5s", cfg.Fetch.Timeout)
	}
	if cfg.Selectors.Title != "td.subject a" || cfg.Selectors.Link != "td.subject a" {
		t.Errorf("Link selector should default to title selector, got %+v", cfg.Selectors)
	}
	if cfg.Selectors.Date != "td:nth-child(4)" {
		t.Errorf("Date selector = %q", cfg.Selectors.Date)
	}
	if len(cfg.Board.HandlerNames) != 1 || cfg.Board.HandlerNames[0] != "view" {
		t.Errorf("HandlerNames = %v", cfg.Board.HandlerNames)
	}
	if cfg.History.Driver != DriverSQLite || cfg.History.Path != "seen.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if len(cfg.Filters.TitleKeywords) != 1 || cfg.Filters.TitleKeywords[0] != "research" {
		t.Errorf("TitleKeywords = %v", cfg.Filters.TitleKeywords)
	}
	if cfg.Watch.Schedule != "*/15 * * * *" {
		t.Errorf("Watch.Schedule = %q", cfg.Watch.Schedule)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalBoard))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fetch.Timeout != 12*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 12s", cfg.Fetch.Timeout)
	}
	if cfg.Selectors.Row != "table tbody tr" || cfg.Selectors.Title != "td a" || cfg.Selectors.Link != "td a" {
		t.Errorf("Selectors = %+v", cfg.Selectors)
	}
	if cfg.Selectors.Date != "" {
		t.Errorf("Date selector should stay optional, got %q", cfg.Selectors.Date)
	}
	if strings.Join(cfg.Board.HandlerNames, ",") != "view,fnView,fn_view" {
		t.Errorf("HandlerNames = %v", cfg.Board.HandlerNames)
	}
	if cfg.History.Driver != DriverCSV || cfg.History.Path != "posts.csv" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
	if cfg.Watch.Schedule != "@every 30m" {
		t.Errorf("Watch.Schedule = %q", cfg.Watch.Schedule)
	}
	if cfg.Board.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "board: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_RelativeListingURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
board:
  listing_url: /list.do
  detail_url_template: "https://example.org/view.do?id={id}"
`))
	if err == nil {
		t.Fatal("Load: expected validation error for relative listing_url")
	}
}

func TestLoad_TemplateWithoutID(t *testing.T) {
	_, err := Load(writeConfig(t, `
board:
  listing_url: https://example.org/list.do
  detail_url_template: "https://example.org/view.do"
`))
	if err == nil || !strings.Contains(err.Error(), "{id}") {
		t.Fatalf("Load: expected {id} validation error, got %v", err)
	}
}

func TestLoad_MenuPlaceholderNeedsMenuNo(t *testing.T) {
	_, err := Load(writeConfig(t, `
board:
  listing_url: https://example.org/list.do
  detail_url_template: "https://example.org/view.do?id={id}&menuNo={menu}"
`))
	if err == nil || !strings.Contains(err.Error(), "menu_no") {
		t.Fatalf("Load: expected menu_no validation error, got %v", err)
	}
}

func TestLoad_InvalidSelector(t *testing.T) {
	_, err := Load(writeConfig(t, minimalBoard+`
selectors:
  row: "table tbody tr["
`))
	if err == nil || !strings.Contains(err.Error(), "selectors.row") {
		t.Fatalf("Load: expected selector error, got %v", err)
	}
}

func TestLoad_UnknownHistoryDriver(t *testing.T) {
	_, err := Load(writeConfig(t, minimalBoard+`
history:
  driver: parquet
`))
	if err == nil {
		t.Fatal("Load: expected error for unknown history driver")
	}
}

func TestLoad_SlackRequiresHooksURL(t *testing.T) {
	_, err := Load(writeConfig(t, minimalBoard+`
notification:
  type: slack
  webhook_url: https://example.com/hook
`))
	if err == nil {
		t.Fatal("Load: expected error for non-slack webhook URL")
	}
}

func TestLoad_EmailFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	env := "BW_SMTP_USER=bot@example.org\nBW_SMTP_PASS=secret\nBW_MAIL_TO=a@example.org, b@example.org\n"
	if err := os.WriteFile(envPath, []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	content := minimalBoard + `
notification:
  type: email
  email:
    host: smtp.example.org
    username: ${BW_SMTP_USER}
    password: ${BW_SMTP_PASS}
    from_name: Careers bot
    to: ${BW_MAIL_TO}
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", envPath)
	for _, k := range []string{"BW_SMTP_USER", "BW_SMTP_PASS", "BW_MAIL_TO"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := cfg.Notification.Email
	if e.Username != "bot@example.org" || e.Password != "secret" {
		t.Errorf("credentials not expanded from env file: %+v", e)
	}
	if e.From != "bot@example.org" {
		t.Errorf("From should default to username, got %q", e.From)
	}
	if len(e.To) != 2 || e.To[0] != "a@example.org" || e.To[1] != "b@example.org" {
		t.Errorf("To = %v", e.To)
	}
	if e.Port != 587 || e.Timeout != 15*time.Second {
		t.Errorf("Port/Timeout defaults = %d/%v", e.Port, e.Timeout)
	}
}

func TestLoad_EmailRequiresRecipients(t *testing.T) {
	_, err := Load(writeConfig(t, minimalBoard+`
notification:
  type: email
  email:
    host: smtp.example.org
    from: bot@example.org
`))
	if err == nil || !strings.Contains(err.Error(), "recipient") {
		t.Fatalf("Load: expected recipient validation error, got %v", err)
	}
}

func TestLoad_InvalidSchedule(t *testing.T) {
	path := writeConfig(t, minimalBoard+`
watch:
  schedule: "every tuesday-ish"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "watch.schedule") {
		t.Fatalf("expected watch.schedule error, got %v", err)
	}
}
