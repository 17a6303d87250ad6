package notifier

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/amishk599/boardwatch/internal/model"
)

func TestLogNotifier_Notify_zeroPostings(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n := NewLogNotifier(logger)
	err := n.Notify(context.Background(), nil)
	if err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	err = n.Notify(context.Background(), []model.Posting{})
	if err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
}

func TestLogNotifier_Notify_logsEachPosting(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	postings := []model.Posting{
		{Title: "Engineer", URL: "https://example.org/1", PostedAt: "2025.01.02"},
		{Title: "Developer", URL: "https://example.org/2"},
	}

	if err := n.Notify(context.Background(), postings); err != nil {
		t.Fatalf("Notify(postings) = %v, want nil", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "posted_at=2025.01.02") {
		t.Errorf("first line missing posted_at: %s", lines[0])
	}
	if strings.Contains(lines[1], "posted_at") {
		t.Errorf("unknown date should not be logged: %s", lines[1])
	}
}

func TestSendTestMessage(t *testing.T) {
	rec := &recordingNotifier{}
	if err := SendTestMessage(context.Background(), rec); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].URL == "" {
		t.Errorf("expected one sample posting, got %+v", rec.got)
	}
}

type recordingNotifier struct {
	got []model.Posting
}

func (r *recordingNotifier) Notify(_ context.Context, postings []model.Posting) error {
	r.got = append(r.got, postings...)
	return nil
}
