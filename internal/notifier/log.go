package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/boardwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with title, URL, and posted_at when known.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, postings []model.Posting) error {
	for _, p := range postings {
		args := []any{"title", p.Title, "url", p.URL}
		if p.PostedAt != "" {
			args = append(args, "posted_at", p.PostedAt)
		}
		n.logger.Info("new posting", args...)
	}
	return nil
}
