package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/amishk599/boardwatch/internal/model"
)

// Digest is one notification covering every new posting of a run.
type Digest struct {
	Subject string
	HTML    string
	Text    string
	Count   int
}

// BuildDigest renders postings in the given order. Titles, URLs and dates are
// HTML-escaped in the HTML body; the date is shown only when known.
func BuildDigest(boardName string, postings []model.Posting) Digest {
	n := len(postings)

	var h strings.Builder
	fmt.Fprintf(&h, "<p>New postings: %d</p><ul>", n)
	for _, p := range postings {
		fmt.Fprintf(&h, `<li><a href="%s">%s</a>`, html.EscapeString(p.URL), html.EscapeString(p.Title))
		if p.PostedAt != "" {
			fmt.Fprintf(&h, " (%s)", html.EscapeString(p.PostedAt))
		}
		h.WriteString("</li>")
	}
	h.WriteString("</ul>")

	var t strings.Builder
	fmt.Fprintf(&t, "New postings: %d\n\n", n)
	for _, p := range postings {
		t.WriteString("- " + p.Title)
		if p.PostedAt != "" {
			t.WriteString(" (" + p.PostedAt + ")")
		}
		t.WriteString("\n  " + p.URL + "\n")
	}

	return Digest{
		Subject: subject(boardName, n),
		HTML:    h.String(),
		Text:    t.String(),
		Count:   n,
	}
}

func subject(boardName string, n int) string {
	noun := "postings"
	if n == 1 {
		noun = "posting"
	}
	return fmt.Sprintf("[%s] %d new %s", boardName, n, noun)
}

// SendTestMessage sends a one-item sample digest to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	sample := model.Posting{
		Title:    "boardwatch test notification",
		URL:      "https://example.org/boardwatch/test",
		PostedAt: "",
	}
	return n.Notify(ctx, []model.Posting{sample})
}
