package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/boardwatch/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// maxSlackPostings keeps a digest under Slack's 50-block message limit.
const maxSlackPostings = 45

// SlackNotifier sends the digest to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	boardName  string
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts one digest per run to Slack.
func NewSlackNotifier(boardName, webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		boardName:  boardName,
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends every posting as a single Block Kit message. A 429 response
// is retried once after Retry-After.
func (s *SlackNotifier) Notify(ctx context.Context, postings []model.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(s.boardName, postings))
	if err != nil {
		return &model.NotifyError{Transport: "slack", Err: fmt.Errorf("marshal slack payload: %w", err)}
	}

	if err := s.send(ctx, body); err != nil {
		return &model.NotifyError{Transport: "slack", Err: err}
	}
	s.logger.Info("slack digest sent", "postings", len(postings))
	return nil
}

func (s *SlackNotifier) send(ctx context.Context, body []byte) error {
	resp, err := s.post(ctx, body)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		select {
		case <-time.After(time.Duration(secs) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}

		resp2, err := s.post(ctx, body)
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.httpClient.Do(req)
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// slackEscape escapes the characters Slack treats as control sequences in
// mrkdwn text.
var slackEscape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func buildPayload(boardName string, postings []model.Posting) slackPayload {
	title := subject(boardName, len(postings))

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: title},
		},
	}

	shown := postings
	if len(shown) > maxSlackPostings {
		shown = shown[:maxSlackPostings]
	}
	for _, p := range shown {
		text := fmt.Sprintf("*<%s|%s>*", p.URL, slackEscape.Replace(p.Title))
		if p.PostedAt != "" {
			text += "\nPosted: " + slackEscape.Replace(p.PostedAt)
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: text},
		})
	}
	if rest := len(postings) - len(shown); rest > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("and %d more", rest)}},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: title, Blocks: blocks}
}
