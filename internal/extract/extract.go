// Package extract pulls posting records out of a board's listing page.
//
// Each row matched by the row selector yields at most one posting. Rows that
// lack a title or a resolvable link are skipped and logged; they never fail
// the extraction as a whole.
package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/amishk599/boardwatch/internal/delta"
	"github.com/amishk599/boardwatch/internal/model"
)

// Selectors are CSS selectors for a listing. Title, Link and Date apply
// within a row; Date is optional.
type Selectors struct {
	Row   string
	Title string
	Link  string
	Date  string
}

// Stats summarizes one extraction pass.
type Stats struct {
	Rows       int // rows matched by the row selector
	Kept       int // postings returned after dedup
	Skipped    int // malformed rows dropped
	Duplicates int // rows whose URL was already produced by an earlier row
}

// Extractor parses listing documents into postings.
type Extractor struct {
	row    cascadia.Selector
	title  cascadia.Selector
	link   cascadia.Selector
	date   cascadia.Selector // nil when no date column is configured
	links  *LinkResolver
	logger *slog.Logger
}

var _ model.PostingExtractor = (*Extractor)(nil)

// NewExtractor compiles the selectors and link rules. An invalid selector is
// reported here rather than silently matching nothing at run time.
func NewExtractor(sel Selectors, rules LinkRules, logger *slog.Logger) (*Extractor, error) {
	e := &Extractor{logger: logger}

	required := []struct {
		name string
		expr string
		dst  *cascadia.Selector
	}{
		{"row", sel.Row, &e.row},
		{"title", sel.Title, &e.title},
		{"link", sel.Link, &e.link},
	}
	for _, r := range required {
		if strings.TrimSpace(r.expr) == "" {
			return nil, fmt.Errorf("%s selector is required", r.name)
		}
		compiled, err := cascadia.Compile(r.expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s selector %q: %w", r.name, r.expr, err)
		}
		*r.dst = compiled
	}

	if strings.TrimSpace(sel.Date) != "" {
		compiled, err := cascadia.Compile(sel.Date)
		if err != nil {
			return nil, fmt.Errorf("compile date selector %q: %w", sel.Date, err)
		}
		e.date = compiled
	}

	links, err := NewLinkResolver(rules)
	if err != nil {
		return nil, err
	}
	e.links = links

	return e, nil
}

// Extract returns the deduplicated postings found in body. pageURL is the
// listing's own URL, used to resolve root-relative links.
func (e *Extractor) Extract(pageURL string, body []byte) ([]model.Posting, error) {
	postings, _, err := e.ExtractWithStats(pageURL, body)
	return postings, err
}

// ExtractWithStats is Extract plus counters for logging and display.
func (e *Extractor) ExtractWithStats(pageURL string, body []byte) ([]model.Posting, Stats, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, Stats{}, fmt.Errorf("listing URL %q is not absolute", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parse listing html: %w", err)
	}

	var stats Stats
	var candidates []model.Posting
	doc.FindMatcher(e.row).Each(func(i int, row *goquery.Selection) {
		stats.Rows++
		p, reason, ok := e.parseRow(base, row)
		if !ok {
			stats.Skipped++
			e.logger.Debug("skipping listing row", "row", i, "reason", string(reason))
			return
		}
		candidates = append(candidates, p)
	})

	postings := delta.Dedup(candidates)
	stats.Kept = len(postings)
	stats.Duplicates = len(candidates) - len(postings)

	e.logger.Debug("extracted listing",
		"listing_url", pageURL,
		"rows", stats.Rows,
		"kept", stats.Kept,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
	)
	return postings, stats, nil
}

func (e *Extractor) parseRow(base *url.URL, row *goquery.Selection) (model.Posting, model.SkipReason, bool) {
	titleSel := row.FindMatcher(e.title).First()
	if titleSel.Length() == 0 {
		return model.Posting{}, model.SkipMissingTitle, false
	}
	linkSel := row.FindMatcher(e.link).First()
	if linkSel.Length() == 0 {
		return model.Posting{}, model.SkipMissingLink, false
	}

	title := normalizeText(titleSel.Text())
	if title == "" {
		return model.Posting{}, model.SkipEmptyTitle, false
	}

	raw := linkSel.AttrOr("href", "")
	if onclick, ok := linkSel.Attr("onclick"); ok && strings.TrimSpace(onclick) != "" && e.links.preferOnclick(raw) {
		raw = "javascript:" + strings.TrimSpace(onclick)
	}

	resolved, reason, ok := e.links.Resolve(base, raw)
	if !ok {
		return model.Posting{}, reason, false
	}

	return model.Posting{
		Title:    title,
		URL:      resolved,
		PostedAt: e.postedAt(row),
	}, "", true
}

// postedAt is best effort: a missing date cell yields "".
func (e *Extractor) postedAt(row *goquery.Selection) string {
	if e.date == nil {
		return ""
	}
	cell := row.FindMatcher(e.date).First()
	if cell.Length() == 0 {
		return ""
	}
	return normalizeText(cell.Text())
}

// normalizeText collapses runs of whitespace (including the newlines and
// tabs boards leave inside cells) into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
