package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/boardwatch/internal/delta"
	"github.com/amishk599/boardwatch/internal/filter"
	"github.com/amishk599/boardwatch/internal/model"
)

// BoardPoller owns the full run pipeline for a single board:
// fetch → extract → load history → diff → notify → save history.
type BoardPoller struct {
	Name       string
	listingURL string
	fetcher    model.ListingFetcher
	extractor  model.PostingExtractor
	history    model.HistoryStore
	filter     model.PostingFilter
	notifier   model.Notifier
	logger     *slog.Logger
}

// NewBoardPoller creates a poller wired with all its dependencies. filter
// may be nil, in which case every new posting is notified.
func NewBoardPoller(
	name string,
	listingURL string,
	fetcher model.ListingFetcher,
	extractor model.PostingExtractor,
	history model.HistoryStore,
	filter model.PostingFilter,
	notifier model.Notifier,
	logger *slog.Logger,
) *BoardPoller {
	return &BoardPoller{
		Name:       name,
		listingURL: listingURL,
		fetcher:    fetcher,
		extractor:  extractor,
		history:    history,
		filter:     filter,
		notifier:   notifier,
		logger:     logger,
	}
}

// Scan is the read-only half of a run.
type Scan struct {
	Fetched int             // listing body size in bytes
	Current []model.Posting // postings on the listing page, deduplicated
	History []model.Posting // postings already recorded
	New     []model.Posting // Current minus History, in page order
}

// Scan fetches and extracts the listing and diffs it against the stored
// history. Nothing is notified or written.
func (p *BoardPoller) Scan(ctx context.Context) (Scan, error) {
	body, err := p.fetcher.FetchListing(ctx)
	if err != nil {
		return Scan{}, fmt.Errorf("polling %s: %w", p.Name, err)
	}

	current, err := p.extractor.Extract(p.listingURL, body)
	if err != nil {
		return Scan{}, fmt.Errorf("polling %s: extracting: %w", p.Name, err)
	}

	history, err := p.history.Load(ctx)
	if err != nil {
		return Scan{}, fmt.Errorf("polling %s: loading history: %w", p.Name, err)
	}

	return Scan{
		Fetched: len(body),
		Current: current,
		History: history,
		New:     delta.Diff(current, history),
	}, nil
}

// Poll runs one cycle. A notification failure is recorded in the report and
// does not stop the history update; every other failure aborts the run and
// is returned.
func (p *BoardPoller) Poll(ctx context.Context) (Report, error) {
	scan, err := p.Scan(ctx)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Fetched:    scan.Fetched,
		Candidates: len(scan.Current),
		Known:      len(scan.History),
		New:        len(scan.New),
		Postings:   scan.New,
	}

	toNotify := filter.Apply(p.filter, scan.New)
	rep.Filtered = len(scan.New) - len(toNotify)
	if len(toNotify) > 0 {
		if err := p.notifier.Notify(ctx, toNotify); err != nil {
			rep.NotifyErr = err
			p.logger.Error("notification failed, recording postings anyway",
				"board", p.Name,
				"new", len(toNotify),
				"error", err,
			)
		} else {
			rep.Notified = len(toNotify)
		}
	}

	merged := delta.Union(scan.History, scan.New)
	if err := p.history.Save(ctx, merged); err != nil {
		var persistErr *model.PersistError
		if !errors.As(err, &persistErr) {
			err = &model.PersistError{Err: err}
		}
		return rep, fmt.Errorf("polling %s: %w", p.Name, err)
	}
	rep.Saved = len(merged)

	p.logger.Info("polled board",
		"board", p.Name,
		"candidates", rep.Candidates,
		"history", rep.Known,
		"new", rep.New,
		"notified", rep.Notified,
	)

	return rep, nil
}
