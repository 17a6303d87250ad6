package poller

import (
	"fmt"

	"github.com/amishk599/boardwatch/internal/model"
)

// Report summarizes one completed run.
type Report struct {
	Fetched    int // listing body size in bytes
	Candidates int // postings extracted from the listing
	Known      int // history size before the run
	New        int // postings not in history
	Filtered   int // new postings held back by the title filter
	Notified   int // postings included in a delivered notification
	Saved      int // history size after the run

	Postings  []model.Posting // the new postings
	NotifyErr error
}

// Status is the one-line outcome printed at the end of a run.
func (r Report) Status() string {
	if r.New == 0 {
		return "no new postings"
	}
	noun := "postings"
	if r.New == 1 {
		noun = "posting"
	}
	switch {
	case r.NotifyErr != nil:
		return fmt.Sprintf("%d new %s, notification failed: %v", r.New, noun, r.NotifyErr)
	case r.Notified == 0:
		return fmt.Sprintf("%d new %s, notification skipped (filtered)", r.New, noun)
	default:
		return fmt.Sprintf("%d new %s, notification sent", r.New, noun)
	}
}
