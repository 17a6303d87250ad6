package model

import "fmt"

// FetchError reports a failed listing fetch: transport failure, timeout, or
// a non-2xx response. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HistoryCorruptError means persisted history exists but cannot be read.
// Treating it as empty would re-notify every posting, so it is fatal.
type HistoryCorruptError struct {
	Path string
	Err  error
}

func (e *HistoryCorruptError) Error() string {
	return fmt.Sprintf("history %s is unreadable: %v", e.Path, e.Err)
}

func (e *HistoryCorruptError) Unwrap() error {
	return e.Err
}

// PersistError means the updated history could not be written. The next run
// diffs against the stale history and may notify the same postings again.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving history %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// NotifyError wraps a delivery failure from a notifier transport.
type NotifyError struct {
	Transport string
	Err       error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("%s notification failed: %v", e.Transport, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// SkipReason explains why a listing row produced no posting.
type SkipReason string

const (
	SkipMissingTitle SkipReason = "missing title"
	SkipEmptyTitle   SkipReason = "empty title"
	SkipMissingLink  SkipReason = "missing link"
	SkipUnresolvedJS SkipReason = "unrecognized script link"
	SkipEmptyLink    SkipReason = "empty link"
)
