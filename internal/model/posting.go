package model

import "context"

// Posting is a single entry from a job-postings board, normalized from the
// listing markup.
type Posting struct {
	Title    string // display text, whitespace collapsed
	URL      string // canonical absolute URL; identity key
	PostedAt string // display date as shown on the board, "" when unknown
}

// PostingSet is a membership index over postings keyed by URL.
type PostingSet map[string]struct{}

// NewPostingSet indexes the URLs of the given postings.
func NewPostingSet(postings []Posting) PostingSet {
	s := make(PostingSet, len(postings))
	for _, p := range postings {
		s[p.URL] = struct{}{}
	}
	return s
}

// Has reports whether a posting with the given URL is in the set.
func (s PostingSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// ListingFetcher retrieves the raw listing document.
type ListingFetcher interface {
	FetchListing(ctx context.Context) ([]byte, error)
}

// PostingExtractor turns a listing document into candidate postings.
type PostingExtractor interface {
	Extract(pageURL string, body []byte) ([]Posting, error)
}

// HistoryStore persists every posting seen so far, keyed by URL.
type HistoryStore interface {
	// Load returns the stored postings. A store with no prior state returns
	// an empty slice and a nil error.
	Load(ctx context.Context) ([]Posting, error)
	// Save replaces the stored state with postings.
	Save(ctx context.Context, postings []Posting) error
}

// Notifier delivers a digest of new postings.
type Notifier interface {
	Notify(ctx context.Context, postings []Posting) error
}

// PostingFilter decides whether a new posting is worth a notification.
type PostingFilter interface {
	Match(p Posting) bool
}
