// Package fetch retrieves the listing page in a single bounded request.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/amishk599/boardwatch/internal/model"
)

// maxBodySize caps how much of the listing page is read.
const maxBodySize = 8 << 20

// ListingFetcher fetches a board's listing page over HTTP.
type ListingFetcher struct {
	listingURL string
	userAgent  string
	client     *http.Client
}

var _ model.ListingFetcher = (*ListingFetcher)(nil)

// NewListingFetcher creates a fetcher for listingURL. The client's timeout
// bounds the whole request; a zero timeout is replaced by timeout.
func NewListingFetcher(listingURL, userAgent string, timeout time.Duration, client *http.Client) *ListingFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout == 0 {
		c := *client
		c.Timeout = timeout
		client = &c
	}
	return &ListingFetcher{
		listingURL: listingURL,
		userAgent:  userAgent,
		client:     client,
	}
}

// URL returns the listing URL, the base for resolving relative links.
func (f *ListingFetcher) URL() string {
	return f.listingURL
}

// FetchListing makes one GET request and returns the body transcoded to
// UTF-8. Any failure, including a non-2xx status, is a *model.FetchError.
func (f *ListingFetcher) FetchListing(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.listingURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: f.listingURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: f.listingURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.FetchError{
			URL:        f.listingURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	// Some boards still serve EUC-KR; charset picks the decoder from the
	// Content-Type header or a <meta charset> in the first bytes.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &model.FetchError{URL: f.listingURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("detect charset: %w", err)}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &model.FetchError{URL: f.listingURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}
