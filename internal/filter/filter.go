package filter

import (
	"strings"

	"github.com/amishk599/boardwatch/internal/model"
)

// TitleFilter matches postings whose title contains any of the include
// keywords and none of the exclude keywords. Matching is case-insensitive.
// An empty include list is treated as "match all".
type TitleFilter struct {
	include []string
	exclude []string
}

// NewTitleFilter returns a filter on posting titles (case-insensitive
// substring). Blank keywords are ignored.
func NewTitleFilter(include, exclude []string) *TitleFilter {
	return &TitleFilter{
		include: lowered(include),
		exclude: lowered(exclude),
	}
}

// Active reports whether the filter can reject anything.
func (f *TitleFilter) Active() bool {
	return len(f.include) > 0 || len(f.exclude) > 0
}

// Match returns true if the posting's title contains any include keyword and
// no exclude keyword.
func (f *TitleFilter) Match(p model.Posting) bool {
	titleLower := strings.ToLower(p.Title)

	for _, kw := range f.exclude {
		if strings.Contains(titleLower, kw) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, kw := range f.include {
		if strings.Contains(titleLower, kw) {
			return true
		}
	}
	return false
}

// Apply returns the postings that match f, in order.
func Apply(f model.PostingFilter, postings []model.Posting) []model.Posting {
	if f == nil {
		return postings
	}
	out := make([]model.Posting, 0, len(postings))
	for _, p := range postings {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func lowered(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
