package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amishk599/boardwatch/internal/model"
)

func posting(id string) model.Posting {
	return model.Posting{
		Title:    "Posting " + id,
		URL:      "https://example.org/view.do?id=" + id,
		PostedAt: "2025-03-0" + id[len(id)-1:],
	}
}

func postings(ids ...string) []model.Posting {
	out := make([]model.Posting, len(ids))
	for i, id := range ids {
		out[i] = posting(id)
	}
	return out
}

func TestDiff_FirstRunReturnsAllCandidates(t *testing.T) {
	candidates := postings("1", "2", "3")

	got := Diff(candidates, nil)

	assert.Equal(t, candidates, got)
}

func TestDiff_FirstRunDeduplicates(t *testing.T) {
	candidates := postings("1", "2", "1", "3", "2")

	got := Diff(candidates, []model.Posting{})

	assert.Equal(t, postings("1", "2", "3"), got)
}

func TestDiff_EmptyWhenEverythingKnown(t *testing.T) {
	history := postings("1", "2", "3", "4")

	got := Diff(postings("3", "1", "4"), history)

	assert.Empty(t, got)
}

func TestDiff_OnlyUnknownURLs(t *testing.T) {
	history := postings("1", "2")

	got := Diff(postings("1", "2", "3"), history)

	assert.Equal(t, postings("3"), got)
}

func TestDiff_MatchesOnURLOnly(t *testing.T) {
	history := []model.Posting{{Title: "Old title", URL: "https://example.org/a", PostedAt: ""}}
	candidates := []model.Posting{{Title: "Edited title", URL: "https://example.org/a", PostedAt: "2025-01-01"}}

	assert.Empty(t, Diff(candidates, history))
}

func TestDiff_DoesNotModifyInputs(t *testing.T) {
	candidates := postings("1", "2", "2")
	history := postings("1")
	candidatesCopy := append([]model.Posting(nil), candidates...)
	historyCopy := append([]model.Posting(nil), history...)

	_ = Diff(candidates, history)

	assert.Equal(t, candidatesCopy, candidates)
	assert.Equal(t, historyCopy, history)
}

func TestUnion_AppendsNewAfterHistory(t *testing.T) {
	got := Union(postings("1", "2"), postings("3", "4"))

	assert.Equal(t, postings("1", "2", "3", "4"), got)
}

func TestUnion_ExistingRecordWins(t *testing.T) {
	history := []model.Posting{{Title: "Original", URL: "https://example.org/a"}}
	additions := []model.Posting{{Title: "Changed", URL: "https://example.org/a", PostedAt: "2025-01-01"}}

	got := Union(history, additions)

	assert.Equal(t, history, got)
}

func TestUnion_NeverShrinks(t *testing.T) {
	history := postings("1", "2", "3")

	for _, additions := range [][]model.Posting{nil, postings("2"), postings("4", "4", "5")} {
		got := Union(history, additions)
		assert.GreaterOrEqual(t, len(got), len(history))
		assert.Equal(t, history, got[:len(history)])
	}
}

func TestDiffThenUnion_SecondRunIsEmpty(t *testing.T) {
	history := postings("1")
	candidates := postings("1", "2", "3")

	added := Diff(candidates, history)
	history = Union(history, added)

	assert.Len(t, history, 3)
	assert.Empty(t, Diff(candidates, history))
}

func TestDedup_KeepsFirstOccurrence(t *testing.T) {
	in := []model.Posting{
		{Title: "first", URL: "https://example.org/a"},
		{Title: "second", URL: "https://example.org/a"},
		{Title: "other", URL: "https://example.org/b"},
	}

	got := Dedup(in)

	assert.Equal(t, []model.Posting{in[0], in[2]}, got)
}
