// Package delta compares freshly extracted postings with stored history.
//
// All functions are pure: inputs are never modified and results are new
// slices. Identity is the posting URL throughout.
package delta

import "github.com/amishk599/boardwatch/internal/model"

// Dedup returns postings with only the first occurrence of each URL kept,
// in input order.
func Dedup(postings []model.Posting) []model.Posting {
	seen := make(model.PostingSet, len(postings))
	out := make([]model.Posting, 0, len(postings))
	for _, p := range postings {
		if seen.Has(p.URL) {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Diff returns the candidates whose URL does not appear in history,
// deduplicated and in candidate order. With an empty history every
// candidate is new.
func Diff(candidates, history []model.Posting) []model.Posting {
	known := model.NewPostingSet(history)
	out := make([]model.Posting, 0, len(candidates))
	for _, p := range Dedup(candidates) {
		if !known.Has(p.URL) {
			out = append(out, p)
		}
	}
	return out
}

// Union returns history followed by the additions it does not already
// contain. Existing records win over additions with the same URL.
func Union(history, additions []model.Posting) []model.Posting {
	merged := make([]model.Posting, 0, len(history)+len(additions))
	merged = append(merged, history...)
	merged = append(merged, additions...)
	return Dedup(merged)
}
