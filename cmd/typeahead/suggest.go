package main

import (
	"context"

	"github.com/samber/lo"

	"github.com/on-the-ground/boundrun/effects/cache"
	"github.com/on-the-ground/boundrun/effects/lease"
	"github.com/on-the-ground/boundrun/effects/log"
	"github.com/on-the-ground/boundrun/effects/task"
)

// Suggestion is what the typeahead shows after one keystroke.
type Suggestion struct {
	Prefix string   `json:"prefix"`
	Words  []string `json:"words,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// TermResult holds the suggestions for every prefix of one typed term.
type TermResult struct {
	Term        string       `json:"term"`
	Suggestions []Suggestion `json:"suggestions"`
}

// prefixes lists what a user sees while typing term: its first rune, its
// first two runes, and so on.
func prefixes(term string) []string {
	runes := []rune(term)
	return lo.Map(runes, func(_ rune, i int) string {
		return string(runes[:i+1])
	})
}

// indexLease is held by every index query; all batches share its readers.
const indexLease = "index"

// suggestTask looks prefix up in the cache effect before querying idx.
func suggestTask(idx *index, prefix string, maxSuggestions int) task.Task[[]string] {
	return func(ctx context.Context) ([]string, error) {
		words, found, err := cache.EffectGet[string, []string](ctx, prefix)
		if err != nil {
			return nil, err
		}
		if found {
			return words, nil
		}

		words, err = lease.Leased(indexLease, func(context.Context) ([]string, error) {
			return idx.Prefix(prefix, maxSuggestions)
		})(ctx)
		if err != nil {
			return nil, err
		}
		if err := cache.EffectPut(ctx, prefix, words); err != nil {
			log.TryLogEff(ctx, log.LogWarn, "suggestion not cached", map[string]interface{}{
				"prefix": prefix,
				"error":  err.Error(),
			})
		}
		return words, nil
	}
}

// suggest runs one bounded batch per term, one task per prefix.
func suggest(ctx context.Context, idx *index, terms []string, maxSuggestions int) ([]TermResult, error) {
	results := make([]TermResult, 0, len(terms))
	for _, term := range terms {
		ps := prefixes(term)
		tasks := lo.Map(ps, func(p string, _ int) task.Task[[]string] {
			return suggestTask(idx, p, maxSuggestions)
		})

		outcomes, err := task.Eff(ctx, tasks...)
		if err != nil {
			return nil, err
		}

		res := TermResult{Term: term, Suggestions: make([]Suggestion, len(ps))}
		for i, o := range outcomes {
			res.Suggestions[i] = Suggestion{Prefix: ps[i], Words: o.Value}
			if o.Err != nil {
				res.Suggestions[i].Error = o.Err.Error()
			}
		}
		results = append(results, res)
	}
	return results, nil
}
