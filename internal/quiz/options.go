// Package quiz implements the quiz engine: option generation, pool
// construction, the interactive session loop, and the results export.
package quiz

import (
	"math/rand"
	"strings"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/render"
)

// matchesAny reports whether the stripped, lowercased question text contains
// any of the configured keywords.
func matchesAny(question string, keywords []string) (string, bool) {
	q := strings.ToLower(render.Strip(question))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(q, kw) {
			return kw, true
		}
	}
	return "", false
}

// Options builds the option set for one question: the correct answer plus up
// to n-1 distinct distractors drawn from the answers of other records.
//
// Boolean questions (matched by keyword) short-circuit to the two boolean
// tokens. Questions matching a grouping keyword draw distractors from records
// sharing that keyword first, topping up from the full pool when the group is
// too small. The result is deduplicated and shuffled; it may be shorter than
// n when not enough distinct answers exist.
func Options(rec domain.Record, all []domain.Record, cfg *config.Config, n int, rng *rand.Rand) []string {
	if _, ok := matchesAny(rec.Question, cfg.BoolKeywords); ok {
		opts := []string{cfg.TrueToken, cfg.FalseToken}
		rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
		return opts
	}

	want := n - 1
	if want < 0 {
		want = 0
	}

	var distractors []string
	seen := map[string]bool{
		domain.Normalize(rec.Answer):     true,
		domain.Normalize(cfg.TrueToken):  true,
		domain.Normalize(cfg.FalseToken): true,
	}

	take := func(candidates []string, k int) {
		shuffled := make([]string, len(candidates))
		copy(shuffled, candidates)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, c := range shuffled {
			if k <= 0 {
				return
			}
			norm := domain.Normalize(c)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			distractors = append(distractors, c)
			k--
		}
	}

	if kw, ok := matchesAny(rec.Question, cfg.GroupKeywords); ok {
		var group []string
		for _, other := range all {
			if other.ID == rec.ID {
				continue
			}
			// Membership is plain containment: a question belongs to the
			// group even when an earlier keyword in the list also matches it.
			q := strings.ToLower(render.Strip(other.Question))
			if strings.Contains(q, kw) {
				group = append(group, other.Answer)
			}
		}
		take(group, want)
	}

	if len(distractors) < want {
		full := make([]string, 0, len(all))
		for _, other := range all {
			if other.ID != rec.ID {
				full = append(full, other.Answer)
			}
		}
		take(full, want-len(distractors))
	}

	opts := append(distractors, rec.Answer)
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
