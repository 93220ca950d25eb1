package quiz

import (
	"math/rand"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// BuildPool selects the records for one session. When max is within the
// available count a uniform sample without replacement is taken; when it
// exceeds the count the full list is repeated (reshuffled per repetition)
// until the pool reaches exactly max.
func BuildPool(records []domain.Record, max int, rng *rand.Rand) []domain.Record {
	if len(records) == 0 || max <= 0 {
		return nil
	}

	shuffle := func(in []domain.Record) []domain.Record {
		out := make([]domain.Record, len(in))
		copy(out, in)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	if max <= len(records) {
		return shuffle(records)[:max]
	}

	var pool []domain.Record
	for len(pool) < max {
		pool = append(pool, shuffle(records)...)
	}
	return pool[:max]
}
