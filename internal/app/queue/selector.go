// Package queue provides the live playback queue and random selection.
package queue

import (
	"math/rand"

	"github.com/moshpit-dev/moshpit/internal/domain/moment"
)

// PickRandom returns a uniformly random moment from candidates, excluding
// exclude by identity when more than one candidate exists. When exclusion
// would empty the set it is dropped, so a non-nil result is guaranteed for
// any non-empty candidates slice. The input is never mutated.
func PickRandom(rng *rand.Rand, candidates []moment.Moment, exclude *moment.Moment) *moment.Moment {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 || exclude == nil {
		m := candidates[rng.Intn(len(candidates))].Clone()
		return &m
	}

	pool := make([]moment.Moment, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != exclude.ID {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}

	m := pool[rng.Intn(len(pool))].Clone()
	return &m
}

// Shuffle permutes items in place using Fisher–Yates.
func Shuffle(rng *rand.Rand, items []moment.Moment) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
