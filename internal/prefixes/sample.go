package prefixes

import (
	"math/rand/v2"

	"github.com/topoprobe/campaign/internal/model"
)

// Sample shuffles a copy of groups using rnd and accumulates groups in
// shuffled order until the number of units exceeds target, including the
// group that caused the overshoot. It returns the selected groups and the
// number of units they contain.
//
// The result is never smaller than target when the groups contain at least
// target units, and it overshoots target by less than the size of the
// last selected group. When target is negative the result is empty, when
// it is zero the result contains a single group. The result is only
// reproducible when rnd is seeded with a fixed seed.
func Sample(groups []model.PrefixGroup, target int, rnd *rand.Rand) ([]model.PrefixGroup, int) {
	shuffled := append([]model.PrefixGroup{}, groups...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var (
		subset []model.PrefixGroup
		size   int
	)
	for _, group := range shuffled {
		if size > target {
			break
		}
		subset = append(subset, group)
		size += group.Size()
	}
	return subset, size
}

// NewRand returns a [*rand.Rand] seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
