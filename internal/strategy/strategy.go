// Package strategy implements the target selection strategies.
//
// Every strategy is built for a single cycle by [*Factory]. Strategies
// using the discoveries of the prior job first compute the rank and then,
// for shared kinds, the dispatch. Computing the dispatch before the rank
// fails with [ErrRankNotComputed].
package strategy

import (
	"errors"
	"math"
	"math/rand/v2"
)

var (
	// ErrRankNotComputed indicates we attempted to dispatch before ranking.
	ErrRankNotComputed = errors.New("strategy: rank not computed")

	// ErrNoAgentBudget indicates that a shared strategy is missing the per-agent allocation.
	ErrNoAgentBudget = errors.New("strategy: missing per-agent budget")

	// ErrInvalidEpsilon indicates that epsilon is not within [0, 1].
	ErrInvalidEpsilon = errors.New("strategy: epsilon must be within [0, 1]")
)

// exploitationCount returns how many targets out of budget should be
// chosen by exploitation.
func exploitationCount(budget int, epsilon float64, exploitationOnly bool) int {
	if budget <= 0 {
		return 0
	}
	if exploitationOnly {
		return budget
	}
	return int(math.Floor((1 - epsilon) * float64(budget)))
}

// takeUnique appends to out up to count entries of candidates that
// are not in used, marking them as used.
func takeUnique(out, candidates []string, count int, used map[string]bool) []string {
	for _, candidate := range candidates {
		if count <= 0 {
			break
		}
		if used[candidate] {
			continue
		}
		used[candidate] = true
		out = append(out, candidate)
		count--
	}
	return out
}

// shuffled returns a shuffled copy of values.
func shuffled(values []string, rnd *rand.Rand) []string {
	out := append([]string{}, values...)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// capAt returns at most n entries of values.
func capAt(values []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	if len(values) > n {
		values = values[:n]
	}
	return append([]string{}, values...)
}
