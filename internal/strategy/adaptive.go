package strategy

import (
	"math/rand/v2"

	"github.com/topoprobe/campaign/internal/model"
)

// EpsilonAdaptive is an epsilon-greedy strategy where each agent
// exploits its own rank and explores random authorized targets.
type EpsilonAdaptive struct {
	epsilon  float64
	rank     map[string][]string
	rnd      *rand.Rand
	universe *model.PrefixUniverse
}

var _ model.Strategy = &EpsilonAdaptive{}

// NewEpsilonAdaptive creates a new [*EpsilonAdaptive] strategy.
func NewEpsilonAdaptive(epsilon float64, universe *model.PrefixUniverse, rnd *rand.Rand) (*EpsilonAdaptive, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, ErrInvalidEpsilon
	}
	return &EpsilonAdaptive{epsilon: epsilon, rnd: rnd, universe: universe}, nil
}

// ComputeRank computes the rank using the given discoveries.
func (s *EpsilonAdaptive) ComputeRank(graph model.DiscoveryGraph, bgpAwareness bool) {
	s.rank = ComputeRank(graph, s.universe, bgpAwareness)
}

// Kind implements model.Strategy.
func (s *EpsilonAdaptive) Kind() model.StrategyKind {
	return model.StrategyEpsilonAdaptive
}

// RankPerAgent implements model.Strategy.
func (s *EpsilonAdaptive) RankPerAgent() map[string][]string {
	return s.rank
}

// DispatchPerAgent implements model.Strategy.
func (s *EpsilonAdaptive) DispatchPerAgent() model.AgentTargets {
	return nil
}

// Select implements model.Strategy.
//
// The agent exploits the top floor((1-epsilon)*budget) entries of its rank
// and fills the rest of the budget with random authorized targets. An agent
// without rank, such as any agent of the first cycle, only explores.
func (s *EpsilonAdaptive) Select(agent string, budget int, exploitationOnly bool) ([]string, []string) {
	used := make(map[string]bool)
	exploitation := takeUnique([]string{}, s.rank[agent],
		exploitationCount(budget, s.epsilon, exploitationOnly), used)
	targets := append([]string{}, exploitation...)
	if !exploitationOnly {
		targets = takeUnique(targets, shuffled(s.universe.Units(), s.rnd), budget-len(targets), used)
	}
	return targets, exploitation
}
