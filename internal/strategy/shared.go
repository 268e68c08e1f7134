package strategy

import (
	"math/rand/v2"
	"sort"

	"github.com/topoprobe/campaign/internal/model"
)

// Shared dispatches disjoint target sets to the agents sharing a global budget.
//
// The RandomShared kind dispatches random authorized targets. The
// EpsilonSharedAdaptive kind first lets each agent exploit its rank,
// skipping targets already dispatched, and then fills each agent's
// budget with random authorized targets.
type Shared struct {
	dispatch     model.AgentTargets
	epsilon      float64
	exploitation model.AgentTargets
	kind         model.StrategyKind
	rank         map[string][]string
	rnd          *rand.Rand
	universe     *model.PrefixUniverse
}

var _ model.Strategy = &Shared{}

// NewRandomShared creates a new random shared strategy. This kind
// does not rank, hence you can call ComputeDispatch right away.
func NewRandomShared(universe *model.PrefixUniverse, rnd *rand.Rand) *Shared {
	return &Shared{
		kind:     model.StrategyRandomShared,
		rank:     map[string][]string{},
		rnd:      rnd,
		universe: universe,
	}
}

// NewEpsilonSharedAdaptive creates a new epsilon shared adaptive strategy.
func NewEpsilonSharedAdaptive(epsilon float64, universe *model.PrefixUniverse, rnd *rand.Rand) (*Shared, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, ErrInvalidEpsilon
	}
	return &Shared{
		epsilon:  epsilon,
		kind:     model.StrategyEpsilonSharedAdaptive,
		rnd:      rnd,
		universe: universe,
	}, nil
}

// ComputeRank computes the rank using the given discoveries.
func (s *Shared) ComputeRank(graph model.DiscoveryGraph, bgpAwareness bool) {
	s.rank = ComputeRank(graph, s.universe, bgpAwareness)
}

// ComputeDispatch computes the per-agent dispatch using the given allocation.
func (s *Shared) ComputeDispatch(alloc *model.AgentAllocation, exploitationOnly bool) error {
	if s.rank == nil {
		return ErrRankNotComputed
	}
	if alloc == nil {
		return ErrNoAgentBudget
	}
	agents := append([]string{}, alloc.Agents...)
	sort.Strings(agents)

	used := make(map[string]bool)
	s.dispatch = make(model.AgentTargets, len(agents))
	s.exploitation = make(model.AgentTargets, len(agents))

	// exploitation first such that agents get their best targets
	for _, agent := range agents {
		count := 0
		if s.kind == model.StrategyEpsilonSharedAdaptive {
			count = exploitationCount(alloc.AgentBudget, s.epsilon, exploitationOnly)
		}
		s.exploitation[agent] = takeUnique([]string{}, s.rank[agent], count, used)
		s.dispatch[agent] = append([]string{}, s.exploitation[agent]...)
	}

	if exploitationOnly && s.kind == model.StrategyEpsilonSharedAdaptive {
		return nil
	}

	// then deal random targets that have not been dispatched yet
	pool := shuffled(s.universe.Units(), s.rnd)
	for _, agent := range agents {
		missing := alloc.AgentBudget - len(s.dispatch[agent])
		s.dispatch[agent] = takeUnique(s.dispatch[agent], pool, missing, used)
	}
	return nil
}

// Kind implements model.Strategy.
func (s *Shared) Kind() model.StrategyKind {
	return s.kind
}

// RankPerAgent implements model.Strategy.
func (s *Shared) RankPerAgent() map[string][]string {
	if s.kind == model.StrategyRandomShared {
		return nil
	}
	return s.rank
}

// DispatchPerAgent implements model.Strategy.
func (s *Shared) DispatchPerAgent() model.AgentTargets {
	return s.dispatch
}

// Select implements model.Strategy.
func (s *Shared) Select(agent string, budget int, exploitationOnly bool) ([]string, []string) {
	targets := capAt(s.dispatch[agent], budget)
	exploitation := capAt(s.exploitation[agent], len(targets))
	return targets, exploitation
}
