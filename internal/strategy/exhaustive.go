package strategy

import "github.com/topoprobe/campaign/internal/model"

// Exhaustive treats every authorized target as top ranked.
type Exhaustive struct {
	units []string
}

var _ model.Strategy = &Exhaustive{}

// NewExhaustive creates a new [*Exhaustive] strategy.
func NewExhaustive(universe *model.PrefixUniverse) *Exhaustive {
	return &Exhaustive{units: universe.Units()}
}

// Kind implements model.Strategy.
func (s *Exhaustive) Kind() model.StrategyKind {
	return model.StrategyExhaustive
}

// RankPerAgent implements model.Strategy.
func (s *Exhaustive) RankPerAgent() map[string][]string {
	return nil
}

// DispatchPerAgent implements model.Strategy.
func (s *Exhaustive) DispatchPerAgent() model.AgentTargets {
	return nil
}

// Select implements model.Strategy.
func (s *Exhaustive) Select(agent string, budget int, exploitationOnly bool) ([]string, []string) {
	return capAt(s.units, budget), []string{}
}
