package mocks

import (
	"context"

	"github.com/topoprobe/campaign/internal/model"
)

// Strategy allows mocking a [model.Strategy].
type Strategy struct {
	MockKind             func() model.StrategyKind
	MockRankPerAgent     func() map[string][]string
	MockDispatchPerAgent func() model.AgentTargets
	MockSelect           func(agent string, budget int, exploitationOnly bool) ([]string, []string)
}

var _ model.Strategy = &Strategy{}

// Kind calls MockKind.
func (s *Strategy) Kind() model.StrategyKind {
	return s.MockKind()
}

// RankPerAgent calls MockRankPerAgent.
func (s *Strategy) RankPerAgent() map[string][]string {
	return s.MockRankPerAgent()
}

// DispatchPerAgent calls MockDispatchPerAgent.
func (s *Strategy) DispatchPerAgent() model.AgentTargets {
	return s.MockDispatchPerAgent()
}

// Select calls MockSelect.
func (s *Strategy) Select(agent string, budget int, exploitationOnly bool) ([]string, []string) {
	return s.MockSelect(agent, budget, exploitationOnly)
}

// StrategyFactory allows mocking a [model.StrategyFactory].
type StrategyFactory struct {
	MockNewStrategy func(ctx context.Context, req *model.StrategyRequest) (model.Strategy, error)
}

var _ model.StrategyFactory = &StrategyFactory{}

// NewStrategy calls MockNewStrategy.
func (sf *StrategyFactory) NewStrategy(ctx context.Context, req *model.StrategyRequest) (model.Strategy, error) {
	return sf.MockNewStrategy(ctx, req)
}

// DiscoverySource allows mocking a [model.DiscoverySource].
type DiscoverySource struct {
	MockDiscoveries func(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error)
}

var _ model.DiscoverySource = &DiscoverySource{}

// Discoveries calls MockDiscoveries.
func (ds *DiscoverySource) Discoveries(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error) {
	return ds.MockDiscoveries(ctx, id)
}
