package model

//
// Selection strategy contract
//

import "context"

// DiscoveryGraph maps an agent to the number of links it discovered
// when probing each of the units it measured in a job.
type DiscoveryGraph map[string]map[string]int

// DiscoverySource returns the topology knowledge attributable to
// a finished job.
type DiscoverySource interface {
	// Discoveries returns the discoveries of the given job. The job
	// MUST be finished, otherwise the result is undefined.
	Discoveries(ctx context.Context, id JobID) (DiscoveryGraph, error)
}

// Strategy is a selection strategy instance built for a single cycle.
type Strategy interface {
	// Kind returns the strategy kind.
	Kind() StrategyKind

	// RankPerAgent returns the per-agent ranking, best first. The
	// return value is nil for kinds that do not rank.
	RankPerAgent() map[string][]string

	// DispatchPerAgent returns the per-agent dispatch. The return
	// value is nil for kinds that are not shared.
	DispatchPerAgent() AgentTargets

	// Select returns the targets the given agent should probe using the
	// given budget, as well as the subset chosen by exploitation.
	Select(agent string, budget int, exploitationOnly bool) (targets, exploitation []string)
}

// StrategyRequest contains the arguments of [StrategyFactory.NewStrategy].
type StrategyRequest struct {
	// Arm is the arm for which we're building the strategy.
	Arm *Arm

	// PriorJobID is the arm's previous job (empty for none).
	PriorJobID JobID

	// Universe is the authorized prefix universe.
	Universe *PrefixUniverse

	// Allocation is the per-agent allocation (shared kinds only).
	Allocation *AgentAllocation
}

// StrategyFactory builds a [Strategy] for a cycle.
type StrategyFactory interface {
	NewStrategy(ctx context.Context, req *StrategyRequest) (Strategy, error)
}
