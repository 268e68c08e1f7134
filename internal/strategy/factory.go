package strategy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/topoprobe/campaign/internal/model"
)

// Factory builds strategies. It implements [model.StrategyFactory].
//
// Construct using [NewFactory].
type Factory struct {
	// Discoveries is the MANDATORY source of discoveries.
	Discoveries model.DiscoverySource

	// Logger is the MANDATORY logger.
	Logger model.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ model.StrategyFactory = &Factory{}

// NewFactory creates a new [*Factory] whose strategies draw random
// numbers from a generator seeded with the given seed.
func NewFactory(source model.DiscoverySource, seed uint64, logger model.Logger) *Factory {
	return &Factory{
		Discoveries: source,
		Logger:      model.ValidLoggerOrDefault(logger),
		rnd:         rand.New(rand.NewPCG(seed, ^seed)),
	}
}

// newRand derives a generator for a single strategy. Arms may build
// strategies concurrently, hence the lock.
func (f *Factory) newRand() *rand.Rand {
	defer f.mu.Unlock()
	f.mu.Lock()
	return rand.New(rand.NewPCG(f.rnd.Uint64(), f.rnd.Uint64()))
}

// discoveries returns the discoveries of the prior job, if any.
func (f *Factory) discoveries(ctx context.Context, prior model.JobID) (model.DiscoveryGraph, error) {
	if prior == "" {
		return model.DiscoveryGraph{}, nil
	}
	graph, err := f.Discoveries.Discoveries(ctx, prior)
	if err != nil {
		return nil, fmt.Errorf("cannot load discoveries of %s: %w", prior, err)
	}
	f.Logger.Debugf("strategy: discoveries of %s: %d agents", prior, len(graph))
	return graph, nil
}

// NewStrategy implements model.StrategyFactory.
func (f *Factory) NewStrategy(ctx context.Context, req *model.StrategyRequest) (model.Strategy, error) {
	arm := req.Arm
	switch arm.Strategy {
	case model.StrategyExhaustive:
		return NewExhaustive(req.Universe), nil

	case model.StrategyEpsilonAdaptive:
		s, err := NewEpsilonAdaptive(arm.Epsilon, req.Universe, f.newRand())
		if err != nil {
			return nil, err
		}
		graph, err := f.discoveries(ctx, req.PriorJobID)
		if err != nil {
			return nil, err
		}
		s.ComputeRank(graph, arm.BGPAwareness)
		return s, nil

	case model.StrategyRandomShared:
		s := NewRandomShared(req.Universe, f.newRand())
		if err := s.ComputeDispatch(req.Allocation, arm.ExploitationOnly); err != nil {
			return nil, err
		}
		return s, nil

	case model.StrategyEpsilonSharedAdaptive:
		s, err := NewEpsilonSharedAdaptive(arm.Epsilon, req.Universe, f.newRand())
		if err != nil {
			return nil, err
		}
		graph, err := f.discoveries(ctx, req.PriorJobID)
		if err != nil {
			return nil, err
		}
		s.ComputeRank(graph, arm.BGPAwareness)
		if err := s.ComputeDispatch(req.Allocation, arm.ExploitationOnly); err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategyKind, arm.Strategy)
	}
}
