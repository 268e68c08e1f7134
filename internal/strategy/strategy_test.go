package strategy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/model/mocks"
)

// newUniverse returns a universe with routes of the given sizes.
func newUniverse(sizes ...int) *model.PrefixUniverse {
	var groups []model.PrefixGroup
	for gidx, size := range sizes {
		group := model.PrefixGroup{Route: fmt.Sprintf("10.%d.0.0/16", gidx)}
		for uidx := 0; uidx < size; uidx++ {
			group.Units = append(group.Units, fmt.Sprintf("10.%d.%d.0/24", gidx, uidx))
		}
		groups = append(groups, group)
	}
	return model.NewPrefixUniverse(groups)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestComputeRank(t *testing.T) {
	universe := newUniverse(3, 2)
	graph := model.DiscoveryGraph{
		"agent-1": {
			"10.0.0.0/24":  2,
			"10.1.0.0/24":  5,
			"10.0.1.0/24":  2,
			"10.1.1.0/24":  0,
			"192.0.2.0/24": 100, // not authorized
		},
	}

	t.Run("without BGP awareness", func(t *testing.T) {
		rank := ComputeRank(graph, universe, false)
		expect := map[string][]string{
			"agent-1": {"10.1.0.0/24", "10.0.0.0/24", "10.0.1.0/24"},
		}
		if diff := cmp.Diff(expect, rank); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with BGP awareness", func(t *testing.T) {
		rank := ComputeRank(graph, universe, true)
		expect := map[string][]string{
			"agent-1": {
				"10.1.0.0/24", "10.1.1.0/24", // route score 5
				"10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24", // route score 4
			},
		}
		if diff := cmp.Diff(expect, rank); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with empty graph", func(t *testing.T) {
		rank := ComputeRank(model.DiscoveryGraph{}, universe, true)
		if rank == nil || len(rank) != 0 {
			t.Fatal("expected empty non-nil rank")
		}
	})
}

func TestExhaustive(t *testing.T) {
	s := NewExhaustive(newUniverse(2, 2))
	if s.Kind() != model.StrategyExhaustive || s.RankPerAgent() != nil || s.DispatchPerAgent() != nil {
		t.Fatal("unexpected strategy properties")
	}

	t.Run("budget larger than the universe", func(t *testing.T) {
		targets, exploitation := s.Select("agent-1", 100, false)
		if len(targets) != 4 || len(exploitation) != 0 {
			t.Fatal("unexpected selection", targets, exploitation)
		}
	})

	t.Run("budget smaller than the universe", func(t *testing.T) {
		targets, _ := s.Select("agent-1", 3, false)
		expect := []string{"10.0.0.0/24", "10.0.1.0/24", "10.1.0.0/24"}
		if diff := cmp.Diff(expect, targets); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("zero budget", func(t *testing.T) {
		targets, _ := s.Select("agent-1", 0, false)
		if len(targets) != 0 {
			t.Fatal("expected no targets")
		}
	})
}

func TestEpsilonAdaptive(t *testing.T) {
	universe := newUniverse(10, 10)
	graph := model.DiscoveryGraph{
		"agent-1": {"10.0.0.0/24": 9, "10.0.1.0/24": 8, "10.0.2.0/24": 7, "10.0.3.0/24": 6},
	}

	t.Run("with invalid epsilon", func(t *testing.T) {
		if _, err := NewEpsilonAdaptive(1.5, universe, newRand()); !errors.Is(err, ErrInvalidEpsilon) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("mixes exploitation and exploration", func(t *testing.T) {
		s, err := NewEpsilonAdaptive(0.5, universe, newRand())
		if err != nil {
			t.Fatal(err)
		}
		s.ComputeRank(graph, false)
		targets, exploitation := s.Select("agent-1", 6, false)
		expectExploitation := []string{"10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24"}
		if diff := cmp.Diff(expectExploitation, exploitation); diff != "" {
			t.Fatal(diff)
		}
		if len(targets) != 6 {
			t.Fatal("unexpected number of targets", len(targets))
		}
		if diff := cmp.Diff(exploitation, targets[:3]); diff != "" {
			t.Fatal(diff)
		}
		seen := make(map[string]bool)
		for _, target := range targets {
			if seen[target] || !universe.Contains(target) {
				t.Fatal("duplicate or unauthorized target", target)
			}
			seen[target] = true
		}
	})

	t.Run("exploitation only", func(t *testing.T) {
		s, _ := NewEpsilonAdaptive(0.5, universe, newRand())
		s.ComputeRank(graph, false)
		targets, exploitation := s.Select("agent-1", 6, true)
		if len(exploitation) != 4 || len(targets) != 4 {
			t.Fatal("unexpected selection", targets, exploitation)
		}
	})

	t.Run("agent without rank only explores", func(t *testing.T) {
		s, _ := NewEpsilonAdaptive(0.1, universe, newRand())
		s.ComputeRank(model.DiscoveryGraph{}, false)
		targets, exploitation := s.Select("agent-2", 5, false)
		if len(exploitation) != 0 || len(targets) != 5 {
			t.Fatal("unexpected selection", targets, exploitation)
		}
	})
}

func TestShared(t *testing.T) {
	universe := newUniverse(10, 10)
	alloc := &model.AgentAllocation{
		Agents:      []string{"agent-2", "agent-1", "agent-3"},
		AgentBudget: 5,
		AgentRounds: 10,
	}

	checkDisjoint := func(t *testing.T, dispatch model.AgentTargets) {
		seen := make(map[string]bool)
		for _, targets := range dispatch {
			for _, target := range targets {
				if seen[target] {
					t.Fatal("target dispatched twice", target)
				}
				seen[target] = true
			}
		}
	}

	t.Run("random shared dispatches disjoint sets", func(t *testing.T) {
		s := NewRandomShared(universe, newRand())
		if err := s.ComputeDispatch(alloc, false); err != nil {
			t.Fatal(err)
		}
		dispatch := s.DispatchPerAgent()
		if len(dispatch) != 3 || dispatch.Count() != 15 {
			t.Fatal("unexpected dispatch", dispatch)
		}
		checkDisjoint(t, dispatch)
		if s.RankPerAgent() != nil {
			t.Fatal("random shared should not rank")
		}
	})

	t.Run("dispatch before rank", func(t *testing.T) {
		s, _ := NewEpsilonSharedAdaptive(0.2, universe, newRand())
		if err := s.ComputeDispatch(alloc, false); !errors.Is(err, ErrRankNotComputed) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("dispatch without allocation", func(t *testing.T) {
		s := NewRandomShared(universe, newRand())
		if err := s.ComputeDispatch(nil, false); !errors.Is(err, ErrNoAgentBudget) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("epsilon shared adaptive skips targets exploited by other agents", func(t *testing.T) {
		s, _ := NewEpsilonSharedAdaptive(0.4, universe, newRand())
		s.ComputeRank(model.DiscoveryGraph{
			"agent-1": {"10.0.0.0/24": 5, "10.0.1.0/24": 4, "10.0.2.0/24": 3},
			"agent-2": {"10.0.0.0/24": 5, "10.1.0.0/24": 4, "10.1.1.0/24": 3},
		}, false)
		if err := s.ComputeDispatch(alloc, false); err != nil {
			t.Fatal(err)
		}
		dispatch := s.DispatchPerAgent()
		checkDisjoint(t, dispatch)
		if dispatch.Count() != 15 {
			t.Fatal("unexpected dispatch size", dispatch.Count())
		}
		targets, exploitation := s.Select("agent-2", 5, false)
		expect := []string{"10.1.0.0/24", "10.1.1.0/24"}
		if diff := cmp.Diff(expect, exploitation); diff != "" {
			t.Fatal(diff)
		}
		if len(targets) != 5 {
			t.Fatal("unexpected number of targets", len(targets))
		}
	})

	t.Run("epsilon shared adaptive with exploitation only", func(t *testing.T) {
		s, _ := NewEpsilonSharedAdaptive(0.4, universe, newRand())
		s.ComputeRank(model.DiscoveryGraph{
			"agent-1": {"10.0.0.0/24": 5},
		}, false)
		if err := s.ComputeDispatch(alloc, true); err != nil {
			t.Fatal(err)
		}
		if count := s.DispatchPerAgent().Count(); count != 1 {
			t.Fatal("unexpected dispatch size", count)
		}
	})
}

func TestFactory(t *testing.T) {
	universe := newUniverse(4, 4)
	graph := model.DiscoveryGraph{"agent-1": {"10.0.0.0/24": 3}}

	newSource := func(calls *[]model.JobID) *mocks.DiscoverySource {
		return &mocks.DiscoverySource{
			MockDiscoveries: func(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error) {
				*calls = append(*calls, id)
				return graph, nil
			},
		}
	}

	t.Run("first cycle does not load discoveries", func(t *testing.T) {
		var calls []model.JobID
		f := NewFactory(newSource(&calls), 0, model.DiscardLogger)
		s, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
			Arm:      &model.Arm{Strategy: model.StrategyEpsilonAdaptive, Epsilon: 0.1},
			Universe: universe,
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(calls) != 0 || len(s.RankPerAgent()) != 0 {
			t.Fatal("unexpected discoveries", calls)
		}
	})

	t.Run("later cycles load the discoveries of the prior job", func(t *testing.T) {
		var calls []model.JobID
		f := NewFactory(newSource(&calls), 0, model.DiscardLogger)
		s, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
			Arm:        &model.Arm{Strategy: model.StrategyEpsilonSharedAdaptive, Epsilon: 0.1},
			PriorJobID: "job-0",
			Universe:   universe,
			Allocation: &model.AgentAllocation{Agents: []string{"agent-1"}, AgentBudget: 2},
		})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]model.JobID{"job-0"}, calls); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff([]string{"10.0.0.0/24"}, s.RankPerAgent()["agent-1"]); diff != "" {
			t.Fatal(diff)
		}
		if s.DispatchPerAgent().Count() != 2 {
			t.Fatal("unexpected dispatch", s.DispatchPerAgent())
		}
	})

	t.Run("failure to load discoveries fails the strategy", func(t *testing.T) {
		expected := errors.New("mocked error")
		f := NewFactory(&mocks.DiscoverySource{
			MockDiscoveries: func(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error) {
				return nil, expected
			},
		}, 0, model.DiscardLogger)
		s, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
			Arm:        &model.Arm{Strategy: model.StrategyEpsilonAdaptive},
			PriorJobID: "job-0",
			Universe:   universe,
		})
		if !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if s != nil {
			t.Fatal("expected nil strategy")
		}
	})

	t.Run("shared kinds require the allocation", func(t *testing.T) {
		f := NewFactory(NoDiscoveries{}, 0, model.DiscardLogger)
		_, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
			Arm:      &model.Arm{Strategy: model.StrategyRandomShared},
			Universe: universe,
		})
		if !errors.Is(err, ErrNoAgentBudget) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		f := NewFactory(NoDiscoveries{}, 0, model.DiscardLogger)
		_, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
			Arm:      &model.Arm{Strategy: "antani"},
			Universe: universe,
		})
		if !errors.Is(err, model.ErrUnknownStrategyKind) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("same seed same selection", func(t *testing.T) {
		selectAll := func() []string {
			f := NewFactory(NoDiscoveries{}, 7, model.DiscardLogger)
			s, err := f.NewStrategy(context.Background(), &model.StrategyRequest{
				Arm:      &model.Arm{Strategy: model.StrategyEpsilonAdaptive, Epsilon: 1},
				Universe: universe,
			})
			if err != nil {
				t.Fatal(err)
			}
			targets, _ := s.Select("agent-1", 5, false)
			return targets
		}
		first, second := selectAll(), selectAll()
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatal(diff)
		}
		sorted := append([]string{}, first...)
		sort.Strings(sorted)
		if len(sorted) != 5 {
			t.Fatal("unexpected number of targets")
		}
	})
}
