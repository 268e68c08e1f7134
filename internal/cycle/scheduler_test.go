package cycle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/model/mocks"
)

// env is the environment used by the scheduler tests.
type env struct {
	priors    []model.JobID
	requests  []*model.JobRequest
	persisted []*model.Cycle
	recorded  []string
}

func (e *env) newConfig(arm *model.Arm, cycles int) *Config {
	return &Config{
		Arm: arm,
		Artifacts: &mocks.ArtifactStore{
			MockPutCycle: func(cycle *model.Cycle) error {
				e.persisted = append(e.persisted, cycle)
				return nil
			},
		},
		Budgeter: &mocks.AgentBudgeter{
			MockAgentBudget: func(ctx context.Context, armName string, totalBudget, maxRounds int) (*model.AgentAllocation, error) {
				return &model.AgentAllocation{
					Agents:      []string{"agent-1", "agent-2"},
					AgentBudget: totalBudget / 2,
					AgentRounds: maxRounds,
				}, nil
			},
		},
		Cycles: cycles,
		Factory: &mocks.StrategyFactory{
			MockNewStrategy: func(ctx context.Context, req *model.StrategyRequest) (model.Strategy, error) {
				e.priors = append(e.priors, req.PriorJobID)
				return &mocks.Strategy{}, nil
			},
		},
		Logger: model.DiscardLogger,
		Recorder: &mocks.CycleRecorder{
			MockCycleSubmitted: func(cycle *model.Cycle) error {
				e.recorded = append(e.recorded, fmt.Sprintf("submitted %s", cycle.OutputJobID))
				return nil
			},
			MockCycleFinished: func(cycle *model.Cycle) error {
				e.recorded = append(e.recorded, fmt.Sprintf("finished %s", cycle.OutputJobID))
				return nil
			},
		},
		Submitter: &mocks.JobSubmitter{
			MockSubmitJob: func(ctx context.Context, req *model.JobRequest) (*model.JobSubmission, error) {
				e.requests = append(e.requests, req)
				return &model.JobSubmission{
					JobID:                model.JobID(fmt.Sprintf("job-%d", len(e.requests)-1)),
					ExploitationPerAgent: model.AgentTargets{"agent-1": {}},
					PrefixesPerAgent:     model.AgentTargets{"agent-1": {"192.0.2.0/24"}},
				}, nil
			},
		},
		Universe: model.NewPrefixUniverse(nil),
	}
}

func newArm(kind model.StrategyKind) *model.Arm {
	return &model.Arm{
		Name:     "edgenet-1",
		Budget:   model.ConstantBudget(100, 10),
		Strategy: kind,
	}
}

func TestSchedulerYieldsChainedCycles(t *testing.T) {
	e := &env{}
	s := NewScheduler(e.newConfig(newArm(model.StrategyEpsilonAdaptive), 3))

	var ids []model.JobID
	for idx := 0; idx < 3; idx++ {
		cycle, err := s.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if cycle.Index != idx || cycle.Status != model.CyclePersisted {
			t.Fatal("unexpected cycle", cycle.Index, cycle.Status)
		}

		// the cycle must be built from the previous cycle's job only
		var expectPrior model.JobID
		if idx > 0 {
			expectPrior = ids[idx-1]
		}
		if cycle.InputJobID != expectPrior || e.priors[idx] != expectPrior {
			t.Fatal("unexpected prior job", cycle.InputJobID, e.priors[idx])
		}

		// we cannot advance until the job has finished
		if _, err := s.Next(context.Background()); !errors.Is(err, ErrPriorPending) {
			t.Fatal("unexpected error", err)
		}

		ids = append(ids, cycle.OutputJobID)
		if err := s.PriorFinished(cycle.OutputJobID); err != nil {
			t.Fatal(err)
		}
		if cycle.Status != model.CycleFinished {
			t.Fatal("unexpected status", cycle.Status)
		}
	}

	if diff := cmp.Diff([]model.JobID{"job-0", "job-1", "job-2"}, ids); diff != "" {
		t.Fatal(diff)
	}
	if s.State() != StateDone {
		t.Fatal("unexpected state", s.State())
	}
	if _, err := s.Next(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Fatal("unexpected error", err)
	}
	if len(e.persisted) != 3 {
		t.Fatal("unexpected number of persisted cycles", len(e.persisted))
	}
	expectRecorded := []string{
		"submitted job-0", "finished job-0",
		"submitted job-1", "finished job-1",
		"submitted job-2", "finished job-2",
	}
	if diff := cmp.Diff(expectRecorded, e.recorded); diff != "" {
		t.Fatal(diff)
	}
}

func TestSchedulerWithZeroCycles(t *testing.T) {
	e := &env{}
	s := NewScheduler(e.newConfig(newArm(model.StrategyExhaustive), 0))
	if _, err := s.Next(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Fatal("unexpected error", err)
	}
	if len(e.requests) != 0 {
		t.Fatal("expected no submissions")
	}
}

func TestSchedulerResumesFromInitialJob(t *testing.T) {
	e := &env{}
	arm := newArm(model.StrategyEpsilonAdaptive)
	arm.InitialJobID = "previous"
	s := NewScheduler(e.newConfig(arm, 1))
	cycle, err := s.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cycle.InputJobID != "previous" || e.priors[0] != "previous" {
		t.Fatal("unexpected prior job", cycle.InputJobID)
	}
}

func TestSchedulerBudget(t *testing.T) {
	t.Run("adaptive arms use the total budget per agent", func(t *testing.T) {
		e := &env{}
		s := NewScheduler(e.newConfig(newArm(model.StrategyEpsilonAdaptive), 1))
		if _, err := s.Next(context.Background()); err != nil {
			t.Fatal(err)
		}
		if e.requests[0].Budget != 100 || e.requests[0].MaxRounds != 10 {
			t.Fatal("unexpected request", e.requests[0])
		}
	})

	t.Run("shared arms split the total budget", func(t *testing.T) {
		e := &env{}
		s := NewScheduler(e.newConfig(newArm(model.StrategyRandomShared), 1))
		cycle, err := s.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if e.requests[0].Budget != 50 || len(e.requests[0].Agents) != 2 {
			t.Fatal("unexpected request", e.requests[0])
		}
		if cycle.TotalBudget != 100 {
			t.Fatal("unexpected total budget", cycle.TotalBudget)
		}
	})

	t.Run("the budget depends on the cycle index", func(t *testing.T) {
		e := &env{}
		arm := newArm(model.StrategyExhaustive)
		arm.Budget = func(cycle int) (int, int) {
			return 10 * (cycle + 1), cycle + 1
		}
		s := NewScheduler(e.newConfig(arm, 2))
		for idx := 0; idx < 2; idx++ {
			cycle, err := s.Next(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if err := s.PriorFinished(cycle.OutputJobID); err != nil {
				t.Fatal(err)
			}
		}
		if e.requests[0].Budget != 10 || e.requests[1].Budget != 20 {
			t.Fatal("unexpected budgets")
		}
	})
}

func TestSchedulerFailures(t *testing.T) {
	expected := errors.New("mocked error")

	t.Run("when the strategy cannot be built", func(t *testing.T) {
		e := &env{}
		config := e.newConfig(newArm(model.StrategyEpsilonAdaptive), 2)
		config.Factory = &mocks.StrategyFactory{
			MockNewStrategy: func(ctx context.Context, req *model.StrategyRequest) (model.Strategy, error) {
				return nil, expected
			},
		}
		s := NewScheduler(config)
		if _, err := s.Next(context.Background()); !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if s.State() != StateFailed || len(e.requests) != 0 {
			t.Fatal("unexpected state", s.State())
		}
		_, err := s.Next(context.Background())
		if !errors.Is(err, ErrFailed) || !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the submission fails", func(t *testing.T) {
		e := &env{}
		config := e.newConfig(newArm(model.StrategyExhaustive), 2)
		config.Submitter = &mocks.JobSubmitter{
			MockSubmitJob: func(ctx context.Context, req *model.JobRequest) (*model.JobSubmission, error) {
				return nil, expected
			},
		}
		s := NewScheduler(config)
		if _, err := s.Next(context.Background()); !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if len(e.persisted) != 0 {
			t.Fatal("should not have persisted anything")
		}
	})

	t.Run("when the budget cannot be allocated", func(t *testing.T) {
		e := &env{}
		config := e.newConfig(newArm(model.StrategyEpsilonSharedAdaptive), 2)
		config.Budgeter = &mocks.AgentBudgeter{
			MockAgentBudget: func(ctx context.Context, armName string, totalBudget, maxRounds int) (*model.AgentAllocation, error) {
				return nil, expected
			},
		}
		s := NewScheduler(config)
		if _, err := s.Next(context.Background()); !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("when the artifacts cannot be persisted", func(t *testing.T) {
		e := &env{}
		config := e.newConfig(newArm(model.StrategyExhaustive), 2)
		config.Artifacts = &mocks.ArtifactStore{
			MockPutCycle: func(cycle *model.Cycle) error {
				return expected
			},
		}
		s := NewScheduler(config)
		if _, err := s.Next(context.Background()); !errors.Is(err, expected) {
			t.Fatal("unexpected error", err)
		}
		if s.State() != StateFailed {
			t.Fatal("unexpected state", s.State())
		}
	})

	t.Run("PriorFinished when not awaiting", func(t *testing.T) {
		e := &env{}
		s := NewScheduler(e.newConfig(newArm(model.StrategyExhaustive), 2))
		if err := s.PriorFinished("job-0"); !errors.Is(err, ErrNotAwaiting) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("PriorFinished with the wrong job", func(t *testing.T) {
		e := &env{}
		s := NewScheduler(e.newConfig(newArm(model.StrategyExhaustive), 2))
		if _, err := s.Next(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := s.PriorFinished("antani"); !errors.Is(err, ErrUnexpectedJob) {
			t.Fatal("unexpected error", err)
		}
		if s.State() != StateAwaitingPriorCompletion {
			t.Fatal("unexpected state", s.State())
		}
	})
}

func TestStateString(t *testing.T) {
	if StateAwaitingPriorCompletion.String() != "awaiting_prior_completion" {
		t.Fatal("unexpected string")
	}
	if State(100).String() != "unknown" {
		t.Fatal("unexpected string")
	}
}
