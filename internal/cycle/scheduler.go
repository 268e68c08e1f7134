// Package cycle implements the per-arm cycle scheduler.
//
// A [*Scheduler] is a finite state machine yielding one [*model.Cycle] per
// call to Next. After yielding a cycle, the scheduler refuses to yield the
// next one until PriorFinished says the cycle's job has finished, such that
// each cycle is built from the discoveries of the previous one.
package cycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/topoprobe/campaign/internal/model"
)

var (
	// ErrPriorPending indicates that the previous cycle's job has not finished yet.
	ErrPriorPending = errors.New("cycle: prior job still pending")

	// ErrExhausted indicates that the scheduler yielded all its cycles.
	ErrExhausted = errors.New("cycle: no more cycles")

	// ErrFailed indicates that a previous cycle failed.
	ErrFailed = errors.New("cycle: scheduler failed")

	// ErrNotAwaiting indicates PriorFinished was called while not awaiting.
	ErrNotAwaiting = errors.New("cycle: not awaiting prior completion")

	// ErrUnexpectedJob indicates PriorFinished was called with the wrong job.
	ErrUnexpectedJob = errors.New("cycle: unexpected job")
)

// Config contains the [*Scheduler] config.
type Config struct {
	// Agents OPTIONALLY restricts the agents of non-shared arms.
	Agents []string

	// Arm is the MANDATORY arm.
	Arm *model.Arm

	// Artifacts is the MANDATORY artifact store.
	Artifacts model.ArtifactStore

	// Budgeter is the MANDATORY agent budgeter used by shared arms.
	Budgeter model.AgentBudgeter

	// Cycles is the number of cycles to yield.
	Cycles int

	// Factory is the MANDATORY strategy factory.
	Factory model.StrategyFactory

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Recorder is the OPTIONAL cycle recorder.
	Recorder model.CycleRecorder

	// Submitter is the MANDATORY job submitter.
	Submitter model.JobSubmitter

	// Universe is the MANDATORY prefix universe.
	Universe *model.PrefixUniverse
}

// Scheduler yields the cycles of an arm. The zero value is invalid;
// construct using [NewScheduler]. A Scheduler is not safe for concurrent use.
type Scheduler struct {
	config  *Config
	current *model.Cycle
	err     error
	index   int
	prior   model.JobID
	state   State
}

// NewScheduler creates a new [*Scheduler]. The first cycle uses
// the arm's initial job, if any, as its prior job.
func NewScheduler(config *Config) *Scheduler {
	return &Scheduler{
		config: config,
		prior:  config.Arm.InitialJobID,
		state:  StateBuildingStrategy,
	}
}

// Arm returns the arm.
func (s *Scheduler) Arm() *model.Arm {
	return s.config.Arm
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Index returns the index of the next cycle to build.
func (s *Scheduler) Index() int {
	return s.index
}

// Current returns the last yielded cycle, or nil.
func (s *Scheduler) Current() *model.Cycle {
	return s.current
}

// Err returns the error that moved the scheduler to [StateFailed].
func (s *Scheduler) Err() error {
	return s.err
}

// Next builds the strategy, submits the job, and persists the
// artifacts of the next cycle. On success, the scheduler moves to
// [StateAwaitingPriorCompletion] and returns the cycle. Any failure
// moves the scheduler to [StateFailed]. Once all cycles have been
// yielded, Next returns [ErrExhausted].
func (s *Scheduler) Next(ctx context.Context) (*model.Cycle, error) {
	switch s.state {
	case StateAwaitingPriorCompletion:
		return nil, ErrPriorPending
	case StateDone:
		return nil, ErrExhausted
	case StateFailed:
		return nil, fmt.Errorf("%w: %w", ErrFailed, s.err)
	}
	if s.index >= s.config.Cycles {
		s.state = StateDone
		return nil, ErrExhausted
	}
	cycle, err := s.next(ctx)
	if err != nil {
		s.state = StateFailed
		s.err = fmt.Errorf("%s: cycle %d: %w", s.config.Arm.Name, s.index, err)
		return nil, s.err
	}
	s.current = cycle
	s.state = StateAwaitingPriorCompletion
	return cycle, nil
}

func (s *Scheduler) next(ctx context.Context) (*model.Cycle, error) {
	arm, logger := s.config.Arm, s.config.Logger
	totalBudget, maxRounds := arm.Budget(s.index)
	cycle := &model.Cycle{
		Arm:         arm,
		Index:       s.index,
		InputJobID:  s.prior,
		TotalBudget: totalBudget,
		MaxRounds:   maxRounds,
		Status:      model.CycleBuilding,
	}
	logger.Infof("cycle %d: budget %d, rounds %d, prior job %q", s.index, totalBudget, maxRounds, s.prior)

	// shared arms split the total budget across agents
	var alloc *model.AgentAllocation
	jreq := &model.JobRequest{
		Arm:       arm,
		Budget:    totalBudget,
		MaxRounds: maxRounds,
		Agents:    s.config.Agents,
	}
	if arm.Strategy.IsShared() {
		var err error
		alloc, err = s.config.Budgeter.AgentBudget(ctx, arm.Name, totalBudget, maxRounds)
		if err != nil {
			return nil, fmt.Errorf("cannot allocate budget: %w", err)
		}
		jreq.Budget, jreq.MaxRounds, jreq.Agents = alloc.AgentBudget, alloc.AgentRounds, alloc.Agents
	}

	strategy, err := s.config.Factory.NewStrategy(ctx, &model.StrategyRequest{
		Arm:        arm,
		PriorJobID: s.prior,
		Universe:   s.config.Universe,
		Allocation: alloc,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot build strategy: %w", err)
	}
	jreq.Strategy = strategy

	s.state = StateSubmitting
	sub, err := s.config.Submitter.SubmitJob(ctx, jreq)
	if err != nil {
		return nil, fmt.Errorf("cannot submit job: %w", err)
	}
	cycle.OutputJobID = sub.JobID
	cycle.ExploitationPerAgent = sub.ExploitationPerAgent
	cycle.PrefixesPerAgent = sub.PrefixesPerAgent
	cycle.Status = model.CycleSubmitted

	if err := s.config.Artifacts.PutCycle(cycle); err != nil {
		return nil, fmt.Errorf("cannot persist artifacts: %w", err)
	}
	cycle.Status = model.CyclePersisted
	s.state = StatePersisted
	if s.config.Recorder != nil {
		if err := s.config.Recorder.CycleSubmitted(cycle); err != nil {
			return nil, fmt.Errorf("cannot record cycle: %w", err)
		}
	}

	logger.Infof("cycle %d: job %s: %d targets, %d by exploitation", s.index, cycle.OutputJobID,
		cycle.PrefixesPerAgent.Count(), cycle.ExploitationPerAgent.Count())
	return cycle, nil
}

// PriorFinished tells the scheduler that the job of the last yielded
// cycle has finished, which allows Next to build the next cycle.
func (s *Scheduler) PriorFinished(id model.JobID) error {
	if s.state != StateAwaitingPriorCompletion {
		return fmt.Errorf("%w: %s", ErrNotAwaiting, s.state)
	}
	if id != s.current.OutputJobID {
		return fmt.Errorf("%w: %s", ErrUnexpectedJob, id)
	}
	s.current.Status = model.CycleFinished
	if s.config.Recorder != nil {
		if err := s.config.Recorder.CycleFinished(s.current); err != nil {
			s.state, s.err = StateFailed, err
			return err
		}
	}
	s.prior = id
	s.index++
	s.state = StateBuildingStrategy
	if s.index >= s.config.Cycles {
		s.state = StateDone
	}
	return nil
}
