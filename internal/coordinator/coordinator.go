// Package coordinator runs the cycles of all the arms of a campaign.
//
// In the default global mode, the [*Coordinator] asks every arm for its
// next cycle, waits at a barrier until all the cycles' jobs have finished,
// records the jobs in each arm's history and ledger, and only then moves
// on to the next cycle index. An arm resuming from an initial job first
// waits at the barrier for that job. In per-arm mode, each arm waits only for
// its own job and arms advance independently.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/topoprobe/campaign/internal/cycle"
	"github.com/topoprobe/campaign/internal/model"
	"golang.org/x/sync/errgroup"
)

// BarrierMode is the barrier mode.
type BarrierMode string

const (
	// BarrierGlobal waits for the jobs of all arms before advancing.
	BarrierGlobal = BarrierMode("global")

	// BarrierPerArm lets each arm advance as soon as its own job finishes.
	BarrierPerArm = BarrierMode("per-arm")
)

// ErrUnknownBarrierMode indicates that the barrier mode is not known.
var ErrUnknownBarrierMode = errors.New("coordinator: unknown barrier mode")

// DefaultPollInterval is the default interval between status sweeps.
const DefaultPollInterval = 10 * time.Second

// ProgressFunc is called after each barrier sweep with the number
// of finished jobs and the number of jobs we're waiting for. In per-arm
// mode, it may be called concurrently by each arm.
type ProgressFunc func(finished, total int)

// Config contains the [*Coordinator] config.
type Config struct {
	// BarrierTimeout OPTIONALLY bounds the time spent at each barrier.
	BarrierTimeout time.Duration

	// Ledger is the MANDATORY per-arm ledger.
	Ledger model.Ledger

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// MaxConcurrency OPTIONALLY limits the concurrent status queries.
	MaxConcurrency int

	// Mode is the barrier mode. The empty value means [BarrierGlobal].
	Mode BarrierMode

	// PollInterval is the interval between status sweeps. When zero
	// or negative, we use [DefaultPollInterval].
	PollInterval time.Duration

	// Poller is the MANDATORY job poller.
	Poller model.JobPoller

	// Progress is the OPTIONAL progress callback.
	Progress ProgressFunc

	// Schedulers contains one scheduler per arm in configured order.
	Schedulers []*cycle.Scheduler
}

// Result is the result of [*Coordinator.Run].
type Result struct {
	// History maps each arm name to the jobs whose completion we observed.
	History map[string][]model.JobID
}

// Coordinator runs the cycles of all the arms.
type Coordinator struct {
	config  Config
	history map[string][]model.JobID
	mu      sync.Mutex
}

// New creates a new [*Coordinator].
func New(config Config) *Coordinator {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.Progress == nil {
		config.Progress = func(finished, total int) {}
	}
	if config.Mode == "" {
		config.Mode = BarrierGlobal
	}
	config.Logger = model.ValidLoggerOrDefault(config.Logger)
	history := make(map[string][]model.JobID)
	for _, s := range config.Schedulers {
		history[s.Arm().Name] = []model.JobID{}
	}
	return &Coordinator{config: config, history: history}
}

// Run runs the campaign until all arms are exhausted or an error occurs. The
// returned result is never nil and contains the jobs that completed before
// the error, which are also recorded in the ledgers.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	var err error
	switch c.config.Mode {
	case BarrierGlobal:
		err = c.runGlobal(ctx)
	case BarrierPerArm:
		err = c.runPerArm(ctx)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownBarrierMode, c.config.Mode)
	}
	return c.result(), err
}

func (c *Coordinator) result() *Result {
	defer c.mu.Unlock()
	c.mu.Lock()
	history := make(map[string][]model.JobID, len(c.history))
	for arm, ids := range c.history {
		history[arm] = append([]model.JobID{}, ids...)
	}
	return &Result{History: history}
}

// next obtains the next cycle of the given scheduler. It returns
// a nil cycle and nil error when the scheduler is exhausted.
func (c *Coordinator) next(ctx context.Context, s *cycle.Scheduler) (*model.Cycle, error) {
	index := s.Index()
	current, err := s.Next(ctx)
	if errors.Is(err, cycle.ErrExhausted) {
		return nil, nil
	}
	if err != nil {
		return nil, &ArmError{Arm: s.Arm().Name, Cycle: index, Err: err}
	}
	return current, nil
}

// complete records a cycle whose job has finished and unblocks its scheduler.
func (c *Coordinator) complete(entry *pendingCycle) error {
	arm, id := entry.cycle.Arm.Name, entry.cycle.OutputJobID
	c.mu.Lock()
	c.history[arm] = append(c.history[arm], id)
	c.mu.Unlock()
	if err := c.config.Ledger.Append(arm, id); err != nil {
		return &ArmError{Arm: arm, Cycle: entry.cycle.Index, Err: err}
	}
	if err := entry.scheduler.PriorFinished(id); err != nil {
		return &ArmError{Arm: arm, Cycle: entry.cycle.Index, Err: err}
	}
	metricCyclesCount.WithLabelValues(arm).Inc()
	return nil
}

// initialJobs returns the initial jobs of the schedulers that have not
// yielded any cycle yet. The first strategy of a resumed arm depends on
// its initial job, so we must observe that job finishing beforehand.
func initialJobs(schedulers ...*cycle.Scheduler) (pending []*pendingCycle) {
	for _, s := range schedulers {
		arm := s.Arm()
		if arm.InitialJobID == "" || s.Index() > 0 {
			continue
		}
		pending = append(pending, &pendingCycle{
			cycle: &model.Cycle{
				Arm:         arm,
				Index:       -1,
				OutputJobID: arm.InitialJobID,
				Status:      model.CycleSubmitted,
			},
			scheduler: s,
		})
	}
	return
}

// awaitInitialJobs waits at the barrier for the given initial jobs.
func (c *Coordinator) awaitInitialJobs(ctx context.Context, pending []*pendingCycle) error {
	if len(pending) <= 0 {
		return nil
	}
	c.config.Logger.Infof("coordinator: waiting for %d initial jobs", len(pending))
	return c.barrier(ctx, pending)
}

// runGlobal implements the global barrier mode.
func (c *Coordinator) runGlobal(ctx context.Context) error {
	if err := c.awaitInitialJobs(ctx, initialJobs(c.config.Schedulers...)); err != nil {
		return err
	}
	for index := 0; ; index++ {
		var pending []*pendingCycle
		for _, s := range c.config.Schedulers {
			current, err := c.next(ctx, s)
			if err != nil {
				return err
			}
			if current == nil {
				continue
			}
			pending = append(pending, &pendingCycle{cycle: current, scheduler: s})
		}
		if len(pending) <= 0 {
			return nil
		}
		c.config.Logger.Infof("coordinator: cycle %d: waiting for %d jobs", index, len(pending))
		if err := c.barrier(ctx, pending); err != nil {
			return err
		}
		for _, entry := range pending {
			if err := c.complete(entry); err != nil {
				return err
			}
		}
	}
}

// runPerArm implements the per-arm barrier mode.
func (c *Coordinator) runPerArm(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, s := range c.config.Schedulers {
		group.Go(func() error {
			if err := c.awaitInitialJobs(gctx, initialJobs(s)); err != nil {
				return err
			}
			for {
				current, err := c.next(gctx, s)
				if err != nil {
					return err
				}
				if current == nil {
					return nil
				}
				entry := &pendingCycle{cycle: current, scheduler: s}
				if err := c.barrier(gctx, []*pendingCycle{entry}); err != nil {
					return err
				}
				if err := c.complete(entry); err != nil {
					return err
				}
			}
		})
	}
	return group.Wait()
}
