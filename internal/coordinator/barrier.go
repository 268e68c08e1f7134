package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/topoprobe/campaign/internal/cycle"
	"github.com/topoprobe/campaign/internal/model"
	"golang.org/x/sync/errgroup"
)

// pendingCycle is a cycle whose job we are waiting for.
type pendingCycle struct {
	cycle     *model.Cycle
	finished  bool
	scheduler *cycle.Scheduler
}

// barrier blocks until the platform reports all the jobs as finished. Each
// sweep queries the status of all the unfinished jobs concurrently and we
// wait for the poll interval between sweeps. A failed job, a failed status
// query, the barrier timeout, or the context being done abort the wait.
func (c *Coordinator) barrier(ctx context.Context, pending []*pendingCycle) error {
	t0 := time.Now()
	metricJobsPendingGauge.Add(float64(len(pending)))
	defer func() {
		for _, entry := range pending {
			if !entry.finished {
				metricJobsPendingGauge.Dec()
			}
		}
		metricBarrierDurationSeconds.Observe(time.Since(t0).Seconds())
	}()

	bctx := ctx
	if c.config.BarrierTimeout > 0 {
		var cancel context.CancelFunc
		bctx, cancel = context.WithTimeout(ctx, c.config.BarrierTimeout)
		defer cancel()
	}

	for {
		count, err := c.sweep(bctx, pending)
		if err != nil {
			return c.barrierError(ctx, bctx, err)
		}
		c.config.Progress(count, len(pending))
		if count >= len(pending) {
			return nil
		}
		timer := time.NewTimer(c.config.PollInterval)
		select {
		case <-bctx.Done():
			timer.Stop()
			return c.barrierError(ctx, bctx, bctx.Err())
		case <-timer.C:
		}
	}
}

// barrierError maps the expiration of the barrier context to [ErrBarrierTimeout].
func (c *Coordinator) barrierError(ctx, bctx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(bctx.Err(), context.DeadlineExceeded) {
		return ErrBarrierTimeout
	}
	return err
}

// sweep performs a single status query for each unfinished job
// and returns the number of finished jobs.
func (c *Coordinator) sweep(ctx context.Context, pending []*pendingCycle) (int, error) {
	group, gctx := errgroup.WithContext(ctx)
	if c.config.MaxConcurrency > 0 {
		group.SetLimit(c.config.MaxConcurrency)
	}
	var finished atomic.Int64
	for _, entry := range pending {
		if entry.finished {
			finished.Add(1)
			continue
		}
		group.Go(func() error {
			arm, id := entry.cycle.Arm.Name, entry.cycle.OutputJobID
			status, err := c.config.Poller.JobStatus(gctx, id)
			if err != nil {
				metricStatusQueriesCount.WithLabelValues("error").Inc()
				return &JobError{Arm: arm, JobID: id, Err: err}
			}
			metricStatusQueriesCount.WithLabelValues(string(status)).Inc()
			switch status {
			case model.JobStatusFailed:
				return &JobError{Arm: arm, JobID: id, Err: ErrJobFailed}
			case model.JobStatusFinished:
				c.config.Logger.Infof("arm %s: job %s finished", arm, id)
				entry.finished = true
				finished.Add(1)
				metricJobsPendingGauge.Dec()
			}
			return nil
		})
	}
	err := group.Wait()
	return int(finished.Load()), err
}
