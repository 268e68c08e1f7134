package database

import (
	"database/sql"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/upper/db/v4"
)

// ErrNoSuchRun indicates that a run does not exist.
var ErrNoSuchRun = errors.New("database: no such run")

// CreateRun writes a new run to the database.
func (d *Database) CreateRun(runUUID, name string, dryRun bool, numArms, numCycles int) (*Run, error) {
	run := Run{
		RunUUID:   runUUID,
		Name:      name,
		DryRun:    dryRun,
		NumArms:   numArms,
		NumCycles: numCycles,
		StartTime: time.Now().UTC(),
		Status:    RunRunning,
	}
	log.Debugf("Creating run %s", runUUID)
	res, err := d.sess.Collection("runs").Insert(run)
	if err != nil {
		return nil, errors.Wrap(err, "creating run")
	}
	run.ID = res.ID().(int64)
	return &run, nil
}

// FinishRun marks the run as done, or as failed when err is not nil.
func (d *Database) FinishRun(run *Run, err error) error {
	run.EndTime = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	run.Status = RunDone
	run.Failure = ""
	if err != nil {
		run.Status = RunFailed
		run.Failure = err.Error()
	}
	if err := d.sess.Collection("runs").Find("id", run.ID).Update(run); err != nil {
		return errors.Wrap(err, "updating run")
	}
	return nil
}

// ListRuns returns all the runs, most recent first.
func (d *Database) ListRuns() ([]*Run, error) {
	runs := []*Run{}
	err := d.sess.Collection("runs").Find().OrderBy("-start_time", "-id").All(&runs)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	return runs, nil
}

// GetRun returns the run with the given UUID.
func (d *Database) GetRun(runUUID string) (*Run, error) {
	var run Run
	err := d.sess.Collection("runs").Find("run_uuid", runUUID).One(&run)
	if errors.Is(err, db.ErrNoMoreRows) {
		return nil, ErrNoSuchRun
	}
	if err != nil {
		return nil, errors.Wrap(err, "getting run")
	}
	return &run, nil
}

// ListCycles returns the cycles of the given run sorted by arm
// name and cycle index.
func (d *Database) ListCycles(runID int64) ([]*Cycle, error) {
	cycles := []*Cycle{}
	err := d.sess.Collection("cycles").Find(db.Cond{"run_id": runID}).
		OrderBy("arm_name", "cycle_index").All(&cycles)
	if err != nil {
		return nil, errors.Wrap(err, "listing cycles")
	}
	return cycles, nil
}

// Recorder records the cycles of a run. It implements [model.CycleRecorder].
type Recorder struct {
	DB  *Database
	Run *Run
}

var _ model.CycleRecorder = &Recorder{}

// NewRecorder creates a new [*Recorder].
func (d *Database) NewRecorder(run *Run) *Recorder {
	return &Recorder{DB: d, Run: run}
}

// CycleSubmitted implements model.CycleRecorder.
func (r *Recorder) CycleSubmitted(cycle *model.Cycle) error {
	entry := Cycle{
		RunID:       r.Run.ID,
		ArmName:     cycle.Arm.Name,
		CycleIndex:  cycle.Index,
		InputJobID:  string(cycle.InputJobID),
		OutputJobID: string(cycle.OutputJobID),
		Status:      string(cycle.Status),
		NumAgents:   len(cycle.PrefixesPerAgent),
		NumTargets:  cycle.PrefixesPerAgent.Count(),
		NumExploit:  cycle.ExploitationPerAgent.Count(),
		TotalBudget: cycle.TotalBudget,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := r.DB.sess.Collection("cycles").Insert(entry); err != nil {
		return errors.Wrap(err, "creating cycle")
	}
	return nil
}

// CycleFinished implements model.CycleRecorder.
func (r *Recorder) CycleFinished(cycle *model.Cycle) error {
	res := r.DB.sess.Collection("cycles").Find(db.Cond{
		"run_id":      r.Run.ID,
		"arm_name":    cycle.Arm.Name,
		"cycle_index": cycle.Index,
	})
	err := res.Update(map[string]interface{}{
		"status":      string(cycle.Status),
		"finished_at": time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "updating cycle")
	}
	return nil
}
