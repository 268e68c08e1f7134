package database

import (
	"database/sql"
	"time"
)

// RunStatus is the status of a [Run].
type RunStatus string

const (
	// RunRunning means the campaign is still running.
	RunRunning = RunStatus("running")

	// RunDone means all the arms ran to completion.
	RunDone = RunStatus("done")

	// RunFailed means the campaign stopped because of an error.
	RunFailed = RunStatus("failed")
)

// Run is one invocation of the campaign runner.
type Run struct {
	ID        int64        `db:"id,omitempty"`
	RunUUID   string       `db:"run_uuid"`
	Name      string       `db:"name"`
	DryRun    bool         `db:"dry_run"`
	NumArms   int          `db:"n_arms"`
	NumCycles int          `db:"n_cycles"`
	StartTime time.Time    `db:"start_time"`
	EndTime   sql.NullTime `db:"end_time,omitempty"`
	Status    RunStatus    `db:"status"`
	Failure   string       `db:"failure"`
}

// Cycle is a cycle submitted by a [Run].
type Cycle struct {
	ID          int64        `db:"id,omitempty"`
	RunID       int64        `db:"run_id"`
	ArmName     string       `db:"arm_name"`
	CycleIndex  int          `db:"cycle_index"`
	InputJobID  string       `db:"input_job_id"`
	OutputJobID string       `db:"output_job_id"`
	Status      string       `db:"status"`
	NumAgents   int          `db:"n_agents"`
	NumTargets  int          `db:"n_targets"`
	NumExploit  int          `db:"n_exploitation"`
	TotalBudget int          `db:"total_budget"`
	SubmittedAt time.Time    `db:"submitted_at"`
	FinishedAt  sql.NullTime `db:"finished_at,omitempty"`
}
