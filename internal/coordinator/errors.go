package coordinator

import (
	"errors"
	"fmt"

	"github.com/topoprobe/campaign/internal/model"
)

var (
	// ErrBarrierTimeout indicates that the jobs did not finish in time.
	ErrBarrierTimeout = errors.New("coordinator: barrier timeout")

	// ErrJobFailed indicates that the platform could not execute a job.
	ErrJobFailed = errors.New("coordinator: job failed")
)

// ArmError indicates that an arm could not produce its next cycle.
type ArmError struct {
	// Arm is the arm name.
	Arm string

	// Cycle is the index of the failed cycle.
	Cycle int

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (err *ArmError) Error() string {
	return fmt.Sprintf("arm %s: cycle %d: %s", err.Arm, err.Cycle, err.Err.Error())
}

// Unwrap allows using errors.Is and errors.As.
func (err *ArmError) Unwrap() error {
	return err.Err
}

// JobError indicates that we could not observe a job finishing.
type JobError struct {
	// Arm is the arm name.
	Arm string

	// JobID is the job ID.
	JobID model.JobID

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (err *JobError) Error() string {
	return fmt.Sprintf("arm %s: job %s: %s", err.Arm, err.JobID, err.Err.Error())
}

// Unwrap allows using errors.Is and errors.As.
func (err *JobError) Unwrap() error {
	return err.Err
}
