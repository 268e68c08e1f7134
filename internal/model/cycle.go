package model

//
// Cycles
//

// CycleStatus is the status of a [Cycle].
type CycleStatus string

const (
	// CycleBuilding means we're building the strategy.
	CycleBuilding = CycleStatus("building")

	// CycleSubmitted means the job has been submitted.
	CycleSubmitted = CycleStatus("submitted")

	// CyclePersisted means the artifacts have been persisted.
	CyclePersisted = CycleStatus("persisted")

	// CycleFinished means the platform finished executing the job.
	CycleFinished = CycleStatus("finished")
)

// Cycle is one round of build-strategy, submit, wait, and persist
// for a single arm. A cycle is immutable once it has been yielded by
// the scheduler, except for the status, which moves to CycleFinished
// once the platform reports the job as finished.
type Cycle struct {
	// Arm is the arm owning the cycle.
	Arm *Arm

	// Index is the zero-based cycle index.
	Index int

	// InputJobID is the job the strategy was built from (empty
	// for the first cycle unless resuming).
	InputJobID JobID

	// OutputJobID is the job submitted by this cycle.
	OutputJobID JobID

	// ExploitationPerAgent contains the targets chosen by
	// pure exploitation.
	ExploitationPerAgent AgentTargets

	// PrefixesPerAgent contains all the measured targets.
	PrefixesPerAgent AgentTargets

	// TotalBudget and MaxRounds are the output of the arm's BudgetFunc.
	TotalBudget, MaxRounds int

	// Status is the cycle status.
	Status CycleStatus
}

// CycleRecorder records the progress of cycles (e.g., into a database).
type CycleRecorder interface {
	// CycleSubmitted records a cycle whose artifacts have been persisted.
	CycleSubmitted(cycle *Cycle) error

	// CycleFinished records that the cycle's job has finished.
	CycleFinished(cycle *Cycle) error
}
