package model

//
// Jobs and the measurement platform
//

import "context"

// JobID is the opaque identifier the platform assigns to a job. The
// empty JobID means "no job" (e.g., the prior job of the first cycle).
type JobID string

// JobStatus is the status of a job.
type JobStatus string

const (
	// JobStatusOngoing means the platform is still executing the job.
	JobStatusOngoing = JobStatus("ongoing")

	// JobStatusFinished means the job has been executed and its
	// results have been recorded by the platform.
	JobStatusFinished = JobStatus("finished")

	// JobStatusFailed means the job reached a terminal state
	// without producing usable results (e.g., canceled).
	JobStatusFailed = JobStatus("failed")
)

// IsTerminal returns whether the status will not change anymore.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusFinished || s == JobStatusFailed
}

// AgentTargets maps an agent identifier to a set of targets.
type AgentTargets map[string][]string

// Count returns the total number of targets across all agents.
func (at AgentTargets) Count() (total int) {
	for _, targets := range at {
		total += len(targets)
	}
	return
}

// JobRequest contains the arguments of [JobSubmitter.SubmitJob].
type JobRequest struct {
	// Arm is the arm submitting the job.
	Arm *Arm

	// Strategy is the selection strategy to use.
	Strategy Strategy

	// Budget is the per-agent budget.
	Budget int

	// MaxRounds is the maximum number of probing rounds.
	MaxRounds int

	// Agents contains the agents to use. When empty, the submitter
	// uses all the agents registered with the platform.
	Agents []string
}

// JobSubmission is the result of [JobSubmitter.SubmitJob].
type JobSubmission struct {
	// JobID is the identifier of the new job.
	JobID JobID

	// ExploitationPerAgent contains the targets each agent selected
	// through pure exploitation.
	ExploitationPerAgent AgentTargets

	// PrefixesPerAgent contains all the targets each agent measures.
	PrefixesPerAgent AgentTargets
}

// JobSubmitter submits jobs to the measurement platform.
type JobSubmitter interface {
	// SubmitJob synchronously submits a job.
	SubmitJob(ctx context.Context, req *JobRequest) (*JobSubmission, error)
}

// JobPoller queries the status of a job.
type JobPoller interface {
	// JobStatus performs a single status query.
	JobStatus(ctx context.Context, id JobID) (JobStatus, error)
}

// AgentAllocation is the result of splitting a global budget across
// the agents registered with the platform.
type AgentAllocation struct {
	// Agents contains the agents sharing the budget.
	Agents []string

	// AgentBudget is the per-agent budget.
	AgentBudget int

	// AgentRounds is the per-agent maximum number of rounds.
	AgentRounds int
}

// AgentBudgeter allocates a global budget across agents.
type AgentBudgeter interface {
	// AgentBudget allocates totalBudget across the agents
	// that would run a job tagged with armName.
	AgentBudget(ctx context.Context, armName string,
		totalBudget, maxRounds int) (*AgentAllocation, error)
}
