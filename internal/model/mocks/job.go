package mocks

import (
	"context"

	"github.com/topoprobe/campaign/internal/model"
)

// JobSubmitter allows mocking a [model.JobSubmitter].
type JobSubmitter struct {
	MockSubmitJob func(ctx context.Context, req *model.JobRequest) (*model.JobSubmission, error)
}

var _ model.JobSubmitter = &JobSubmitter{}

// SubmitJob calls MockSubmitJob.
func (js *JobSubmitter) SubmitJob(ctx context.Context, req *model.JobRequest) (*model.JobSubmission, error) {
	return js.MockSubmitJob(ctx, req)
}

// JobPoller allows mocking a [model.JobPoller].
type JobPoller struct {
	MockJobStatus func(ctx context.Context, id model.JobID) (model.JobStatus, error)
}

var _ model.JobPoller = &JobPoller{}

// JobStatus calls MockJobStatus.
func (jp *JobPoller) JobStatus(ctx context.Context, id model.JobID) (model.JobStatus, error) {
	return jp.MockJobStatus(ctx, id)
}

// AgentBudgeter allows mocking a [model.AgentBudgeter].
type AgentBudgeter struct {
	MockAgentBudget func(ctx context.Context, armName string,
		totalBudget, maxRounds int) (*model.AgentAllocation, error)
}

var _ model.AgentBudgeter = &AgentBudgeter{}

// AgentBudget calls MockAgentBudget.
func (ab *AgentBudgeter) AgentBudget(ctx context.Context, armName string,
	totalBudget, maxRounds int) (*model.AgentAllocation, error) {
	return ab.MockAgentBudget(ctx, armName, totalBudget, maxRounds)
}
