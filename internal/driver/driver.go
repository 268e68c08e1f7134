// Package driver submits jobs to the measurement platform.
//
// The [*Driver] asks the cycle's strategy for the targets of each agent,
// uploads one target list per agent, and creates the measurement. In dry-run
// mode it skips the upload and the submission and invents a job ID.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/topoprobe/campaign/internal/measurementapi"
	"github.com/topoprobe/campaign/internal/model"
)

var (
	// ErrNoAgents indicates that there are no agents to run a job.
	ErrNoAgents = errors.New("driver: no agents")

	// ErrEmptyJob indicates that no agent has any target to probe.
	ErrEmptyJob = errors.New("driver: no agent has targets to probe")
)

// Platform is the subset of the measurement platform API used by [*Driver].
type Platform interface {
	ListAgentUUIDs(ctx context.Context) ([]string, error)
	UploadTargets(ctx context.Context, key string, content []byte) (*measurementapi.TargetList, error)
	CreateMeasurement(ctx context.Context, req *measurementapi.MeasurementRequest) (*measurementapi.Measurement, error)
}

// Driver implements [model.JobSubmitter] and [model.AgentBudgeter].
//
// The zero value is invalid; construct using [New].
type Driver struct {
	// Agents OPTIONALLY overrides the agents registered with the platform.
	Agents []string

	// DryRun disables uploads and submissions.
	DryRun bool

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// NewJobID is the MANDATORY function generating dry-run job IDs.
	NewJobID func() string

	// Platform is the platform API. It may be nil in dry-run mode
	// provided that Agents is not empty.
	Platform Platform
}

var (
	_ model.JobSubmitter  = &Driver{}
	_ model.AgentBudgeter = &Driver{}
)

// New creates a new [*Driver].
func New(platform Platform, dryRun bool, agents []string, logger model.Logger) *Driver {
	return &Driver{
		Agents:   agents,
		DryRun:   dryRun,
		Logger:   model.ValidLoggerOrDefault(logger),
		NewJobID: uuid.NewString,
		Platform: platform,
	}
}

// agents returns the sorted list of agents to use.
func (d *Driver) agents(ctx context.Context, override []string) ([]string, error) {
	agents := override
	switch {
	case len(agents) > 0:
	case len(d.Agents) > 0:
		agents = d.Agents
	case d.Platform != nil:
		registered, err := d.Platform.ListAgentUUIDs(ctx)
		if err != nil {
			return nil, err
		}
		agents = registered
	}
	if len(agents) <= 0 {
		return nil, ErrNoAgents
	}
	agents = append([]string{}, agents...)
	sort.Strings(agents)
	return agents, nil
}

// AgentBudget implements model.AgentBudgeter by splitting the
// total budget evenly across the agents.
func (d *Driver) AgentBudget(ctx context.Context, armName string,
	totalBudget, maxRounds int) (*model.AgentAllocation, error) {
	agents, err := d.agents(ctx, nil)
	if err != nil {
		return nil, err
	}
	alloc := &model.AgentAllocation{
		Agents:      agents,
		AgentBudget: totalBudget / len(agents),
		AgentRounds: maxRounds,
	}
	d.Logger.Debugf("driver: %s: %d agents, %d targets per agent", armName, len(agents), alloc.AgentBudget)
	return alloc, nil
}

// SubmitJob implements model.JobSubmitter.
func (d *Driver) SubmitJob(ctx context.Context, req *model.JobRequest) (*model.JobSubmission, error) {
	agents, err := d.agents(ctx, req.Agents)
	if err != nil {
		return nil, err
	}

	sub := &model.JobSubmission{
		ExploitationPerAgent: model.AgentTargets{},
		PrefixesPerAgent:     model.AgentTargets{},
	}
	for _, agent := range agents {
		targets, exploitation := req.Strategy.Select(agent, req.Budget, req.Arm.ExploitationOnly)
		sub.PrefixesPerAgent[agent] = targets
		sub.ExploitationPerAgent[agent] = exploitation
	}

	if d.DryRun {
		sub.JobID = model.JobID(d.NewJobID())
		d.Logger.Infof("driver: %s: dry run job %s with %d targets", req.Arm.Name, sub.JobID, sub.PrefixesPerAgent.Count())
		return sub, nil
	}

	id, err := d.submit(ctx, req, agents, sub.PrefixesPerAgent)
	if err != nil {
		return nil, err
	}
	sub.JobID = id
	d.Logger.Infof("driver: %s: submitted job %s with %d targets", req.Arm.Name, sub.JobID, sub.PrefixesPerAgent.Count())
	return sub, nil
}

// submit uploads the target lists and creates the measurement.
func (d *Driver) submit(ctx context.Context, req *model.JobRequest,
	agents []string, targets model.AgentTargets) (model.JobID, error) {
	arm := req.Arm
	mreq := &measurementapi.MeasurementRequest{
		Tool: arm.Tool,
		Tags: []string{arm.Name},
	}
	batch := uuid.NewString()
	for _, agent := range agents {
		if len(targets[agent]) <= 0 {
			d.Logger.Warnf("driver: %s: agent %s has no targets", arm.Name, agent)
			continue
		}
		lines := make([]measurementapi.TargetLine, 0, len(targets[agent]))
		for _, prefix := range targets[agent] {
			lines = append(lines, measurementapi.TargetLine{
				Prefix:   prefix,
				Protocol: arm.Protocol,
				MinTTL:   arm.MinTTL,
				MaxTTL:   arm.MaxTTL,
			})
		}
		key := fmt.Sprintf("%s__%s__%s.csv", arm.Name, agent, batch)
		list, err := d.Platform.UploadTargets(ctx, key, measurementapi.FormatTargetList(lines))
		if err != nil {
			return "", fmt.Errorf("cannot upload targets for %s: %w", agent, err)
		}
		magent := measurementapi.MeasurementAgent{UUID: agent, TargetFile: list.Key}
		if req.MaxRounds > 0 {
			magent.ToolParameters = &measurementapi.ToolParameters{MaxRound: req.MaxRounds}
		}
		mreq.Agents = append(mreq.Agents, magent)
	}
	if len(mreq.Agents) <= 0 {
		return "", ErrEmptyJob
	}
	measurement, err := d.Platform.CreateMeasurement(ctx, mreq)
	if err != nil {
		return "", err
	}
	return model.JobID(measurement.UUID), nil
}
