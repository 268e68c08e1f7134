package measurementapi

//
// measurements.go - POST /measurements/ and GET /measurements/{uuid}
//

import (
	"context"
	"errors"
	"fmt"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/urlx"
)

// ToolParameters contains the probing tool parameters.
type ToolParameters struct {
	MaxRound int `json:"max_round,omitempty"`
}

// MeasurementAgent is an agent participating in a measurement.
type MeasurementAgent struct {
	UUID           string          `json:"uuid"`
	TargetFile     string          `json:"target_file"`
	ToolParameters *ToolParameters `json:"tool_parameters,omitempty"`
}

// MeasurementRequest is the request to create a measurement.
type MeasurementRequest struct {
	Tool   string             `json:"tool"`
	Agents []MeasurementAgent `json:"agents"`
	Tags   []string           `json:"tags"`
}

// Measurement is a measurement known to the platform.
type Measurement struct {
	UUID  string   `json:"uuid"`
	State string   `json:"state"`
	Tool  string   `json:"tool"`
	Tags  []string `json:"tags"`
}

// Measurement states.
const (
	MeasurementStateCreated      = "created"
	MeasurementStateOngoing      = "ongoing"
	MeasurementStateFinished     = "finished"
	MeasurementStateCanceled     = "canceled"
	MeasurementStateAgentFailure = "agent_failure"
)

// ErrUnknownMeasurementState indicates the platform returned a state we don't know.
var ErrUnknownMeasurementState = errors.New("measurementapi: unknown measurement state")

// CreateMeasurement creates a new measurement.
func (c *Client) CreateMeasurement(ctx context.Context, req *MeasurementRequest) (*Measurement, error) {
	URL, err := urlx.ResolveReference(c.BaseURL, "/measurements/", "")
	if err != nil {
		return nil, err
	}
	return httpclientx.PostJSON[*MeasurementRequest, *Measurement](ctx, c.newConfig(), URL, req)
}

// GetMeasurement returns information about an existing measurement.
func (c *Client) GetMeasurement(ctx context.Context, id model.JobID) (*Measurement, error) {
	URL, err := urlx.ResolveReference(c.BaseURL, "/measurements/"+string(id), "")
	if err != nil {
		return nil, err
	}
	return httpclientx.GetJSON[*Measurement](ctx, c.newConfig(), URL)
}

// JobStatus implements model.JobPoller.
func (c *Client) JobStatus(ctx context.Context, id model.JobID) (model.JobStatus, error) {
	measurement, err := c.GetMeasurement(ctx, id)
	if err != nil {
		return "", err
	}
	return MapMeasurementState(measurement.State)
}

// MapMeasurementState maps a platform state to a [model.JobStatus].
func MapMeasurementState(state string) (model.JobStatus, error) {
	switch state {
	case MeasurementStateCreated, MeasurementStateOngoing:
		return model.JobStatusOngoing, nil
	case MeasurementStateFinished:
		return model.JobStatusFinished, nil
	case MeasurementStateCanceled, MeasurementStateAgentFailure:
		return model.JobStatusFailed, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMeasurementState, state)
	}
}

var _ model.JobPoller = &Client{}
