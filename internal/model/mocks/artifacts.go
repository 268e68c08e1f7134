package mocks

import "github.com/topoprobe/campaign/internal/model"

// ArtifactStore allows mocking a [model.ArtifactStore].
type ArtifactStore struct {
	MockPutCycle func(cycle *model.Cycle) error
}

var _ model.ArtifactStore = &ArtifactStore{}

// PutCycle calls MockPutCycle.
func (as *ArtifactStore) PutCycle(cycle *model.Cycle) error {
	return as.MockPutCycle(cycle)
}

// Ledger allows mocking a [model.Ledger].
type Ledger struct {
	MockAppend func(arm string, id model.JobID) error
}

var _ model.Ledger = &Ledger{}

// Append calls MockAppend.
func (l *Ledger) Append(arm string, id model.JobID) error {
	return l.MockAppend(arm, id)
}

// CycleRecorder allows mocking a [model.CycleRecorder].
type CycleRecorder struct {
	MockCycleSubmitted func(cycle *model.Cycle) error
	MockCycleFinished  func(cycle *model.Cycle) error
}

var _ model.CycleRecorder = &CycleRecorder{}

// CycleSubmitted calls MockCycleSubmitted.
func (cr *CycleRecorder) CycleSubmitted(cycle *model.Cycle) error {
	return cr.MockCycleSubmitted(cycle)
}

// CycleFinished calls MockCycleFinished.
func (cr *CycleRecorder) CycleFinished(cycle *model.Cycle) error {
	return cr.MockCycleFinished(cycle)
}
