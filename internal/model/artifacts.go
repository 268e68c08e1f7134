package model

// ArtifactStore persists the per-cycle artifacts.
type ArtifactStore interface {
	// PutCycle persists the exploitation and prefixes artifacts
	// of the given cycle, keyed by its output job ID.
	PutCycle(cycle *Cycle) error
}

// Ledger is the append-only per-arm history of completed cycles.
type Ledger interface {
	// Append appends the job ID to the ledger of the given arm.
	Append(arm string, id JobID) error
}
