// Package artifacts persists the per-cycle artifacts and the per-arm ledgers.
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/topoprobe/campaign/internal/model"
)

// SchemaVersion is the version of the artifacts we write.
const SchemaVersion = 1

// ErrUnsupportedVersion indicates we cannot parse an artifact version.
var ErrUnsupportedVersion = errors.New("artifacts: unsupported schema version")

// Kind is the kind of artifact.
type Kind string

const (
	// KindExploitation is the artifact with the targets chosen by exploitation.
	KindExploitation = Kind("exploitation")

	// KindPrefixes is the artifact with all the measured targets.
	KindPrefixes = Kind("prefixes")
)

// Key returns the key of the given artifact.
func Key(kind Kind, id model.JobID) string {
	return fmt.Sprintf("%s_%s", kind, id)
}

// Artifact is a persisted per-agent target set.
type Artifact struct {
	Version    int                 `json:"version"`
	Kind       Kind                `json:"kind"`
	JobID      model.JobID         `json:"job_id"`
	Arm        string              `json:"arm"`
	CycleIndex int                 `json:"cycle_index"`
	InputJobID model.JobID         `json:"input_job_id,omitempty"`
	PerAgent   map[string][]string `json:"per_agent"`
}

// NewArtifact creates an [*Artifact] of the given kind from the cycle.
// The targets of each agent are sorted.
func NewArtifact(kind Kind, cycle *model.Cycle) *Artifact {
	source := cycle.PrefixesPerAgent
	if kind == KindExploitation {
		source = cycle.ExploitationPerAgent
	}
	perAgent := make(map[string][]string, len(source))
	for agent, targets := range source {
		sorted := append([]string{}, targets...)
		sort.Strings(sorted)
		perAgent[agent] = sorted
	}
	return &Artifact{
		Version:    SchemaVersion,
		Kind:       kind,
		JobID:      cycle.OutputJobID,
		Arm:        cycle.Arm.Name,
		CycleIndex: cycle.Index,
		InputJobID: cycle.InputJobID,
		PerAgent:   perAgent,
	}
}

// ParseArtifact parses a serialized [*Artifact].
func ParseArtifact(data []byte) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, err
	}
	if artifact.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, artifact.Version)
	}
	return &artifact, nil
}
