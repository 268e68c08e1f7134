package artifacts

import (
	"encoding/json"

	"github.com/topoprobe/campaign/internal/model"
)

// Store implements [model.ArtifactStore] using a [model.KeyValueStore].
type Store struct {
	// KVStore is the MANDATORY key-value store.
	KVStore model.KeyValueStore
}

var _ model.ArtifactStore = &Store{}

// PutCycle implements model.ArtifactStore.
func (s *Store) PutCycle(cycle *model.Cycle) error {
	for _, kind := range []Kind{KindExploitation, KindPrefixes} {
		data, err := json.Marshal(NewArtifact(kind, cycle))
		if err != nil {
			return err
		}
		if err := s.KVStore.Set(Key(kind, cycle.OutputJobID), data); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the artifact of the given kind for the given job.
func (s *Store) Get(kind Kind, id model.JobID) (*Artifact, error) {
	data, err := s.KVStore.Get(Key(kind, id))
	if err != nil {
		return nil, err
	}
	return ParseArtifact(data)
}
