package strategy

import (
	"context"

	"github.com/topoprobe/campaign/internal/model"
)

// NoDiscoveries is a [model.DiscoverySource] returning an empty graph
// for every job. We use it for dry runs, where jobs never run.
type NoDiscoveries struct{}

var _ model.DiscoverySource = NoDiscoveries{}

// Discoveries implements model.DiscoverySource.
func (NoDiscoveries) Discoveries(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error) {
	return model.DiscoveryGraph{}, nil
}
