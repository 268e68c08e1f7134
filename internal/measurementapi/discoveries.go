package measurementapi

//
// discoveries.go - GET /measurements/{uuid}/discoveries
//

import (
	"context"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/urlx"
)

// Discovery is the number of links an agent discovered
// when probing a given prefix.
type Discovery struct {
	AgentUUID string `json:"agent_uuid"`
	Prefix    string `json:"prefix"`
	Links     int    `json:"links"`
}

// DiscoveriesResponse is the response of the discoveries API.
type DiscoveriesResponse struct {
	Discoveries []Discovery `json:"discoveries"`
}

// Discoveries implements model.DiscoverySource.
func (c *Client) Discoveries(ctx context.Context, id model.JobID) (model.DiscoveryGraph, error) {
	URL, err := urlx.ResolveReference(c.BaseURL, "/measurements/"+string(id)+"/discoveries", "")
	if err != nil {
		return nil, err
	}
	resp, err := httpclientx.GetJSON[*DiscoveriesResponse](ctx, c.newConfig(), URL)
	if err != nil {
		return nil, err
	}
	graph := model.DiscoveryGraph{}
	for _, entry := range resp.Discoveries {
		if graph[entry.AgentUUID] == nil {
			graph[entry.AgentUUID] = map[string]int{}
		}
		graph[entry.AgentUUID][entry.Prefix] += entry.Links
	}
	return graph, nil
}

var _ model.DiscoverySource = &Client{}
