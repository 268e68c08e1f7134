package measurementapi

//
// agents.go - GET /agents/
//

import (
	"context"
	"net/url"
	"strconv"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/urlx"
)

// Agent is an agent registered with the platform.
type Agent struct {
	UUID  string `json:"uuid"`
	State string `json:"state"`
}

// AgentStateIdle is the state of an agent ready to accept work.
const AgentStateIdle = "idle"

// Page is a page of results returned by a listing API.
type Page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// ListAgents returns all the agents registered with the platform.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var out []Agent
	for offset := 0; ; {
		query := url.Values{}
		query.Set("offset", strconv.Itoa(offset))
		URL, err := urlx.ResolveReference(c.BaseURL, "/agents/", query.Encode())
		if err != nil {
			return nil, err
		}
		page, err := httpclientx.GetJSON[*Page[Agent]](ctx, c.newConfig(), URL)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Results...)
		offset += len(page.Results)
		if page.Next == "" || len(page.Results) <= 0 {
			return out, nil
		}
	}
}

// ListAgentUUIDs is like [Client.ListAgents] but only returns the UUIDs.
func (c *Client) ListAgentUUIDs(ctx context.Context) ([]string, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(agents))
	for _, agent := range agents {
		out = append(out, agent.UUID)
	}
	return out, nil
}
