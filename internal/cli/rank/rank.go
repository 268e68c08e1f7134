// Package rank implements the rank command.
package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/topoprobe/campaign/internal/campaign"
	"github.com/topoprobe/campaign/internal/cli/root"
	"github.com/topoprobe/campaign/internal/model"
	"github.com/topoprobe/campaign/internal/output"
	"github.com/topoprobe/campaign/internal/strategy"
)

func init() {
	cmd := root.Command("rank", "Show the per-agent rank computed from the discoveries of a job.")
	flags := root.NewPlatformFlags(cmd)
	jobID := cmd.Arg("job", "The finished job ID.").Required().String()
	bgpAwareness := cmd.Flag("bgp-awareness", "Rank using the BGP routes.").Bool()
	top := cmd.Flag("top", "Number of ranked prefixes to print per agent.").Default("0").Int()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		c, client, err := flags.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize")
			return err
		}
		universe, err := campaign.LoadUniverse(&c.Universe, c.Universe.Seed, log.Log)
		if err != nil {
			log.WithError(err).Error("failed to load the universe")
			return err
		}
		graph, err := client.Discoveries(context.Background(), model.JobID(*jobID))
		if err != nil {
			log.WithError(err).Error("failed to load the discoveries")
			return err
		}
		rank := strategy.ComputeRank(graph, universe, *bgpAwareness)

		var agents []string
		for agent := range rank {
			agents = append(agents, agent)
		}
		sort.Strings(agents)
		fields := log.Fields{}
		for _, agent := range agents {
			fields[agent] = fmt.Sprintf("%d prefixes", len(rank[agent]))
		}
		output.Table("rank", fields)
		for _, agent := range agents {
			for idx, unit := range rank[agent][:min(max(*top, 0), len(rank[agent]))] {
				log.WithField("agent", agent).Infof("#%d %s (%d links)", idx+1, unit, graph[agent][unit])
			}
		}
		return nil
	})
}
