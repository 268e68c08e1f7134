package strategy

import (
	"sort"

	"github.com/topoprobe/campaign/internal/model"
)

// ComputeRank computes the per-agent rank from the discovery graph.
//
// Only units inside the universe that discovered at least one link are
// ranked, best first, breaking ties by unit. With BGP awareness, units are
// ranked by the links discovered by their whole advertised route and the
// never-probed units of productive routes join the rank after the probed ones.
func ComputeRank(graph model.DiscoveryGraph, universe *model.PrefixUniverse, bgpAwareness bool) map[string][]string {
	rank := make(map[string][]string, len(graph))
	for agent, links := range graph {
		if bgpAwareness {
			rank[agent] = rankByRoute(links, universe)
			continue
		}
		rank[agent] = rankByUnit(links, universe)
	}
	return rank
}

type scoredUnit struct {
	unit  string
	route int
	own   int
}

func sortScored(units []scoredUnit) []string {
	sort.Slice(units, func(i, j int) bool {
		if units[i].route != units[j].route {
			return units[i].route > units[j].route
		}
		if units[i].own != units[j].own {
			return units[i].own > units[j].own
		}
		return units[i].unit < units[j].unit
	})
	out := make([]string, 0, len(units))
	for _, entry := range units {
		out = append(out, entry.unit)
	}
	return out
}

func rankByUnit(links map[string]int, universe *model.PrefixUniverse) []string {
	var units []scoredUnit
	for unit, count := range links {
		if count <= 0 || !universe.Contains(unit) {
			continue
		}
		units = append(units, scoredUnit{unit: unit, own: count})
	}
	return sortScored(units)
}

func rankByRoute(links map[string]int, universe *model.PrefixUniverse) []string {
	routeScore := make(map[string]int)
	for unit, count := range links {
		if count <= 0 {
			continue
		}
		if route, found := universe.RouteOf(unit); found {
			routeScore[route] += count
		}
	}
	var units []scoredUnit
	for _, group := range universe.Groups() {
		score := routeScore[group.Route]
		if score <= 0 {
			continue
		}
		for _, unit := range group.Units {
			units = append(units, scoredUnit{unit: unit, route: score, own: links[unit]})
		}
	}
	return sortScored(units)
}
