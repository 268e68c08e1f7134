package prefixes

//
// Building prefix groups from lists of announced prefixes
//

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sort"
	"strings"

	"github.com/topoprobe/campaign/internal/model"
	"go4.org/netipx"
)

// UnitBits is the prefix length of the minimal address unit.
const UnitBits = 24

// MinRouteBits is the shortest route we accept. Shorter routes are
// most likely bogus or default routes.
const MinRouteBits = 8

// ErrNotIPv4 indicates that we were given a non-IPv4 prefix.
var ErrNotIPv4 = errors.New("prefixes: not an IPv4 prefix")

// ReadPrefixList reads a list of prefixes, one per line. Empty lines
// and lines starting with "#" are ignored.
func ReadPrefixList(r io.Reader) ([]netip.Prefix, error) {
	var out []netip.Prefix
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefix, err := netip.ParsePrefix(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if !prefix.Addr().Is4() {
			return nil, fmt.Errorf("line %d: %w: %s", lineno, ErrNotIPv4, line)
		}
		out = append(out, prefix.Masked())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Build groups the /24 units of the announced prefixes under their most
// specific announced route, removing the units overlapping any excluded
// prefix. Routes more specific than /24 or shorter than [MinRouteBits]
// are ignored, as are routes left without units. The groups are sorted
// by route address.
func Build(announced, excluded []netip.Prefix) ([]model.PrefixGroup, error) {
	var builder netipx.IPSetBuilder
	for _, prefix := range excluded {
		builder.AddPrefix(prefix)
	}
	excludedSet, err := builder.IPSet()
	if err != nil {
		return nil, err
	}

	routes := make([]netip.Prefix, 0, len(announced))
	for _, route := range announced {
		if route.Bits() > UnitBits || route.Bits() < MinRouteBits || !route.Addr().Is4() {
			continue
		}
		routes = append(routes, route.Masked())
	}
	// more specific routes first such that they claim their units
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Bits() > routes[j].Bits()
	})

	claimed := make(map[netip.Prefix]bool)
	var groups []model.PrefixGroup
	for _, route := range routes {
		group := model.PrefixGroup{Route: route.String()}
		last := netipx.PrefixLastIP(route)
		for addr := route.Addr(); ; {
			unit := netip.PrefixFrom(addr, UnitBits)
			if !claimed[unit] && !excludedSet.OverlapsPrefix(unit) {
				claimed[unit] = true
				group.Units = append(group.Units, unit.String())
			}
			unitLast := netipx.PrefixLastIP(unit)
			if unitLast == last {
				break
			}
			addr = unitLast.Next()
		}
		if group.Size() > 0 {
			groups = append(groups, group)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		pi, pj := netip.MustParsePrefix(groups[i].Route), netip.MustParsePrefix(groups[j].Route)
		if c := pi.Addr().Compare(pj.Addr()); c != 0 {
			return c < 0
		}
		return pi.Bits() < pj.Bits()
	})
	return groups, nil
}
