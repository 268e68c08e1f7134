package model

//
// Prefix groups and the prefix universe
//

// PrefixGroup is the set of minimal address units (/24 prefixes)
// aggregated under a single advertised route.
type PrefixGroup struct {
	// Route is the advertised route (e.g., "192.0.2.0/23").
	Route string `json:"route"`

	// Units contains the minimal address units in the route.
	Units []string `json:"units"`
}

// Size returns the number of units in the group.
func (g PrefixGroup) Size() int {
	return len(g.Units)
}

// TotalSize returns the total number of units in groups.
func TotalSize(groups []PrefixGroup) (total int) {
	for _, g := range groups {
		total += g.Size()
	}
	return
}

// PrefixUniverse is the ordered and immutable collection of prefix
// groups a campaign is authorized to probe.
type PrefixUniverse struct {
	groups []PrefixGroup
	units  []string
	index  map[string]int
}

// NewPrefixUniverse creates a [*PrefixUniverse] from the given groups. A unit
// appearing in more than one group is only counted the first time.
func NewPrefixUniverse(groups []PrefixGroup) *PrefixUniverse {
	u := &PrefixUniverse{
		groups: make([]PrefixGroup, 0, len(groups)),
		index:  make(map[string]int),
	}
	for gidx, g := range groups {
		units := make([]string, 0, len(g.Units))
		for _, unit := range g.Units {
			if _, found := u.index[unit]; found {
				continue
			}
			u.index[unit] = gidx
			units = append(units, unit)
		}
		u.groups = append(u.groups, PrefixGroup{Route: g.Route, Units: units})
		u.units = append(u.units, units...)
	}
	return u
}

// Groups returns a copy of the groups in the universe.
func (u *PrefixUniverse) Groups() []PrefixGroup {
	return append([]PrefixGroup{}, u.groups...)
}

// Units returns a copy of all the units in order.
func (u *PrefixUniverse) Units() []string {
	return append([]string{}, u.units...)
}

// TotalSize returns the number of units in the universe.
func (u *PrefixUniverse) TotalSize() int {
	return len(u.units)
}

// Contains returns whether the universe contains the given unit.
func (u *PrefixUniverse) Contains(unit string) bool {
	_, found := u.index[unit]
	return found
}

// RouteOf returns the advertised route of the given unit.
func (u *PrefixUniverse) RouteOf(unit string) (string, bool) {
	gidx, found := u.index[unit]
	if !found {
		return "", false
	}
	return u.groups[gidx].Route, true
}
