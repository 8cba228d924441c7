package selection

// SubSelection is the contribution of one saved selection to a grouped row.
type SubSelection struct {
	Property string `json:"property"`
	Chips    []Chip `json:"chips"`
	Range    Range  `json:"range"`
}

// GroupedSelection is every saved selection sharing a (node, scheme).
type GroupedSelection struct {
	Node          string         `json:"node"`
	Scheme        string         `json:"scheme"`
	Properties    []string       `json:"properties"`
	SubSelections []SubSelection `json:"subSelections"`
	LocationSets  []LocationSet  `json:"locationSets"`
}

func (g GroupedSelection) Key() GroupKey {
	return GroupKey{Node: g.Node, Scheme: g.Scheme}
}

// Aggregate groups selections by (node, scheme) in first-seen order. Location
// sets are merged by name and the first occurrence wins. The result shares no
// memory with the input.
func Aggregate(selections []Selection) []GroupedSelection {
	index := make(map[GroupKey]int)
	groups := make([]GroupedSelection, 0)

	for _, s := range selections {
		sub := SubSelection{
			Property: s.Property,
			Chips:    append([]Chip(nil), s.Chips...),
			Range:    s.Range,
		}

		i, ok := index[s.GroupKey()]
		if !ok {
			index[s.GroupKey()] = len(groups)
			groups = append(groups, GroupedSelection{
				Node:          s.Node,
				Scheme:        s.Scheme,
				Properties:    []string{s.Property},
				SubSelections: []SubSelection{sub},
				LocationSets:  MergeLocations(nil, s.LocationSets...),
			})
			continue
		}

		g := &groups[i]
		g.SubSelections = append(g.SubSelections, sub)
		if !contains(g.Properties, s.Property) {
			g.Properties = append(g.Properties, s.Property)
		}
		g.LocationSets = MergeLocations(g.LocationSets, s.LocationSets...)
	}

	return groups
}

// MergeLocations appends the sets whose name is not yet present in dst.
// File counts of existing names are not touched.
func MergeLocations(dst []LocationSet, src ...LocationSet) []LocationSet {
	if dst == nil {
		dst = make([]LocationSet, 0, len(src))
	}
	for _, ls := range src {
		if hasLocation(dst, ls.Location) {
			continue
		}
		dst = append(dst, ls)
	}
	return dst
}

func hasLocation(sets []LocationSet, name string) bool {
	for _, ls := range sets {
		if ls.Location == name {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Form is the input form state used to edit a grouped row.
type Form struct {
	Node         string        `json:"node"`
	Scheme       string        `json:"scheme"`
	Property     string        `json:"property"`
	Chips        []Chip        `json:"chips"`
	Range        Range         `json:"range"`
	LocationSets []LocationSet `json:"locationSets"`
}

// EditForm fills the form from the first sub-selection of the row plus its
// merged location sets. Later sub-selections are not reachable this way.
func (g GroupedSelection) EditForm() Form {
	f := Form{
		Node:         g.Node,
		Scheme:       g.Scheme,
		LocationSets: append([]LocationSet(nil), g.LocationSets...),
	}
	if len(g.SubSelections) > 0 {
		first := g.SubSelections[0]
		f.Property = first.Property
		f.Chips = append([]Chip(nil), first.Chips...)
		f.Range = first.Range
	}
	return f
}

// FindGroup returns the row for key.
func FindGroup(groups []GroupedSelection, key GroupKey) (GroupedSelection, bool) {
	for _, g := range groups {
		if g.Key() == key {
			return g, true
		}
	}
	return GroupedSelection{}, false
}
