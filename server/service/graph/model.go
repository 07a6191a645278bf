// Package graph holds the relationship dataset and the filter engine shared
// by every view (3D scene, table, dashboard).
//
// The dataset is a static document loaded once and treated as read-only.
// Filtering is a pure function from (dataset, selection) to a subgraph; the
// three views differ only in which entry point they call.
package graph

import (
	"strings"
)

// Organization is an OIV node in the graph.
//
// The source document stores strategy/program/project membership by display
// name. The loader resolves those names against the dimension collections
// once, so the engine only ever compares IDs.
type Organization struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ComplexID string   `json:"complex"`
	Strategies []string `json:"strategies"`
	Programs   []string `json:"programs"`
	Projects   []string `json:"projects"`

	// Resolved at load time, not part of the document.
	StrategyIDs []string `json:"-"`
	ProgramIDs  []string `json:"-"`
	ProjectIDs  []string `json:"-"`
}

// Edge is a themed relationship between two organizations.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Theme  string `json:"theme"`
	Label  string `json:"label"`
}

// Dimension is a categorical grouping (theme, complex, strategy, program or
// project) with display metadata.
type Dimension struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Dataset is the full relationship document.
type Dataset struct {
	Organizations []*Organization `json:"oiv"`
	Edges         []*Edge         `json:"edges"`
	Themes        []*Dimension    `json:"themes"`
	Complexes     []*Dimension    `json:"complexes"`
	Strategies    []*Dimension    `json:"strategies"`
	Programs      []*Dimension    `json:"programs"`
	Projects      []*Dimension    `json:"projects"`
}

// Organization returns the organization with the given ID, or nil.
func (d *Dataset) Organization(id string) *Organization {
	for _, org := range d.Organizations {
		if org.ID == id {
			return org
		}
	}
	return nil
}

// Selection is a sparse filter: an empty field does not constrain. All
// dimension fields carry IDs; the table and full-page views combine them
// conjunctively while the dashboard picks a single driving dimension.
type Selection struct {
	SourceOrgIDs []string `json:"source_oiv_ids,omitempty"`
	TargetOrgIDs []string `json:"target_oiv_ids,omitempty"`
	Themes       []string `json:"themes,omitempty"`
	Complexes    []string `json:"complexes,omitempty"`
	Strategies   []string `json:"strategies,omitempty"`
	Programs     []string `json:"programs,omitempty"`
	Projects     []string `json:"projects,omitempty"`
	EdgeIDs      []string `json:"edge_ids,omitempty"`

	// Search is the free-text term. A trimmed term of two or more
	// characters takes precedence over every structured dimension.
	Search string `json:"search,omitempty"`
}

// IsEmpty reports whether no structured dimension is set.
func (s *Selection) IsEmpty() bool {
	return len(s.SourceOrgIDs) == 0 &&
		len(s.TargetOrgIDs) == 0 &&
		len(s.Themes) == 0 &&
		len(s.Complexes) == 0 &&
		len(s.Strategies) == 0 &&
		len(s.Programs) == 0 &&
		len(s.Projects) == 0 &&
		len(s.EdgeIDs) == 0
}

// searchTerm returns the normalized search term and whether it is long
// enough to drive a search.
func (s *Selection) searchTerm() (string, bool) {
	term := strings.TrimSpace(s.Search)
	return term, len([]rune(term)) >= 2
}

// Subgraph is the filtered projection consumed by a view. Organizations and
// Edges are always populated; the dimension collections are either passed
// through untouched (dashboard) or trimmed in lockstep with the selection
// (full page).
type Subgraph struct {
	Organizations []*Organization `json:"oiv"`
	Edges         []*Edge         `json:"edges"`
	Themes        []*Dimension    `json:"themes"`
	Complexes     []*Dimension    `json:"complexes"`
	Strategies    []*Dimension    `json:"strategies"`
	Programs      []*Dimension    `json:"programs"`
	Projects      []*Dimension    `json:"projects"`
}

func emptySubgraph() *Subgraph {
	return &Subgraph{
		Organizations: []*Organization{},
		Edges:         []*Edge{},
		Themes:        []*Dimension{},
		Complexes:     []*Dimension{},
		Strategies:    []*Dimension{},
		Programs:      []*Dimension{},
		Projects:      []*Dimension{},
	}
}

type stringSet map[string]struct{}

func newStringSet(values ...[]string) stringSet {
	set := make(stringSet)
	for _, list := range values {
		for _, v := range list {
			set[v] = struct{}{}
		}
	}
	return set
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) intersects(list []string) bool {
	for _, v := range list {
		if s.has(v) {
			return true
		}
	}
	return false
}
