package graph

import (
	"strings"
)

// Dashboard applies the single-dimension filter used by the drill-down
// dashboard. Exactly one dimension drives the result, picked in fixed
// priority order: source organization, target organization, theme, complex,
// strategy, program, edge ID. The first non-empty dimension wins; when all
// are empty the result is the empty subgraph.
//
// The result is closed: organizations are recomputed as the endpoints of the
// surviving edges, so no organization appears without an edge and no edge
// references a missing organization. Dimension collections pass through
// untouched.
//
// A search term of two or more characters overrides the structured
// dimensions entirely.
func Dashboard(ds *Dataset, sel *Selection) *Subgraph {
	if term, ok := sel.searchTerm(); ok {
		return Search(ds, term)
	}

	var edges []*Edge
	switch {
	case len(sel.SourceOrgIDs) > 0:
		ids := newStringSet(sel.SourceOrgIDs)
		edges = filterEdges(ds.Edges, func(e *Edge) bool { return ids.has(e.Source) })
	case len(sel.TargetOrgIDs) > 0:
		ids := newStringSet(sel.TargetOrgIDs)
		edges = filterEdges(ds.Edges, func(e *Edge) bool { return ids.has(e.Target) })
	case len(sel.Themes) > 0:
		themes := newStringSet(sel.Themes)
		edges = filterEdges(ds.Edges, func(e *Edge) bool { return themes.has(e.Theme) })
	case len(sel.Complexes) > 0:
		complexes := newStringSet(sel.Complexes)
		edges = edgesTouching(ds, orgIDsWhere(ds, func(o *Organization) bool {
			return complexes.has(o.ComplexID)
		}))
	case len(sel.Strategies) > 0:
		strategies := newStringSet(sel.Strategies)
		edges = edgesTouching(ds, orgIDsWhere(ds, func(o *Organization) bool {
			return strategies.intersects(o.StrategyIDs)
		}))
	case len(sel.Programs) > 0:
		programs := newStringSet(sel.Programs)
		edges = edgesTouching(ds, orgIDsWhere(ds, func(o *Organization) bool {
			return programs.intersects(o.ProgramIDs)
		}))
	case len(sel.EdgeIDs) > 0:
		ids := newStringSet(sel.EdgeIDs)
		edges = filterEdges(ds.Edges, func(e *Edge) bool { return ids.has(e.ID) })
	default:
		return emptySubgraph()
	}

	orgs, edges := closure(ds, edges)
	return &Subgraph{
		Organizations: orgs,
		Edges:         edges,
		Themes:        ds.Themes,
		Complexes:     ds.Complexes,
		Strategies:    ds.Strategies,
		Programs:      ds.Programs,
		Projects:      ds.Projects,
	}
}

// Page applies the conjunctive filter used by the full-page and table views:
// every non-empty dimension narrows the result further. The source and
// target organization lists form a single organization dimension.
// Complex, strategy, program and project collections are trimmed in lockstep
// with the selection; themes pass through.
//
// Unlike Dashboard, the result is not closed: organizations filtered out by
// a criterion that does not apply to edges leave their edges in place. The
// views tolerate the dangling endpoints and the historical behavior is kept.
//
// A search term of two or more characters overrides the structured
// dimensions entirely.
func Page(ds *Dataset, sel *Selection) *Subgraph {
	if term, ok := sel.searchTerm(); ok {
		return Search(ds, term)
	}

	orgs := ds.Organizations
	if len(sel.SourceOrgIDs) > 0 || len(sel.TargetOrgIDs) > 0 {
		selected := newStringSet(sel.SourceOrgIDs, sel.TargetOrgIDs)
		orgs = filterOrgs(orgs, func(o *Organization) bool { return selected.has(o.ID) })
	}
	if len(sel.Complexes) > 0 {
		complexes := newStringSet(sel.Complexes)
		orgs = filterOrgs(orgs, func(o *Organization) bool { return complexes.has(o.ComplexID) })
	}
	if len(sel.Strategies) > 0 {
		strategies := newStringSet(sel.Strategies)
		orgs = filterOrgs(orgs, func(o *Organization) bool { return strategies.intersects(o.StrategyIDs) })
	}
	if len(sel.Programs) > 0 {
		programs := newStringSet(sel.Programs)
		orgs = filterOrgs(orgs, func(o *Organization) bool { return programs.intersects(o.ProgramIDs) })
	}
	if len(sel.Projects) > 0 {
		projects := newStringSet(sel.Projects)
		orgs = filterOrgs(orgs, func(o *Organization) bool { return projects.intersects(o.ProjectIDs) })
	}

	edges := ds.Edges
	if len(sel.SourceOrgIDs) > 0 {
		sources := newStringSet(sel.SourceOrgIDs)
		edges = filterEdges(edges, func(e *Edge) bool { return sources.has(e.Source) })
	}
	if len(sel.TargetOrgIDs) > 0 {
		targets := newStringSet(sel.TargetOrgIDs)
		edges = filterEdges(edges, func(e *Edge) bool { return targets.has(e.Target) })
	}
	if len(sel.Themes) > 0 {
		themes := newStringSet(sel.Themes)
		edges = filterEdges(edges, func(e *Edge) bool { return themes.has(e.Theme) })
	}
	if len(sel.EdgeIDs) > 0 {
		ids := newStringSet(sel.EdgeIDs)
		edges = filterEdges(edges, func(e *Edge) bool { return ids.has(e.ID) })
	}

	return &Subgraph{
		Organizations: orgs,
		Edges:         edges,
		Themes:        ds.Themes,
		Complexes:     trimDimensions(ds.Complexes, sel.Complexes),
		Strategies:    trimDimensions(ds.Strategies, sel.Strategies),
		Programs:      trimDimensions(ds.Programs, sel.Programs),
		Projects:      trimDimensions(ds.Projects, sel.Projects),
	}
}

// Search returns the subgraph of everything whose display text contains the
// term, case-insensitively: organizations by name, dimensions by name (their
// member organizations come along), edges by theme name or label. Edges touching
// a matched organization are included and their other endpoints follow; a
// matched organization with no edges stays visible.
func Search(ds *Dataset, term string) *Subgraph {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return emptySubgraph()
	}
	match := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	matchedOrgs := make(stringSet)
	for _, org := range ds.Organizations {
		if match(org.Name) {
			matchedOrgs[org.ID] = struct{}{}
		}
	}

	// A matching dimension pulls in its member organizations.
	complexes := matchDimensions(ds.Complexes, match)
	strategies := matchDimensions(ds.Strategies, match)
	programs := matchDimensions(ds.Programs, match)
	projects := matchDimensions(ds.Projects, match)
	themes := matchDimensions(ds.Themes, match)

	complexSet := dimSetFrom(complexes)
	strategySet := dimSetFrom(strategies)
	programSet := dimSetFrom(programs)
	projectSet := dimSetFrom(projects)
	for _, org := range ds.Organizations {
		if complexSet.has(org.ComplexID) ||
			strategySet.intersects(org.StrategyIDs) ||
			programSet.intersects(org.ProgramIDs) ||
			projectSet.intersects(org.ProjectIDs) {
			matchedOrgs[org.ID] = struct{}{}
		}
	}

	// Edge themes are stored as IDs, so a matching theme name has to reach
	// its edges through the matched-theme set.
	themeSet := dimSetFrom(themes)
	edges := filterEdges(ds.Edges, func(e *Edge) bool {
		return match(e.Theme) || match(e.Label) || themeSet.has(e.Theme) ||
			matchedOrgs.has(e.Source) || matchedOrgs.has(e.Target)
	})

	orgs, edges := closure(ds, edges)
	seen := make(stringSet, len(orgs))
	for _, org := range orgs {
		seen[org.ID] = struct{}{}
	}
	// Matched organizations stay visible even without a single edge.
	for _, org := range ds.Organizations {
		if matchedOrgs.has(org.ID) && !seen.has(org.ID) {
			orgs = append(orgs, org)
		}
	}

	return &Subgraph{
		Organizations: orgs,
		Edges:         edges,
		Themes:        themes,
		Complexes:     complexes,
		Strategies:    strategies,
		Programs:      programs,
		Projects:      projects,
	}
}

// closure keeps only edges whose endpoints exist in the dataset and derives
// the organization set from those endpoints, so the returned pair is
// self-consistent.
func closure(ds *Dataset, edges []*Edge) ([]*Organization, []*Edge) {
	known := make(stringSet, len(ds.Organizations))
	for _, org := range ds.Organizations {
		known[org.ID] = struct{}{}
	}

	kept := make([]*Edge, 0, len(edges))
	touched := make(stringSet)
	for _, e := range edges {
		if !known.has(e.Source) || !known.has(e.Target) {
			continue
		}
		kept = append(kept, e)
		touched[e.Source] = struct{}{}
		touched[e.Target] = struct{}{}
	}

	orgs := make([]*Organization, 0, len(touched))
	for _, org := range ds.Organizations {
		if touched.has(org.ID) {
			orgs = append(orgs, org)
		}
	}
	return orgs, kept
}

func filterEdges(edges []*Edge, keep func(*Edge) bool) []*Edge {
	out := make([]*Edge, 0, len(edges))
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterOrgs(orgs []*Organization, keep func(*Organization) bool) []*Organization {
	out := make([]*Organization, 0, len(orgs))
	for _, o := range orgs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func orgIDsWhere(ds *Dataset, keep func(*Organization) bool) stringSet {
	ids := make(stringSet)
	for _, org := range ds.Organizations {
		if keep(org) {
			ids[org.ID] = struct{}{}
		}
	}
	return ids
}

func edgesTouching(ds *Dataset, orgIDs stringSet) []*Edge {
	return filterEdges(ds.Edges, func(e *Edge) bool {
		return orgIDs.has(e.Source) || orgIDs.has(e.Target)
	})
}

func trimDimensions(dims []*Dimension, selected []string) []*Dimension {
	if len(selected) == 0 {
		return dims
	}
	set := newStringSet(selected)
	out := make([]*Dimension, 0, len(selected))
	for _, d := range dims {
		if set.has(d.ID) {
			out = append(out, d)
		}
	}
	return out
}

func matchDimensions(dims []*Dimension, match func(string) bool) []*Dimension {
	out := make([]*Dimension, 0)
	for _, d := range dims {
		if match(d.Name) {
			out = append(out, d)
		}
	}
	return out
}

func dimSetFrom(dims []*Dimension) stringSet {
	set := make(stringSet, len(dims))
	for _, d := range dims {
		set[d.ID] = struct{}{}
	}
	return set
}
