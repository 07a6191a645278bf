package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *Dataset {
	ds := &Dataset{
		Organizations: []*Organization{
			{ID: "A", Name: "Транспорт", ComplexID: "k1", Strategies: []string{"Digital"}, Programs: []string{"Smart City"}},
			{ID: "B", Name: "Финансы", ComplexID: "k1", Strategies: []string{"Digital"}, Projects: []string{"Portal"}},
			{ID: "C", Name: "Экология", ComplexID: "k2"},
			{ID: "D", Name: "Архив", ComplexID: "k2"},
		},
		Edges: []*Edge{
			{ID: "e1", Source: "A", Target: "B", Theme: "T1", Label: "обмен данными"},
			{ID: "e2", Source: "B", Target: "C", Theme: "T2", Label: "отчетность"},
		},
		Themes: []*Dimension{
			{ID: "T1", Name: "Данные"},
			{ID: "T2", Name: "Отчеты"},
		},
		Complexes: []*Dimension{
			{ID: "k1", Name: "Городское хозяйство"},
			{ID: "k2", Name: "Социальный блок"},
		},
		Strategies: []*Dimension{
			{ID: "s1", Name: "Digital"},
		},
		Programs: []*Dimension{
			{ID: "p1", Name: "Smart City"},
		},
		Projects: []*Dimension{
			{ID: "pr1", Name: "Portal"},
		},
	}
	normalize(ds)
	return ds
}

func orgIDs(orgs []*Organization) []string {
	ids := make([]string, 0, len(orgs))
	for _, o := range orgs {
		ids = append(ids, o.ID)
	}
	return ids
}

func edgeIDs(edges []*Edge) []string {
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestDashboardSourceOrg(t *testing.T) {
	ds := testDataset()
	sub := Dashboard(ds, &Selection{SourceOrgIDs: []string{"A"}})
	assert.ElementsMatch(t, []string{"e1"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"A", "B"}, orgIDs(sub.Organizations))
}

func TestDashboardTheme(t *testing.T) {
	ds := testDataset()
	sub := Dashboard(ds, &Selection{Themes: []string{"T2"}})
	assert.ElementsMatch(t, []string{"e2"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"B", "C"}, orgIDs(sub.Organizations))
}

func TestDashboardEmptySelection(t *testing.T) {
	ds := testDataset()
	sub := Dashboard(ds, &Selection{})
	assert.Empty(t, sub.Edges)
	assert.Empty(t, sub.Organizations)
}

func TestDashboardPriorityOrder(t *testing.T) {
	ds := testDataset()
	// Source organization beats theme when both are set.
	sub := Dashboard(ds, &Selection{SourceOrgIDs: []string{"A"}, Themes: []string{"T2"}})
	assert.ElementsMatch(t, []string{"e1"}, edgeIDs(sub.Edges))
}

func TestDashboardComplexClosure(t *testing.T) {
	ds := testDataset()
	sub := Dashboard(ds, &Selection{Complexes: []string{"k2"}})
	// C and D belong to k2; only C has an edge, via B. D is dropped by
	// closure, B comes in as an endpoint.
	assert.ElementsMatch(t, []string{"e2"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"B", "C"}, orgIDs(sub.Organizations))
}

func TestDashboardClosureInvariant(t *testing.T) {
	ds := testDataset()
	selections := []*Selection{
		{SourceOrgIDs: []string{"A", "B"}},
		{TargetOrgIDs: []string{"C"}},
		{Themes: []string{"T1", "T2"}},
		{Complexes: []string{"k1"}},
		{Strategies: []string{"s1"}},
		{Programs: []string{"p1"}},
		{EdgeIDs: []string{"e1"}},
	}
	for _, sel := range selections {
		sub := Dashboard(ds, sel)
		requireClosed(t, sub)
	}
}

func requireClosed(t *testing.T, sub *Subgraph) {
	t.Helper()
	inOrgs := make(map[string]bool)
	for _, o := range sub.Organizations {
		inOrgs[o.ID] = true
	}
	touched := make(map[string]bool)
	for _, e := range sub.Edges {
		require.True(t, inOrgs[e.Source], "edge %s source %s missing from organizations", e.ID, e.Source)
		require.True(t, inOrgs[e.Target], "edge %s target %s missing from organizations", e.ID, e.Target)
		touched[e.Source] = true
		touched[e.Target] = true
	}
	for _, o := range sub.Organizations {
		require.True(t, touched[o.ID], "organization %s has no qualifying edge", o.ID)
	}
}

func TestDashboardIdempotent(t *testing.T) {
	ds := testDataset()
	sel := &Selection{Themes: []string{"T1"}}
	first := Dashboard(ds, sel)
	second := Dashboard(ds, sel)
	assert.Equal(t, first, second)
}

func TestPageConjunctive(t *testing.T) {
	ds := testDataset()

	byComplex := Page(ds, &Selection{Complexes: []string{"k1"}})
	assert.ElementsMatch(t, []string{"A", "B"}, orgIDs(byComplex.Organizations))
	// Closure is not enforced on the page path: edges stay untouched.
	assert.Len(t, byComplex.Edges, 2)
	// The complex collection itself is trimmed in lockstep.
	require.Len(t, byComplex.Complexes, 1)
	assert.Equal(t, "k1", byComplex.Complexes[0].ID)

	narrowed := Page(ds, &Selection{Complexes: []string{"k1"}, Strategies: []string{"s1"}, Themes: []string{"T1"}})
	assert.ElementsMatch(t, []string{"A", "B"}, orgIDs(narrowed.Organizations))
	assert.ElementsMatch(t, []string{"e1"}, edgeIDs(narrowed.Edges))
}

func TestPageMonotonicity(t *testing.T) {
	ds := testDataset()
	base := Page(ds, &Selection{Complexes: []string{"k1"}})
	narrowed := Page(ds, &Selection{Complexes: []string{"k1"}, Projects: []string{"pr1"}})

	assert.Subset(t, orgIDs(base.Organizations), orgIDs(narrowed.Organizations))
	assert.Subset(t, edgeIDs(base.Edges), edgeIDs(narrowed.Edges))
	assert.LessOrEqual(t, len(narrowed.Organizations), len(base.Organizations))
}

func TestPageMembershipResolvedByName(t *testing.T) {
	ds := testDataset()
	// Organizations store membership by display name; the loader resolves
	// "Smart City" to program p1.
	sub := Page(ds, &Selection{Programs: []string{"p1"}})
	assert.ElementsMatch(t, []string{"A"}, orgIDs(sub.Organizations))
}

func TestSearchPrecedence(t *testing.T) {
	ds := testDataset()
	sel := &Selection{Themes: []string{"T1"}, Search: "Экология"}

	fromPage := Page(ds, sel)
	fromDashboard := Dashboard(ds, sel)
	direct := Search(ds, "Экология")

	assert.Equal(t, direct, fromPage)
	assert.Equal(t, direct, fromDashboard)
}

func TestSearchTooShortFallsThrough(t *testing.T) {
	ds := testDataset()
	sel := &Selection{Themes: []string{"T1"}, Search: "Э"}
	sub := Dashboard(ds, sel)
	// One rune is below the search threshold; the theme filter applies.
	assert.ElementsMatch(t, []string{"e1"}, edgeIDs(sub.Edges))
}

func TestSearchMatchesOrganization(t *testing.T) {
	ds := testDataset()
	sub := Search(ds, "финансы")
	// B matches by name; both of B's edges and their endpoints follow.
	assert.ElementsMatch(t, []string{"e1", "e2"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, orgIDs(sub.Organizations))
}

func TestSearchMatchesEdgeLabel(t *testing.T) {
	ds := testDataset()
	sub := Search(ds, "отчет")
	assert.ElementsMatch(t, []string{"e2"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"B", "C"}, orgIDs(sub.Organizations))
}

func TestSearchKeepsEdgelessMatch(t *testing.T) {
	ds := testDataset()
	sub := Search(ds, "Архив")
	assert.Empty(t, sub.Edges)
	assert.ElementsMatch(t, []string{"D"}, orgIDs(sub.Organizations))
}

func TestSearchMatchesThemeName(t *testing.T) {
	ds := testDataset()
	sub := Search(ds, "Данные")
	// Theme T1 matches by display name; e1 carries T1 as an ID, so the edge
	// and its endpoints must come along with the theme itself.
	assert.ElementsMatch(t, []string{"e1"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"A", "B"}, orgIDs(sub.Organizations))
	require.Len(t, sub.Themes, 1)
	assert.Equal(t, "T1", sub.Themes[0].ID)
}

func TestSearchMatchesDimensionMembers(t *testing.T) {
	ds := testDataset()
	sub := Search(ds, "Социальный")
	// Complex k2 matches; members C and D come along, C drags in e2 and B.
	assert.ElementsMatch(t, []string{"e2"}, edgeIDs(sub.Edges))
	assert.ElementsMatch(t, []string{"B", "C", "D"}, orgIDs(sub.Organizations))
	require.Len(t, sub.Complexes, 1)
	assert.Equal(t, "k2", sub.Complexes[0].ID)
}
