package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apierrors "github.com/oivmap/oivmap/server/internal/errors"
	"github.com/oivmap/oivmap/server/service/graph"
	"github.com/oivmap/oivmap/store"
)

// GetDataset serves the full dataset document the views fetch on load.
// GET /api/dataset
func (s *APIV1Service) GetDataset(c echo.Context) error {
	ds, err := s.Loader.Get(c.Request().Context())
	if err != nil {
		slog.Error("failed to load dataset", slog.Any("error", err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, ds)
}

// FilterDataset evaluates the filter engine server-side. Dimension values
// come as repeated or comma-separated query parameters, `q` is the search
// term, and `mode` picks the engine variant: "dashboard" for the
// single-dimension drill-down path, anything else for the conjunctive page
// path.
// GET /api/filter
func (s *APIV1Service) FilterDataset(c echo.Context) error {
	ds, err := s.Loader.Get(c.Request().Context())
	if err != nil {
		slog.Error("failed to load dataset", slog.Any("error", err))
		return errorJSON(c, err)
	}

	sel := selectionFromQuery(c)
	var sub *graph.Subgraph
	if c.QueryParam("mode") == "dashboard" {
		sub = graph.Dashboard(ds, sel)
	} else {
		sub = graph.Page(ds, sel)
	}
	return c.JSON(http.StatusOK, sub)
}

// ReloadDataset atomically replaces the cached dataset. Admin only.
// POST /api/admin/dataset/reload
func (s *APIV1Service) ReloadDataset(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if user == nil {
		return errorJSON(c, apierrors.Unauthenticated("dataset reload requires an authenticated session"))
	}
	if user.Role != store.RoleAdmin {
		return errorJSON(c, apierrors.Unauthenticated("dataset reload requires the admin role"))
	}

	ds, err := s.Loader.Reload(c.Request().Context())
	if err != nil {
		slog.Error("failed to reload dataset", slog.Any("error", err))
		return errorJSON(c, err)
	}
	slog.Info("dataset reloaded",
		slog.Int("organizations", len(ds.Organizations)),
		slog.Int("edges", len(ds.Edges)))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func selectionFromQuery(c echo.Context) *graph.Selection {
	return &graph.Selection{
		SourceOrgIDs: queryList(c, "source_oiv_ids"),
		TargetOrgIDs: queryList(c, "target_oiv_ids"),
		Themes:       queryList(c, "themes"),
		Complexes:    queryList(c, "complexes"),
		Strategies:   queryList(c, "strategies"),
		Programs:     queryList(c, "programs"),
		Projects:     queryList(c, "projects"),
		EdgeIDs:      queryList(c, "edge_ids"),
		Search:       c.QueryParam("q"),
	}
}

// queryList gathers repeated parameters and splits comma-separated values.
func queryList(c echo.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryParams()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}
