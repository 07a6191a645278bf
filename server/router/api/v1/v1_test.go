package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/server/auth"
	"github.com/oivmap/oivmap/server/service/graph"
	storetest "github.com/oivmap/oivmap/store/test"
)

const testDoc = `{
	"oiv": [
		{"id": "A", "name": "Транспорт", "complex": "k1", "strategies": [], "programs": [], "projects": []},
		{"id": "B", "name": "Финансы", "complex": "k1", "strategies": [], "programs": [], "projects": []}
	],
	"edges": [
		{"id": "e1", "source": "A", "target": "B", "theme": "T1", "label": "обмен данными"}
	],
	"themes": [{"id": "T1", "name": "Данные", "color": "#123456"}],
	"complexes": [{"id": "k1", "name": "Городское хозяйство", "color": "#654321"}],
	"strategies": [],
	"programs": [],
	"projects": []
}`

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0o644))

	p := &profile.Profile{
		Mode:          "dev",
		Driver:        "memory",
		DatasetPath:   path,
		SessionSecret: "testing-secret",
	}
	svc := NewAPIV1Service(p, storetest.NewTestingStore(ctx, t), graph.NewLoader(path))

	e := echo.New()
	svc.RegisterRoutes(e)
	return svc, e
}

func doJSON(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) *http.Cookie {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/login", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response has no session cookie")
	return nil
}

func TestLoginSuccess(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		User    *UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.User)
	assert.Equal(t, "admin", body.User.Role)
}

func TestLoginWrongPasswordNoLockout(t *testing.T) {
	_, e := newTestService(t)
	// Two wrong attempts both fail identically; there is no lockout.
	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodPost, "/api/login", `{"username":"admin","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	}
	// The account still works.
	login(t, e, "admin", "admin123")
}

func TestLoginUnknownUser(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodPost, "/api/login", `{"username":"ghost","password":"x"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUserLifecycle(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(e, http.MethodGet, "/api/current-user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	cookie := login(t, e, "digit", "digit2024")
	rec = doJSON(e, http.MethodGet, "/api/current-user", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "oiv-dit", user.OrgID)
	assert.Equal(t, "standard", user.Role)

	// Logout destroys the session; repeating it is harmless.
	rec = doJSON(e, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/current-user", "", cookie)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestApproveRequiresSession(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodPost, "/api/approve", `{"entity_type":"edge","entity_id":"e1","status":"approved"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApproveRoundTrip(t *testing.T) {
	_, e := newTestService(t)
	cookie := login(t, e, "digit", "digit2024")

	rec := doJSON(e, http.MethodPost, "/api/approve",
		`{"entity_type":"edge","entity_id":"e1","status":"rejected","comment":"нет основания"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/approvals/edge/e1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var approval ApprovalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approval))
	assert.Equal(t, "rejected", approval.Status)
	assert.Equal(t, "нет основания", approval.Comment)
	assert.Equal(t, "oiv-dit", approval.ApproverOrgID)
}

func TestApproveDiscardsComment(t *testing.T) {
	_, e := newTestService(t)
	cookie := login(t, e, "digit", "digit2024")

	rec := doJSON(e, http.MethodPost, "/api/approve",
		`{"entity_type":"edge","entity_id":"e1","status":"approved","comment":"ignored"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Approval ApprovalResponse `json:"approval"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Approval.Comment)
}

func TestApproveRejectionNeedsComment(t *testing.T) {
	_, e := newTestService(t)
	cookie := login(t, e, "digit", "digit2024")

	rec := doJSON(e, http.MethodPost, "/api/approve",
		`{"entity_type":"edge","entity_id":"e1","status":"rejected"}`, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetApprovalMissing(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/api/approvals/edge/none", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestGetDataset(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/api/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ds graph.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	assert.Len(t, ds.Organizations, 2)
	assert.Len(t, ds.Edges, 1)
}

func TestFilterDashboardMode(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/api/filter?mode=dashboard&source_oiv_ids=A", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sub graph.Subgraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	require.Len(t, sub.Edges, 1)
	assert.Equal(t, "e1", sub.Edges[0].ID)
	assert.Len(t, sub.Organizations, 2)
}

func TestFilterSearchPrecedence(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/api/filter?themes=T1&q=Финансы", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sub graph.Subgraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	// The search term wins over the structured theme filter.
	require.Len(t, sub.Edges, 1)
	assert.Len(t, sub.Organizations, 2)
}

func TestFilterEmptyDashboardSelection(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/api/filter?mode=dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sub graph.Subgraph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Empty(t, sub.Edges)
	assert.Empty(t, sub.Organizations)
}

func TestReloadRequiresAdmin(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/admin/dataset/reload", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := login(t, e, "digit", "digit2024")
	rec = doJSON(e, http.MethodPost, "/api/admin/dataset/reload", "", cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := login(t, e, "admin", "admin123")
	rec = doJSON(e, http.MethodPost, "/api/admin/dataset/reload", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	_, e := newTestService(t)
	rec := doJSON(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
