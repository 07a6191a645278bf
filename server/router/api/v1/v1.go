// Package v1 exposes the HTTP surface: session auth, the approval workflow
// and the dataset/filter endpoints every view is built on.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/server/auth"
	apierrors "github.com/oivmap/oivmap/server/internal/errors"
	"github.com/oivmap/oivmap/server/middleware"
	"github.com/oivmap/oivmap/server/service/approval"
	"github.com/oivmap/oivmap/server/service/graph"
	"github.com/oivmap/oivmap/store"
)

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Sessions *auth.SessionManager
	Loader   *graph.Loader
	Approval *approval.Service

	loginLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, loader *graph.Loader) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Store:        store,
		Sessions:     auth.NewSessionManager(profile.SessionSecret),
		Loader:       loader,
		Approval:     approval.NewService(store),
		loginLimiter: middleware.NewRateLimiter(),
	}
}

// RegisterRoutes attaches all API handlers to the echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	api := echoServer.Group("/api")

	api.POST("/login", s.Login)
	api.POST("/logout", s.Logout)
	api.GET("/current-user", s.CurrentUser)

	api.POST("/approve", s.SubmitApproval)
	api.GET("/approvals/:entity_type/:entity_id", s.GetApproval)

	api.GET("/dataset", s.GetDataset)
	api.GET("/filter", s.FilterDataset)
	api.POST("/admin/dataset/reload", s.ReloadDataset)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
}

// UserResponse is the wire shape of a user.
type UserResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	OrgID string `json:"oiv_id"`
}

func convertUser(user *store.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Name:  user.Nickname,
		Role:  strings.ToLower(user.Role.String()),
		OrgID: user.OrgID,
	}
}

// ApprovalResponse is the wire shape of an approval record.
type ApprovalResponse struct {
	ID            int32  `json:"id"`
	EntityType    string `json:"entity_type"`
	EntityID      string `json:"entity_id"`
	Status        string `json:"status"`
	Comment       string `json:"comment"`
	ApproverID    int32  `json:"approver_id"`
	ApproverName  string `json:"approver_name"`
	ApproverOrgID string `json:"approver_org_id"`
	CreatedTs     int64  `json:"created_ts"`
}

func convertApproval(approval *store.Approval) *ApprovalResponse {
	return &ApprovalResponse{
		ID:            approval.ID,
		EntityType:    approval.EntityType,
		EntityID:      approval.EntityID,
		Status:        approval.Status.String(),
		Comment:       approval.Comment,
		ApproverID:    approval.ApproverID,
		ApproverName:  approval.ApproverName,
		ApproverOrgID: approval.ApproverOrgID,
		CreatedTs:     approval.CreatedTs,
	}
}

// currentUser resolves the session cookie to a user, or nil when the
// request carries no valid session.
func (s *APIV1Service) currentUser(c echo.Context) (*store.User, error) {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	session, ok := s.Sessions.Resolve(cookie.Value)
	if !ok {
		return nil, nil
	}
	return s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &session.UserID})
}

func errorJSON(c echo.Context, err error) error {
	message := "internal error"
	if apiErr, ok := err.(*apierrors.APIError); ok {
		message = apiErr.Message
	}
	return c.JSON(statusForError(err), map[string]any{
		"success": false,
		"error":   message,
	})
}

func statusForError(err error) int {
	switch apierrors.GetCodeFromError(err, "") {
	case apierrors.ErrCodeInvalidCredentials, apierrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apierrors.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case apierrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
