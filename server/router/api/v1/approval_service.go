package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/oivmap/oivmap/server/internal/errors"
	"github.com/oivmap/oivmap/server/service/approval"
	"github.com/oivmap/oivmap/store"
)

// SubmitApprovalRequest is the body of POST /api/approve.
type SubmitApprovalRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Status     string `json:"status"`
	Comment    string `json:"comment"`
}

// SubmitApproval records a decision for an entity. Requires a session.
// POST /api/approve
func (s *APIV1Service) SubmitApproval(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		slog.Error("failed to resolve current user", slog.Any("error", err))
		return errorJSON(c, err)
	}
	if user == nil {
		return errorJSON(c, apierrors.Unauthenticated("approval requires an authenticated session"))
	}

	req := &SubmitApprovalRequest{}
	if err := c.Bind(req); err != nil {
		return errorJSON(c, apierrors.ValidationFailed("invalid request body"))
	}

	record, err := s.Approval.Submit(c.Request().Context(), user, &approval.SubmitRequest{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Status:     store.ApprovalStatus(req.Status),
		Comment:    req.Comment,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"approval": convertApproval(record),
	})
}

// GetApproval returns the first recorded decision for an entity, or null.
// GET /api/approvals/:entity_type/:entity_id
func (s *APIV1Service) GetApproval(c echo.Context) error {
	record, err := s.Approval.Get(c.Request().Context(), c.Param("entity_type"), c.Param("entity_id"))
	if err != nil {
		return errorJSON(c, err)
	}
	if record == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, convertApproval(record))
}
