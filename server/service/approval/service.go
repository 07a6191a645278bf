// Package approval implements the approval workflow: authenticated users
// record approve/reject decisions against dataset entities.
package approval

import (
	"context"
	"strings"

	apierrors "github.com/oivmap/oivmap/server/internal/errors"
	"github.com/oivmap/oivmap/store"
)

// Service records and looks up approval decisions.
type Service struct {
	store *store.Store
}

// NewService creates an approval service on top of the store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// SubmitRequest is one decision submission.
type SubmitRequest struct {
	EntityType string
	EntityID   string
	Status     store.ApprovalStatus
	Comment    string
}

// Submit appends a decision record for the entity. The record is keyed by
// the pluralized entity type and never replaces earlier submissions, even
// from the same approver.
//
// The comment is stored only for rejections; for approved and pending
// decisions any submitted comment is discarded on purpose.
func (s *Service) Submit(ctx context.Context, user *store.User, req *SubmitRequest) (*store.Approval, error) {
	if user == nil {
		return nil, apierrors.Unauthenticated("approval requires an authenticated session")
	}
	if req.EntityType == "" || req.EntityID == "" {
		return nil, apierrors.ValidationFailed("entity_type and entity_id are required")
	}
	if !req.Status.IsValid() {
		return nil, apierrors.ValidationFailed("status must be one of pending, approved, rejected")
	}

	comment := strings.TrimSpace(req.Comment)
	if req.Status == store.ApprovalRejected {
		if comment == "" {
			return nil, apierrors.ValidationFailed("a rejection requires a comment")
		}
	} else {
		comment = ""
	}

	return s.store.CreateApproval(ctx, &store.Approval{
		EntityType:    pluralize(req.EntityType),
		EntityID:      req.EntityID,
		Status:        req.Status,
		Comment:       comment,
		ApproverID:    user.ID,
		ApproverName:  user.Nickname,
		ApproverOrgID: user.OrgID,
	})
}

// Get returns the first recorded decision for the entity in submission
// order, regardless of approver, or nil when none exists.
func (s *Service) Get(ctx context.Context, entityType, entityID string) (*store.Approval, error) {
	if entityType == "" || entityID == "" {
		return nil, apierrors.ValidationFailed("entity_type and entity_id are required")
	}
	return s.store.GetApproval(ctx, pluralize(entityType), entityID)
}

// pluralize maps an entity type to its list key ("edge" and "edges" land in
// the same list).
func pluralize(entityType string) string {
	entityType = strings.ToLower(strings.TrimSpace(entityType))
	if strings.HasSuffix(entityType, "s") {
		return entityType
	}
	return entityType + "s"
}
