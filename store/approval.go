package store

// ApprovalStatus is the decision state of an approval record.
type ApprovalStatus string

const (
	// ApprovalPending means no decision has been made yet.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved means the entity was approved.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected means the entity was rejected.
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known decision states.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Approval is one submitted decision for an entity. Records are append-only:
// a new submission for the same entity is appended, never merged, and lookup
// returns the first record in insertion order that matches the entity ID.
type Approval struct {
	ID int32

	// Standard fields
	CreatedTs int64

	// Domain specific fields
	EntityType    string
	EntityID      string
	Status        ApprovalStatus
	Comment       string
	ApproverID    int32
	ApproverName  string
	ApproverOrgID string
}

// FindApproval specifies the conditions for finding approvals.
// Results are always returned in insertion order.
type FindApproval struct {
	EntityType *string
	EntityID   *string
	ApproverID *int32
}
