package store

// Role is the type of a user role.
type Role string

const (
	// RoleAdmin is the ADMIN role.
	RoleAdmin Role = "ADMIN"
	// RoleStandard is the STANDARD role.
	RoleStandard Role = "STANDARD"
)

func (r Role) String() string {
	return string(r)
}

// User represents an approver account.
// Passwords are compared as plain strings against the seeded user list.
type User struct {
	ID int32

	// Standard fields
	CreatedTs int64

	// Domain specific fields
	Username string
	Password string
	Nickname string
	Role     Role
	// OrgID is the organization the user is affiliated with.
	// Empty means the user sees all organizations.
	OrgID string
}

// FindUser specifies the conditions for finding users.
type FindUser struct {
	ID       *int32
	Username *string
	Role     *Role
}
