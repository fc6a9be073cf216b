package knowledge

import "time"

// Role constants for user authorization.
const (
	RoleAdmin    = "admin"
	RoleApprover = "approver"
	RoleUser     = "user"
)

// User represents an actor in the approval workflow.
type User struct {
	ID         int       `db:"id" json:"id"`
	ScreenName string    `db:"screenname" json:"screenname"`
	Email      string    `db:"email" json:"email"`
	Role       string    `db:"role" json:"role"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin returns true if the user may override a designated approver.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove returns true if the user may decide revisions at all.
func (u *User) CanApprove() bool {
	return u.Role == RoleAdmin || u.Role == RoleApprover
}
