package repository

import "github.com/ekrsw/knowledge-app-sub001/knowledge"

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// InsertUser stores a new user.
	InsertUser(user *knowledge.User) error

	// SelectUser retrieves a user by id.
	SelectUser(id int) (*knowledge.User, error)

	// SelectUserByScreenName retrieves a user by screen name.
	SelectUserByScreenName(screenname string) (*knowledge.User, error)
}
