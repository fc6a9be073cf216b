package service

import (
	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
)

// UserService defines the interface for user operations.
type UserService interface {
	// PostUser creates a new user.
	PostUser(user *knowledge.User) error

	// GetUser retrieves a user by id.
	GetUser(id int) (*knowledge.User, error)

	// GetUserByScreenName retrieves a user by screen name.
	GetUserByScreenName(screenname string) (*knowledge.User, error)
}

// userService is the default implementation of UserService.
type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) PostUser(user *knowledge.User) error {
	if user.ScreenName == "" {
		return knowledge.NewValidationError("screenname", "must not be empty")
	}
	switch user.Role {
	case "":
		user.Role = knowledge.RoleUser
	case knowledge.RoleAdmin, knowledge.RoleApprover, knowledge.RoleUser:
	default:
		return knowledge.NewValidationError("role", "unrecognized role "+user.Role)
	}
	return s.repo.InsertUser(user)
}

func (s *userService) GetUser(id int) (*knowledge.User, error) {
	return s.repo.SelectUser(id)
}

func (s *userService) GetUserByScreenName(screenname string) (*knowledge.User, error) {
	return s.repo.SelectUserByScreenName(screenname)
}
