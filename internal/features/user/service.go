package user

import (
	"context"
	"errors"
)

// ErrProfileNotFound means the identity provider vouched for an email that
// has no profile in the directory. That is an authorization failure
// requiring sign-out, not a retryable lookup miss.
var ErrProfileNotFound = errors.New("no profile for signed-in email")

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*Profile, error)
}

type UserServiceImpl struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}
