package service

import (
	"context"
	"errors"
	"strings"

	"tastebook/api/internal/ids"
	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/security"
)

var ErrNotAllowed = errors.New("not allowed")

type UserService struct {
	users  UserStore
	pepper string
}

func NewUserService(users UserStore, pepper string) *UserService {
	return &UserService{users: users, pepper: pepper}
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

// Get allows a user to read their own record; admins may read anyone's.
func (s *UserService) Get(ctx context.Context, identity models.Identity, id string) (models.User, error) {
	if !identity.IsAdmin && identity.ID != id {
		return models.User{}, ErrNotAllowed
	}
	return s.users.GetByID(ctx, id)
}

type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// Create is the admin path for provisioning accounts directly.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password, s.pepper)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		IsAdmin:      input.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsActive  *bool
	IsAdmin   *bool
}

// Update lets users edit their own profile; the active and admin flags
// only move under an admin identity.
func (s *UserService) Update(ctx context.Context, identity models.Identity, id string, input UpdateUserInput) (models.User, error) {
	if !identity.IsAdmin && identity.ID != id {
		return models.User{}, ErrNotAllowed
	}
	if !identity.IsAdmin && (input.IsActive != nil || input.IsAdmin != nil) {
		return models.User{}, ErrNotAllowed
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email != user.Email {
			if _, err := s.users.FindByEmail(ctx, email); err == nil {
				return models.User{}, ErrEmailTaken
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return models.User{}, err
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		passwordHash, err := security.HashPassword(*input.Password, s.pepper)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = passwordHash
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
