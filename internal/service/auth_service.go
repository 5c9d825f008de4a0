package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"tastebook/api/internal/ids"
	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDeactivated    = errors.New("user deactivated")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService issues and renews stateless token pairs. No session rows:
// a refresh token is a signed claim, and issuing a new pair is the only
// form of invalidation short of expiry.
type AuthService struct {
	users  UserStore
	codec  *security.TokenCodec
	pepper string
	log    zerolog.Logger
}

func NewAuthService(users UserStore, codec *security.TokenCodec, pepper string, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		codec:  codec,
		pepper: pepper,
		log:    log,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, security.TokenPair, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, security.TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, security.TokenPair{}, err
	}

	passwordHash, err := security.HashPassword(input.Password, s.pepper)
	if err != nil {
		return models.User{}, security.TokenPair{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// the pre-check races with concurrent registers; the unique
		// index has the final word
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, security.TokenPair{}, ErrEmailTaken
		}
		return models.User{}, security.TokenPair{}, err
	}

	pair, err := s.codec.SignPair(user.ID)
	if err != nil {
		return models.User{}, security.TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, security.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, security.TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, security.TokenPair{}, err
	}

	if !user.IsActive {
		return models.User{}, security.TokenPair{}, ErrUserDeactivated
	}

	ok, err := security.VerifyPassword(password, s.pepper, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, security.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.codec.SignPair(user.ID)
	if err != nil {
		return models.User{}, security.TokenPair{}, err
	}
	return user, pair, nil
}

// Renew exchanges a valid refresh token for a brand-new pair. The user
// behind the claim must still exist and be active; both new expiries
// are computed from now, so they land strictly after the old ones.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (models.User, security.TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return models.User{}, security.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, security.TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, security.TokenPair{}, err
	}
	if !user.IsActive {
		return models.User{}, security.TokenPair{}, ErrUserDeactivated
	}

	pair, err := s.codec.SignPair(user.ID)
	if err != nil {
		return models.User{}, security.TokenPair{}, err
	}
	return user, pair, nil
}
