package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/avelez/accountd/internal/apperr"
	"github.com/avelez/accountd/internal/models"
	"github.com/avelez/accountd/internal/password"
	"github.com/avelez/accountd/internal/store"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCredentials is the single error Login returns for both an unknown
// email and a wrong password, so a client cannot probe which emails exist.
// The distinction survives only in server-side logs.
var ErrInvalidCredentials = apperr.Auth("invalid credentials")

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// AccountProvider defines the interface for account services.
type AccountProvider interface {
	Register(ctx context.Context, name, email, pwd string) (models.PublicUser, error)
	Login(ctx context.Context, email, pwd string) (string, error)
	ChangePassword(ctx context.Context, email, oldPwd, newPwd, confirmPwd string) error
	GetUser(ctx context.Context, email string) (models.PublicUser, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
	DeleteUser(ctx context.Context, email string) error
}

// AccountService implements the account lifecycle flows. Each operation is a
// one-shot pipeline of checks that short-circuits on the first failure.
type AccountService struct {
	store  store.UserStore
	hasher *password.Hasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(s store.UserStore, h *password.Hasher) *AccountService {
	return &AccountService{store: s, hasher: h}
}

// Register creates a new account. It does not log the user in; no token is
// issued on success.
func (s *AccountService) Register(ctx context.Context, name, email, pwd string) (models.PublicUser, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || pwd == "" {
		return models.PublicUser{}, apperr.Validation("missing name, email or password")
	}
	if !nameRe.MatchString(name) {
		return models.PublicUser{}, apperr.Validation("name must be alphanumeric only")
	}
	if !emailRe.MatchString(email) {
		return models.PublicUser{}, apperr.Validation("email has incorrect formatting")
	}
	if !strongPassword(pwd) {
		return models.PublicUser{}, apperr.Validation(weakPasswordDetail)
	}

	hash, err := s.hasher.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return models.PublicUser{}, apperr.Store("could not create user")
	}

	if err := s.store.InsertUser(ctx, name, email, hash); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return models.PublicUser{}, apperr.Conflict("email already exists")
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to insert user")
		return models.PublicUser{}, apperr.Store("could not create user")
	}
	return models.PublicUser{Name: name, Email: email}, nil
}

// Login verifies a user's credentials and returns the registered name. The
// caller is responsible for minting the session token on success.
func (s *AccountService) Login(ctx context.Context, email, pwd string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || pwd == "" {
		return "", apperr.Validation("missing email or password")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Str("email", email).Msg("Login attempt for unknown email")
			return "", ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to look up user for login")
		return "", apperr.Store("login failed")
	}
	if !s.hasher.Verify(pwd, user.PasswordHash) {
		log.Warn().Str("email", email).Msg("Login attempt with wrong password")
		return "", ErrInvalidCredentials
	}
	return user.Name, nil
}

// ChangePassword rotates the stored hash for email. The caller must already
// have verified that the session identity matches email. The check order is
// fixed: presence, new==old, old-password verify, confirmation match, strength.
// When new equals old the store sees no reads or writes at all.
func (s *AccountService) ChangePassword(ctx context.Context, email, oldPwd, newPwd, confirmPwd string) error {
	if oldPwd == "" || newPwd == "" || confirmPwd == "" {
		return apperr.Validation("missing password information")
	}
	if newPwd == oldPwd {
		return apperr.Validation("new password must be different than old password")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Auth("old password incorrect")
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to look up user for password change")
		return apperr.Store("could not change password")
	}
	if !s.hasher.Verify(oldPwd, user.PasswordHash) {
		log.Warn().Str("email", email).Msg("Password change with wrong old password")
		return apperr.Auth("old password incorrect")
	}
	if newPwd != confirmPwd {
		return apperr.Validation("new password and confirm password do not match")
	}
	if !strongPassword(newPwd) {
		return apperr.Validation(weakPasswordDetail)
	}

	hash, err := s.hasher.Hash(newPwd)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash new password")
		return apperr.Store("could not change password")
	}
	if err := s.store.UpdatePasswordHash(ctx, email, hash); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to update password hash")
		return apperr.Store("could not change password")
	}
	return nil
}

// GetUser returns the public view of a single user.
func (s *AccountService) GetUser(ctx context.Context, email string) (models.PublicUser, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.PublicUser{}, apperr.NotFound("user not found")
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to get user")
		return models.PublicUser{}, apperr.Store("could not get user")
	}
	return user.Public(), nil
}

// ListUsers returns public views of every user. Password hashes never leave the store layer.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return nil, apperr.Store("could not list users")
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

// DeleteUser removes a user record.
func (s *AccountService) DeleteUser(ctx context.Context, email string) error {
	if err := s.store.DeleteUser(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to delete user")
		return apperr.Store("could not delete user")
	}
	return nil
}

const weakPasswordDetail = "password must be at least 8 characters and include lowercase, uppercase, number, and special character"

// strongPassword applies the registration strength policy: at least 8
// characters with one lowercase, one uppercase, one digit and one symbol.
func strongPassword(pwd string) bool {
	if len(pwd) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
