package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/colinruark1/ocean-cleaning/internal/auth"
	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

const (
	minPasswordLen = 6
	minUsernameLen = 3
	maxUsernameLen = 50
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(s auth.Subject) (string, error)
}

// Session is the result of a successful register or login.
type Session struct {
	Token string
	User  dom.User
}

// AccountService handles registration and login.
type AccountService struct {
	users  repo.UserRepo
	hasher auth.PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

// NewAccountService returns a new AccountService.
func NewAccountService(users repo.UserRepo, hasher auth.PasswordHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register creates an account and returns a token for it.
// Email and username are matched exactly against existing accounts.
// Length rules count characters, and the username is trimmed first.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (Session, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return Session{}, err
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return Session{}, errPasswordTooShort
	}

	taken, err := s.exists(ctx, email, username)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, errAccountExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return Session{}, newError(ErrInvalidInput, "Password must be at most 72 bytes")
		}
		return Session{}, oops.Code("HASH_FAILED").With("operation", "hash password").Wrap(err)
	}

	now := s.now().UTC()
	u := dom.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return Session{}, errAccountExists
		}
		return Session{}, oops.Code("STORE_FAILED").With("operation", "create user").Wrap(err)
	}

	return s.session(u)
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, oops.Code("STORE_FAILED").With("operation", "get user by email").Wrap(err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "", errUsernameLength
	}
	return username, nil
}

func (s *AccountService) exists(ctx context.Context, email, username string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return false, oops.Code("STORE_FAILED").With("operation", "get user by email").Wrap(err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return false, oops.Code("STORE_FAILED").With("operation", "get user by username").Wrap(err)
	}
	return false, nil
}

func (s *AccountService) session(u dom.User) (Session, error) {
	token, err := s.tokens.Issue(auth.Subject{ID: u.ID, Email: u.Email, Username: u.Username})
	if err != nil {
		return Session{}, oops.Code("TOKEN_FAILED").With("user_id", u.ID).Wrap(err)
	}
	return Session{Token: token, User: u}, nil
}
