// Package services contains the bookstore business logic. Every operation
// receives the caller's *session.State explicitly; services never reach
// into the HTTP layer or the session store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/cryptox"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
)

// RegisterInput carries the fields of a registration form.
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// AuthService registers users, verifies credentials and binds or clears the
// identity stored in a session.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.Hasher
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, h *cryptox.Hasher, l logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      h,
		logger:      l.With("module", "auth_service"),
	}
}

// Register hashes the password, stores the user and logs the session in as
// that user. Uniqueness is decided by the store in one insert.
func (s *AuthService) Register(ctx context.Context, st *session.State, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}
	if err := checkUsername(in.Username); err != nil {
		return nil, err
	}
	if err := checkEmail(in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := bindUser(st, user.ID); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and binds the user to the session. Unknown
// users and wrong passwords fail identically with ErrInvalidCredentials and
// cost one bcrypt comparison either way.
func (s *AuthService) Login(ctx context.Context, st *session.State, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy([]byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, []byte(password)) {
		s.logger.Warn(ctx, "failed login", "username", user.Username)
		return nil, common.ErrInvalidCredentials
	}

	if err := bindUser(st, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the identity and the cart. Calling it on an anonymous
// session is a no-op.
func (s *AuthService) Logout(st *session.State) {
	st.UserID = 0
	st.Cart = nil
}

// CurrentUser resolves the session identity. It returns nil, nil for
// anonymous sessions and for sessions whose user no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, st *session.State) (*models.User, error) {
	if !st.Authenticated() {
		return nil, nil
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, st.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// RequireUser is CurrentUser that fails with ErrorUnauthorized when nobody
// is logged in.
func (s *AuthService) RequireUser(ctx context.Context, st *session.State) (*models.User, error) {
	user, err := s.CurrentUser(ctx, st)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// bindUser switches the session to id under a fresh session id, keeping the
// cart collected while anonymous.
func bindUser(st *session.State, id int64) error {
	if err := st.Rotate(); err != nil {
		return err
	}
	st.UserID = id
	return nil
}
