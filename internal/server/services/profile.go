package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bookstore/internal/common"
	"github.com/dmitrijs2005/bookstore/internal/logging"
	"github.com/dmitrijs2005/bookstore/internal/server/models"
	"github.com/dmitrijs2005/bookstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookstore/internal/server/session"
	"github.com/dmitrijs2005/bookstore/internal/server/uploads"
)

// Picture is an uploaded profile image. ContentType is what the client
// claimed; the stored type is detected from Body.
type Picture struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProfileInput is a partial profile update; nil fields stay unchanged.
type ProfileInput struct {
	Email   *string
	Bio     *string
	Picture *Picture
}

// Profile is a user together with a fetchable URL for their picture.
type Profile struct {
	User       *models.User
	PictureURL string
}

// ProfileService reads and edits the logged-in user's profile.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	auth        *AuthService
	storage     uploads.Storage
	maxPicBytes int64
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, auth *AuthService, storage uploads.Storage, maxPicBytes int64, l logging.Logger) *ProfileService {
	if maxPicBytes <= 0 {
		maxPicBytes = common.MaxProfilePicBytes
	}
	return &ProfileService{
		db:          db,
		repomanager: m,
		auth:        auth,
		storage:     storage,
		maxPicBytes: maxPicBytes,
		logger:      l.With("module", "profile_service"),
	}
}

// Get returns the session user's profile or ErrorUnauthorized.
func (s *ProfileService) Get(ctx context.Context, st *session.State) (*Profile, error) {
	user, err := s.auth.RequireUser(ctx, st)
	if err != nil {
		return nil, err
	}
	return s.withURL(ctx, user)
}

// Update stores the picture (if any) under a fresh key, then applies the
// field changes. A failed database update removes the stored picture again.
// The previous picture is deleted once the new one is recorded.
func (s *ProfileService) Update(ctx context.Context, st *session.State, in ProfileInput) (*Profile, error) {
	user, err := s.auth.RequireUser(ctx, st)
	if err != nil {
		return nil, err
	}

	upd := models.ProfileUpdate{Bio: in.Bio}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", common.ErrValidation)
		}
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		upd.Email = &email
	}

	var newKey string
	if in.Picture != nil {
		if in.Picture.Size > s.maxPicBytes {
			return nil, fmt.Errorf("%w: picture larger than %d bytes", common.ErrValidation, s.maxPicBytes)
		}
		// the stored type and extension come from the content, never the client
		contentType, ext, body, err := uploads.SniffImage(io.LimitReader(in.Picture.Body, s.maxPicBytes))
		if err != nil {
			if errors.Is(err, uploads.ErrNotImage) {
				return nil, fmt.Errorf("%w: picture must be a PNG, JPEG, GIF, WebP or BMP image", common.ErrValidation)
			}
			return nil, err
		}
		newKey = uploads.PictureKey(in.Picture.Filename, ext)
		if err := s.storage.Save(ctx, newKey, body, in.Picture.Size, contentType); err != nil {
			return nil, err
		}
		upd.ProfilePic = &newKey
	}

	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, user.ID, upd); err != nil {
		if newKey != "" {
			if delErr := s.storage.Delete(ctx, newKey); delErr != nil {
				s.logger.Error(ctx, "orphaned upload", "key", newKey, "error", delErr)
			}
		}
		return nil, err
	}

	if newKey != "" && user.ProfilePic != "" {
		if err := s.storage.Delete(ctx, user.ProfilePic); err != nil {
			s.logger.Warn(ctx, "old picture not removed", "key", user.ProfilePic, "error", err)
		}
	}

	updated, err := s.repomanager.Users(s.db).GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "profile updated", "user_id", user.ID, "picture", newKey != "")
	return s.withURL(ctx, updated)
}

func (s *ProfileService) withURL(ctx context.Context, user *models.User) (*Profile, error) {
	p := &Profile{User: user}
	if user.ProfilePic == "" {
		return p, nil
	}
	url, err := s.storage.URL(ctx, user.ProfilePic)
	if err != nil {
		return nil, err
	}
	p.PictureURL = url
	return p, nil
}
