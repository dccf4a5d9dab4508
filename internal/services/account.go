package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/medicine-recommendation/auth"
	"github.com/diewo77/medicine-recommendation/internal/apperr"
	"github.com/diewo77/medicine-recommendation/internal/models"
	"github.com/diewo77/medicine-recommendation/internal/repository"
	"github.com/diewo77/medicine-recommendation/internal/storage"
)

// UploadsPrefix is the public path avatars are served from.
const UploadsPrefix = "/uploads/"

var avatarExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}

// Session is an established login.
type Session struct {
	ID   string
	User *models.User
}

type AccountService struct {
	repo           *repository.Repository
	sessions       auth.Store
	files          storage.Storage
	maxAvatarBytes int64
}

func NewAccountService(repo *repository.Repository, sessions auth.Store, files storage.Storage, maxAvatarBytes int64) *AccountService {
	return &AccountService{repo: repo, sessions: sessions, files: files, maxAvatarBytes: maxAvatarBytes}
}

// asAppErr passes AppErrors through and wraps anything else as internal.
func asAppErr(err error) error {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}

// Register creates the account and its first session atomically: if the
// session cannot be stored the user row is rolled back. On success the
// caller's previous session, if any, is dropped.
func (s *AccountService) Register(ctx context.Context, email, username, password, priorSessionID string) (*Session, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperr.ErrPasswordTooLong
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	sid := auth.NewSessionID()
	sessionWritten := false
	var user *models.User
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		taken, err := tx.EmailTaken(ctx, email)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.ErrEmailTaken
		}
		taken, err = tx.UsernameTaken(ctx, username, "")
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.ErrUsernameTaken
		}

		u := &models.User{Email: email, Username: username, PasswordHash: hash}
		if err := tx.CreateUser(ctx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("DUPLICATE_USER", "Email or username already taken")
			}
			return apperr.Internal(err)
		}
		if err := s.sessions.Set(ctx, sid, u.ID); err != nil {
			return apperr.Internal(fmt.Errorf("store session: %w", err))
		}
		sessionWritten = true
		user = u
		return nil
	})
	if err != nil {
		if sessionWritten {
			_ = s.sessions.Clear(ctx, sid)
		}
		return nil, asAppErr(err)
	}
	if priorSessionID != "" {
		if err := s.sessions.Clear(ctx, priorSessionID); err != nil {
			log.WithError(err).Warn("failed to clear previous session")
		}
	}
	log.WithField("user_id", user.ID).Info("user registered")
	return &Session{ID: sid, User: user}, nil
}

// Login verifies credentials, drops the caller's previous session if any and
// opens a new one.
func (s *AccountService) Login(ctx context.Context, email, password, priorSessionID string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	if priorSessionID != "" {
		if err := s.sessions.Clear(ctx, priorSessionID); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	sid := auth.NewSessionID()
	if err := s.sessions.Set(ctx, sid, u.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	log.WithField("user_id", u.ID).Info("user logged in")
	return &Session{ID: sid, User: u}, nil
}

func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.ErrNotAuthenticated
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UserExists backs the session middleware's user check.
func (s *AccountService) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.repo.UserExists(ctx, userID)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// UpdateProfile changes the username. A blank username leaves the profile as is.
func (s *AccountService) UpdateProfile(ctx context.Context, userID, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return s.Profile(ctx, userID)
	}
	taken, err := s.repo.UsernameTaken(ctx, username, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.ErrUsernameTaken
	}
	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrUsernameTaken
		}
		return nil, apperr.Internal(err)
	}
	return s.Profile(ctx, userID)
}

// AvatarKey validates filename and returns the storage key for a new avatar.
func AvatarKey(userID, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !avatarExtensions[ext] {
		return "", apperr.ErrInvalidFile
	}
	return fmt.Sprintf("%s_%s.%s", userID, uuid.NewString(), ext), nil
}

// UploadAvatar stores the file and points the user's avatar at it. The stored
// object is removed again if the user row cannot be updated.
func (s *AccountService) UploadAvatar(ctx context.Context, userID, filename string, size int64, r io.Reader) (string, error) {
	if filename == "" {
		return "", apperr.ErrNoFile
	}
	key, err := AvatarKey(userID, filename)
	if err != nil {
		return "", err
	}
	if size > s.maxAvatarBytes {
		return "", apperr.ErrFileTooLarge
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.files.Put(ctx, key, io.LimitReader(r, s.maxAvatarBytes), size, storage.ContentType(key)); err != nil {
		return "", apperr.Internal(fmt.Errorf("store avatar: %w", err))
	}
	url := UploadsPrefix + key
	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.WithError(delErr).WithField("key", key).Warn("failed to remove orphaned avatar")
		}
		return "", apperr.Internal(err)
	}

	if u.AvatarURL != nil {
		s.removeAvatar(ctx, *u.AvatarURL)
	}
	return url, nil
}

func (s *AccountService) removeAvatar(ctx context.Context, url string) {
	key, ok := strings.CutPrefix(url, UploadsPrefix)
	if !ok || !storage.ValidKey(key) {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to remove previous avatar")
	}
}

// DeleteAccount removes the user and its history in one transaction and ends
// the current session.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, sessionID string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.DeleteUser(ctx, userID)
	}); err != nil {
		return apperr.Internal(err)
	}
	if sessionID != "" {
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			log.WithError(err).Warn("failed to clear session of deleted user")
		}
	}
	if u.AvatarURL != nil {
		s.removeAvatar(ctx, *u.AvatarURL)
	}
	log.WithField("user_id", userID).Info("user deleted")
	return nil
}
