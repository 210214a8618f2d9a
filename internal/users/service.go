package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/telemetry"
)

// TokenSigner issues access tokens for authenticated users.
type TokenSigner interface {
	Sign(userID, email, name string) (string, time.Time, error)
}

// DataPurger removes data a user owns. Purgers run before the account is deleted.
type DataPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

type Service struct {
	Repo    Repo
	Hasher  auth.PasswordHasher
	Tokens  TokenSigner
	Purgers []DataPurger
}

func NewService(repo Repo, hasher auth.PasswordHasher, tokens TokenSigner, purgers ...DataPurger) *Service {
	return &Service{Repo: repo, Hasher: hasher, Tokens: tokens, Purgers: purgers}
}

// Register creates a password account and returns a signed session.
func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return Session{}, err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_id": created.ID})
	return s.session(created)
}

// Login verifies credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := s.Hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	return s.session(user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update of email and name.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return User{}, err
		}
		user.Email = email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		user.Name = name
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// ChangePassword replaces the password. Accounts without a password may set one without the current value.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if err := s.Hasher.Compare(user.PasswordHash, current); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return ErrInvalidCredentials
			}
			return err
		}
	}
	if err := auth.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.Repo.Update(ctx, user)
}

// Delete removes the account after purging owned data.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	for _, p := range s.Purgers {
		if err := p.PurgeUser(ctx, userID); err != nil {
			return fmt.Errorf("purge user data: %w", err)
		}
	}
	if err := s.Repo.Delete(ctx, userID); err != nil {
		return err
	}
	telemetry.Info("user.deleted", map[string]any{"user_id": userID})
	return nil
}

// UpsertGoogle finds the account by Google subject, links an existing
// account with the same email, or creates a new one.
func (s *Service) UpsertGoogle(ctx context.Context, profile GoogleProfile) (Session, error) {
	if strings.TrimSpace(profile.Sub) == "" {
		return Session{}, fmt.Errorf("%w: google subject is required", ErrInvalidInput)
	}
	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return Session{}, err
	}

	user, err := s.Repo.GetByGoogleSub(ctx, profile.Sub)
	if errors.Is(err, ErrNotFound) {
		user, err = s.Repo.GetByEmail(ctx, email)
		if errors.Is(err, ErrNotFound) {
			user = User{
				ID:         uuid.NewString(),
				Email:      email,
				Name:       firstNonEmpty(profile.Name, email),
				GoogleSub:  profile.Sub,
				PictureURL: profile.PictureURL,
			}
			if err := s.Repo.Create(ctx, user); err != nil {
				return Session{}, err
			}
			telemetry.Info("user.registered", map[string]any{"user_id": user.ID, "provider": "google"})
			return s.session(user)
		}
	}
	if err != nil {
		return Session{}, err
	}

	user.GoogleSub = profile.Sub
	if profile.PictureURL != "" {
		user.PictureURL = profile.PictureURL
	}
	if user.Name == "" {
		user.Name = firstNonEmpty(profile.Name, email)
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

func (s *Service) session(user User) (Session, error) {
	token, exp, err := s.Tokens.Sign(user.ID, user.Email, user.Name)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
