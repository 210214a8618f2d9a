package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/shared/auth"
)

type purgeRecorder struct {
	userIDs []string
	err     error
}

func (p *purgeRecorder) PurgeUser(ctx context.Context, userID string) error {
	p.userIDs = append(p.userIDs, userID)
	return p.err
}

func newTestService(t *testing.T, purgers ...DataPurger) *Service {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return NewService(NewMemoryRepo(), auth.NewPasswordHasher(4), issuer, purgers...)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, err := svc.Register(ctx, " Jane@Example.com ", "passw0rd", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.User.ID)

	login, err := svc.Login(ctx, "JANE@example.com", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "jane@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "not-an-email", "passw0rd", "Jane")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "jane@example.com", "short", "Jane")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
	_, err = svc.Register(ctx, "jane@example.com", "passw0rd", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "jane@example.com", "passw0rd", "Jane")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "JANE@example.com", "passw0rd", "Other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	session, err := svc.Register(ctx, "jane@example.com", "passw0rd", "Jane")
	require.NoError(t, err)

	name := "Jane Doe"
	user, err := svc.UpdateProfile(ctx, session.User.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = svc.Register(ctx, "john@example.com", "passw0rd", "John")
	require.NoError(t, err)
	taken := "john@example.com"
	_, err = svc.UpdateProfile(ctx, session.User.ID, UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	session, err := svc.Register(ctx, "jane@example.com", "passw0rd", "Jane")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "wrong", "newpassw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, session.User.ID, "passw0rd", "newpassw0rd"))
	_, err = svc.Login(ctx, "jane@example.com", "newpassw0rd")
	assert.NoError(t, err)
}

func TestDeleteRunsPurgersFirst(t *testing.T) {
	ctx := context.Background()
	rec := &purgeRecorder{}
	svc := newTestService(t, rec)
	session, err := svc.Register(ctx, "jane@example.com", "passw0rd", "Jane")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, session.User.ID))
	assert.Equal(t, []string{session.User.ID}, rec.userIDs)
	_, err = svc.GetByID(ctx, session.User.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStopsWhenPurgeFails(t *testing.T) {
	ctx := context.Background()
	rec := &purgeRecorder{err: errors.New("boom")}
	svc := newTestService(t, rec)
	session, err := svc.Register(ctx, "jane@example.com", "passw0rd", "Jane")
	require.NoError(t, err)

	assert.Error(t, svc.Delete(ctx, session.User.ID))
	_, err = svc.GetByID(ctx, session.User.ID)
	assert.NoError(t, err)
}

func TestUpsertGoogle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.UpsertGoogle(ctx, GoogleProfile{Sub: "g-1", Email: "g@example.com", Name: "G"})
	require.NoError(t, err)
	again, err := svc.UpsertGoogle(ctx, GoogleProfile{Sub: "g-1", Email: "g@example.com", PictureURL: "http://pic"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)
	assert.Equal(t, "http://pic", again.User.PictureURL)

	local, err := svc.Register(ctx, "linked@example.com", "passw0rd", "Linked")
	require.NoError(t, err)
	linked, err := svc.UpsertGoogle(ctx, GoogleProfile{Sub: "g-2", Email: "linked@example.com"})
	require.NoError(t, err)
	assert.Equal(t, local.User.ID, linked.User.ID)

	_, err = svc.Login(ctx, "g@example.com", "anything1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
