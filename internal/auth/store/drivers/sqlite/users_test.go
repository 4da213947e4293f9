package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/internal/auth/domain"
	"github.com/suinership/auth/internal/auth/store"
	"github.com/suinership/auth/internal/auth/store/drivers/sqlite"
	"github.com/suinership/auth/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser() domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Salt:         "0badc0de0badc0de",
		IsActive:     true,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, u.FullName, byID.FullName)
	require.True(t, byID.IsActive)
	require.Nil(t, byID.FederatedID)
	require.False(t, byID.CreatedAt.IsZero())

	byEmail, err := st.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	dup := newTestUser()
	dup.ID = idx.New().String()
	err := st.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFederatedLookup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	sub := "provider-subject-123"
	u := newTestUser()
	u.PasswordHash = "" // federated-only account
	u.FederatedID = &sub
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByFederatedID(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.False(t, got.HasUsablePassword())

	// Federated ids are unique too.
	other := newTestUser()
	other.ID = idx.New().String()
	other.Email = "bob@example.com"
	other.FederatedID = &sub
	require.ErrorIs(t, st.Users().CreateUser(ctx, other), store.ErrAlreadyExists)
}

func TestUpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	err = st.Users().UpdatePasswordHash(ctx, idx.New().String(), "x")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().SetActive(ctx, u.ID, false))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestTOTPLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().UpdateTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TOTPSecret)
	require.False(t, got.MFARequired(), "secret alone must not require MFA")

	require.NoError(t, st.Users().EnableTOTP(ctx, u.ID))
	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.MFARequired())

	require.NoError(t, st.Users().DisableTOTP(ctx, u.ID))
	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.TOTPSecret)
	require.False(t, got.MFARequired())
}
