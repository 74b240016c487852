package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/internal/storage/sqlstore"
)

func newUserService(t *testing.T) (*UserService, *sqlstore.Store) {
	t.Helper()
	store := newTestStore(t)
	authn := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewUserService(store, authn, jwtManager, testLogger()), store
}

func TestUserService(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	t.Run("required fields", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserInput{Email: "x@example.com", Password: "long enough"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "short"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "another-pass"})
		assert.ErrorIs(t, err, auth.ErrEmailExists)
	})

	t.Run("login", func(t *testing.T) {
		got, token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)

		_, _, err = svc.Login(ctx, "alice@example.com", "wrong-pass")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("update password", func(t *testing.T) {
		newPass := "brand-new-pass"
		name := "Alice Liddell"
		updated, err := svc.UpdateUser(ctx, user.ID, models.UserPatch{Name: &name, Password: &newPass})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)

		_, _, err = svc.Login(ctx, "alice@example.com", newPass)
		require.NoError(t, err)
	})

	t.Run("update to taken email", func(t *testing.T) {
		other, err := svc.CreateUser(ctx, CreateUserInput{Name: "Carol", Email: "carol@example.com", Password: "carol-pass"})
		require.NoError(t, err)

		taken := "alice@example.com"
		_, err = svc.UpdateUser(ctx, other.ID, models.UserPatch{Email: &taken})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("update missing user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.UpdateUser(ctx, 9999, models.UserPatch{Name: &name})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete cascades and second delete is not found", func(t *testing.T) {
		victim, err := svc.CreateUser(ctx, CreateUserInput{Name: "Dave", Email: "dave@example.com", Password: "dave-pass"})
		require.NoError(t, err)

		friends := NewFriendService(store, testLogger())
		_, err = friends.AddFriend(ctx, &models.Friend{UserID: victim.ID, Name: "Erin"})
		require.NoError(t, err)

		bills := NewBillService(store, testLogger())
		billID, err := bills.CreateBill(ctx, validBill(victim.ID, "2024-04-01"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteUser(ctx, victim.ID))

		list, err := friends.ListFriends(ctx, victim.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = bills.GetBill(ctx, billID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.ErrorIs(t, svc.DeleteUser(ctx, victim.ID), storage.ErrNotFound)
	})
}
