package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage/sqlstore"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Driver:      sqlstore.DriverSQLite,
		URL:         filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, store *sqlstore.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser("Seed", email, "hash", nil)
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}
