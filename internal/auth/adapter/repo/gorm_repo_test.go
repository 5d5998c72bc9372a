package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/auth/domain"
	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "users.db"), MaxOpenConns: 1,
	}, "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, Migrate(ctx, db))

	r := NewUserRepo(db)
	u := &domain.User{Username: "ana", Email: "ana@camara.gov.br", PasswordHash: "x", IsActive: true}
	require.NoError(t, r.Create(ctx, u))

	dup := &domain.User{Username: "ana", Email: "outra@camara.gov.br", PasswordHash: "x", IsActive: true}
	assert.Error(t, r.Create(ctx, dup), "username is unique")

	got, err := r.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	_, err = r.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got.IsActive = false
	require.NoError(t, r.Update(ctx, got))
	got, err = r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "false must be persisted")

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, u.ID))
	assert.ErrorIs(t, r.Delete(ctx, u.ID), domain.ErrNotFound)
}
