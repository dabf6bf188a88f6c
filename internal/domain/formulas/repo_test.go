package formulas

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infradb "github.com/seorin-lab/cosmetic-inventory/internal/infra/db"
	"github.com/seorin-lab/cosmetic-inventory/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := infradb.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrations.Up(sqlDB))
	return sqlDB
}

func TestForPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	_, err := repo.Add(ctx, "Cream-X", "Oil-A", 0.1)
	require.NoError(t, err)
	_, err = repo.Add(ctx, "Cream-X", "Wax-B", 0.05)
	require.NoError(t, err)
	_, err = repo.Add(ctx, "Cream-X", "Water", 0.8)
	require.NoError(t, err)

	entries, err := repo.For(ctx, "Cream-X")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Oil-A", entries[0].MaterialName)
	assert.Equal(t, "Wax-B", entries[1].MaterialName)
	assert.Equal(t, "Water", entries[2].MaterialName)
	assert.Equal(t, 0.05, entries[1].UsagePerUnit)
}

func TestForUnknownProductIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	entries, err := repo.For(ctx, "Lotion-Z")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProducts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(openTestDB(t))

	_, err := repo.Add(ctx, "Cream-X", "Oil-A", 0.1)
	require.NoError(t, err)
	_, err = repo.Add(ctx, "Cream-X", "Wax-B", 0.05)
	require.NoError(t, err)
	_, err = repo.Add(ctx, "Balm-Y", "Wax-B", 0.3)
	require.NoError(t, err)

	products, err := repo.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Balm-Y", "Cream-X"}, products)
}
