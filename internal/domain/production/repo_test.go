package production

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/formulas"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/materials"
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

// seedCreamX: product Cream-X uses 0.1 g of Oil-A per unit; Oil-A stock 100 g.
func seedCreamX(t *testing.T, db *sql.DB) *materials.Repo {
	t.Helper()
	ctx := context.Background()

	mats := materials.NewRepo(db)
	_, err := mats.Add(ctx, "Oil-A", nil, "", 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, mats.AdjustStock(ctx, "Oil-A", 100))

	_, err = formulas.NewRepo(db).Add(ctx, "Cream-X", "Oil-A", 0.1)
	require.NoError(t, err)
	return mats
}

func stockOf(t *testing.T, mats *materials.Repo, name string) float64 {
	t.Helper()
	got, err := mats.Stock(context.Background(), name)
	require.NoError(t, err)
	return got
}

func TestPlanConfirmDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	mats := seedCreamX(t, db)
	repo := NewRepo(db, true)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	require.Len(t, plan.Requirements, 1)
	assert.Equal(t, 50.0, plan.Requirements[0].RequiredG) // 0.1 * 50 * 10
	assert.Equal(t, 100.0, plan.Requirements[0].AvailableG)
	assert.True(t, plan.Sufficient)

	// Planning touches nothing.
	assert.Equal(t, 100.0, stockOf(t, mats, "Oil-A"))

	id, err := repo.Confirm(ctx, plan)
	require.NoError(t, err)
	require.NotZero(t, id)
	assert.Equal(t, 50.0, stockOf(t, mats, "Oil-A"))

	require.NoError(t, repo.Delete(ctx, id))
	assert.Equal(t, 100.0, stockOf(t, mats, "Oil-A"))

	_, err = repo.Get(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlanIsPure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedCreamX(t, db)
	repo := NewRepo(db, true)

	first, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	second, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanInsufficient(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedCreamX(t, db)
	repo := NewRepo(db, true)

	// 0.1 * 50 * 25 = 125 > 100 on hand.
	plan, err := repo.Plan(ctx, "Cream-X", 50, 25)
	require.NoError(t, err)
	assert.False(t, plan.Sufficient)

	_, err = repo.Confirm(ctx, plan)
	require.ErrorIs(t, err, ErrNotSufficient)
}

func TestPlanUnknownMaterialReadsAsZero(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedCreamX(t, db)
	repo := NewRepo(db, true)

	// Formula line whose material was never registered.
	_, err := formulas.NewRepo(db).Add(ctx, "Cream-X", "Pearl Powder", 0.02)
	require.NoError(t, err)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	require.Len(t, plan.Requirements, 2)
	assert.Equal(t, 0.0, plan.Requirements[1].AvailableG)
	assert.False(t, plan.Sufficient)
}

func TestPlanNoFormula(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewRepo(db, true)

	_, err := repo.Plan(ctx, "Lotion-Z", 50, 10)
	require.ErrorIs(t, err, ErrNoFormula)
}

func TestDeleteUnknownRunIsNotFound(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedCreamX(t, db)
	repo := NewRepo(db, true)

	require.ErrorIs(t, repo.Delete(ctx, 777), ErrNotFound)
}

func TestDeleteWithoutFormulaKeepsEverything(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	mats := seedCreamX(t, db)
	repo := NewRepo(db, true)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	id, err := repo.Confirm(ctx, plan)
	require.NoError(t, err)

	// The formula disappears before the reversal.
	_, err = db.ExecContext(ctx, `DELETE FROM formulas WHERE product_name = 'Cream-X'`)
	require.NoError(t, err)

	err = repo.Delete(ctx, id)
	require.ErrorIs(t, err, ErrNoFormula)

	// Run row and stock are untouched.
	run, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cream-X", run.ProductName)
	assert.Equal(t, 50.0, stockOf(t, mats, "Oil-A"))
}

func TestDeleteUsesCurrentFormula(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	mats := seedCreamX(t, db)
	repo := NewRepo(db, true)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	id, err := repo.Confirm(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stockOf(t, mats, "Oil-A"))

	// Usage rate doubles after the run was recorded. The reversal derives
	// from the current formula, so it restores 100 g, not the 50 g consumed.
	_, err = db.ExecContext(ctx, `UPDATE formulas SET usage_per_unit = 0.2 WHERE product_name = 'Cream-X'`)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	assert.Equal(t, 150.0, stockOf(t, mats, "Oil-A"))
}

func TestStrictConfirmRevalidatesStock(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	mats := seedCreamX(t, db)
	repo := NewRepo(db, false)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	require.True(t, plan.Sufficient)

	// Stock drains between phase 1 and phase 2.
	require.NoError(t, mats.AdjustStock(ctx, "Oil-A", -80))

	_, err = repo.Confirm(ctx, plan)
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 20.0, stockOf(t, mats, "Oil-A"))
	runs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seedCreamX(t, db)
	repo := NewRepo(db, true)

	plan, err := repo.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	id, err := repo.Confirm(ctx, plan)
	require.NoError(t, err)

	run, usages, err := repo.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cream-X", run.ProductName)
	require.Len(t, usages, 1)
	assert.Equal(t, "Oil-A", usages[0].MaterialName)
	assert.Equal(t, 0.1, usages[0].UsagePerUnit)
	assert.Equal(t, 50.0, usages[0].UsedG)
}
