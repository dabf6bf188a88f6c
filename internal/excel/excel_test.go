package excel

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/formulas"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/materials"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/production"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/transactions"
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

// seed fills all four tables through the normal repos.
func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	mats := materials.NewRepo(db)
	expiry := time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC)
	_, err := mats.Add(ctx, "Oil-A", &expiry, "Daejin Chem", 12000, 5, 14)
	require.NoError(t, err)
	_, err = mats.Add(ctx, "Wax-B", nil, "", 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, mats.AdjustStock(ctx, "Oil-A", 100))

	_, err = formulas.NewRepo(db).Add(ctx, "Cream-X", "Oil-A", 0.1)
	require.NoError(t, err)

	_, err = transactions.NewRepo(db, true).Record(ctx, "Oil-A", transactions.TypeInbound, 50, "delivery")
	require.NoError(t, err)

	prod := production.NewRepo(db, true)
	plan, err := prod.Plan(ctx, "Cream-X", 50, 10)
	require.NoError(t, err)
	_, err = prod.Confirm(ctx, plan)
	require.NoError(t, err)
}

func tableCount(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestExportWorkbookShape(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Export(ctx, db, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{SheetMaterials, SheetFormulas, SheetTransactions, SheetProduction}, sheets)
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows(SheetMaterials)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	// Header plus normalized YYYY-MM-DD expiry on the Oil-A row.
	assert.Equal(t, "원료명", rows[0][1])
	assert.Equal(t, "Oil-A", rows[1][1])
	assert.Equal(t, "2027-06-15", rows[1][3])

	txRows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, txRows, 2)
	assert.Equal(t, "inbound", txRows[1][2])
	assert.Equal(t, time.Now().Format("2006-01-02"), txRows[1][4])
}

func TestImportIntoFreshDatabase(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Export(ctx, src, path))

	dst := openTestDB(t)
	require.NoError(t, Import(ctx, dst, path))

	assert.Equal(t, 2, tableCount(t, dst, "materials"))
	assert.Equal(t, 1, tableCount(t, dst, "formulas"))
	assert.Equal(t, 1, tableCount(t, dst, "transactions"))
	assert.Equal(t, 1, tableCount(t, dst, "production_runs"))

	got, err := materials.NewRepo(dst).Stock(ctx, "Oil-A")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got) // 100 seed + 50 inbound - 50 production
}

func TestImportDeduplicatesAgainstExistingRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Export(ctx, db, path))

	before := map[string]int{}
	for _, table := range []string{"materials", "formulas", "transactions", "production_runs"} {
		before[table] = tableCount(t, db, table)
	}

	// Re-importing the unchanged export is a no-op.
	require.NoError(t, Import(ctx, db, path))
	for table, n := range before {
		assert.Equal(t, n, tableCount(t, db, table), table)
	}
}

func TestImportMissingSheetIsSkipped(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetFormulas)
	require.NoError(t, err)
	header := []interface{}{"id", "제품명", "원료명", "사용량 (g/%)"}
	require.NoError(t, f.SetSheetRow(SheetFormulas, "A1", &header))
	row := []interface{}{1, "Cream-X", "Oil-A", 0.1}
	require.NoError(t, f.SetSheetRow(SheetFormulas, "A2", &row))

	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	require.NoError(t, Import(ctx, db, path))
	assert.Equal(t, 1, tableCount(t, db, "formulas"))
	assert.Equal(t, 0, tableCount(t, db, "materials"))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "26-08-30 원료 재고 및 생산일지.xlsx", ExportFilename(now))
}
