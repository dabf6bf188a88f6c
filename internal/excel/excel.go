// Package excel moves the four inventory tables in and out of a single
// xlsx workbook for offline editing. Sheet names follow the original
// Korean workbook layout.
package excel

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetMaterials    = "재고"
	SheetFormulas     = "처방"
	SheetTransactions = "입출고"
	SheetProduction   = "생산이력"
)

const dateLayout = "2006-01-02"

// ExportFilename is the conventional workbook name for today's export.
func ExportFilename(now time.Time) string {
	return now.Format("06-01-02") + " 원료 재고 및 생산일지.xlsx"
}

/* export */

// Export writes each table verbatim to its sheet. Date columns are
// normalized to YYYY-MM-DD and the blank default sheet is removed.
func Export(ctx context.Context, db *sql.DB, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := exportMaterials(ctx, db, f); err != nil {
		return fmt.Errorf("export %s: %w", SheetMaterials, err)
	}
	if err := exportFormulas(ctx, db, f); err != nil {
		return fmt.Errorf("export %s: %w", SheetFormulas, err)
	}
	if err := exportTransactions(ctx, db, f); err != nil {
		return fmt.Errorf("export %s: %w", SheetTransactions, err)
	}
	if err := exportProduction(ctx, db, f); err != nil {
		return fmt.Errorf("export %s: %w", SheetProduction, err)
	}

	// excelize seeds new files with "Sheet1"; drop it once real sheets exist.
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func exportMaterials(ctx context.Context, db *sql.DB, f *excelize.File) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, stock_g, expires_at, COALESCE(vendor,''),
		       COALESCE(unit_price_krw_kg,0), COALESCE(moq_kg,0), COALESCE(lead_time_days,0)
		FROM materials ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var data [][]interface{}
	for rows.Next() {
		var (
			id                int64
			name, vendor      string
			stock, price, moq float64
			expires           sql.NullTime
			leadDays          int64
		)
		if err := rows.Scan(&id, &name, &stock, &expires, &vendor, &price, &moq, &leadDays); err != nil {
			return err
		}
		data = append(data, []interface{}{id, name, stock, dateOrBlank(expires), vendor, price, moq, leadDays})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	header := []interface{}{"id", "원료명", "재고량 (g)", "유통기한", "거래처", "단가 (원/kg)", "MOQ (kg)", "리드타임 (일)"}
	return writeSheet(f, SheetMaterials, header, data)
}

func exportFormulas(ctx context.Context, db *sql.DB, f *excelize.File) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, product_name, material_name, usage_per_unit FROM formulas ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var data [][]interface{}
	for rows.Next() {
		var (
			id           int64
			product, mat string
			usage        float64
		)
		if err := rows.Scan(&id, &product, &mat, &usage); err != nil {
			return err
		}
		data = append(data, []interface{}{id, product, mat, usage})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	header := []interface{}{"id", "제품명", "원료명", "사용량 (g/%)"}
	return writeSheet(f, SheetFormulas, header, data)
}

func exportTransactions(ctx context.Context, db *sql.DB, f *excelize.File) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, material_name, type, qty_g, created_at, COALESCE(memo,'')
		FROM transactions ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var data [][]interface{}
	for rows.Next() {
		var (
			id        int64
			mat, memo string
			typ       string
			qty       float64
			created   time.Time
		)
		if err := rows.Scan(&id, &mat, &typ, &qty, &created, &memo); err != nil {
			return err
		}
		data = append(data, []interface{}{id, mat, typ, qty, created.Format(dateLayout), memo})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	header := []interface{}{"id", "원료명", "유형", "수량 (g)", "날짜", "비고"}
	return writeSheet(f, SheetTransactions, header, data)
}

func exportProduction(ctx context.Context, db *sql.DB, f *excelize.File) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, product_name, unit_capacity_g, total_units, created_at
		FROM production_runs ORDER BY id ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var data [][]interface{}
	for rows.Next() {
		var (
			id, units int64
			product   string
			capacity  float64
			created   time.Time
		)
		if err := rows.Scan(&id, &product, &capacity, &units, &created); err != nil {
			return err
		}
		data = append(data, []interface{}{id, product, capacity, units, created.Format(dateLayout)})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	header := []interface{}{"id", "제품명", "용량 (g)", "수량", "날짜"}
	return writeSheet(f, SheetProduction, header, data)
}

func dateOrBlank(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateLayout)
}

/* import */

// Import appends each sheet's rows to its table, skipping rows that
// already exist with the same values in every business column. The id
// column of the workbook is ignored; the store assigns new ids.
func Import(ctx context.Context, db *sql.DB, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := importMaterials(ctx, tx, f); err != nil {
		return fmt.Errorf("import %s: %w", SheetMaterials, err)
	}
	if err := importFormulas(ctx, tx, f); err != nil {
		return fmt.Errorf("import %s: %w", SheetFormulas, err)
	}
	if err := importTransactions(ctx, tx, f); err != nil {
		return fmt.Errorf("import %s: %w", SheetTransactions, err)
	}
	if err := importProduction(ctx, tx, f); err != nil {
		return fmt.Errorf("import %s: %w", SheetProduction, err)
	}
	return tx.Commit()
}

// sheetRows returns the data rows of a sheet (header skipped), or nil if
// the sheet is absent; a workbook may carry any subset of the sheets.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}
	return rows[1:], nil
}

func importMaterials(ctx context.Context, tx *sql.Tx, f *excelize.File) error {
	rows, err := sheetRows(f, SheetMaterials)
	if err != nil {
		return err
	}
	for _, r := range rows {
		name := cellString(r, 1)
		if name == "" {
			continue
		}
		stock := cellFloat(r, 2)
		expires := cellString(r, 3)
		vendor := cellString(r, 4)
		price := cellFloat(r, 5)
		moq := cellFloat(r, 6)
		lead := int64(cellFloat(r, 7))

		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM materials
			WHERE name = ? AND stock_g = ? AND COALESCE(substr(expires_at,1,10),'') = ?
			  AND COALESCE(vendor,'') = ? AND COALESCE(unit_price_krw_kg,0) = ?
			  AND COALESCE(moq_kg,0) = ? AND COALESCE(lead_time_days,0) = ?
		`, name, stock, expires, vendor, price, moq, lead).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO materials (name, stock_g, expires_at, vendor, unit_price_krw_kg, moq_kg, lead_time_days)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, name, stock, timeOrNil(expires), vendor, price, moq, lead); err != nil {
			return err
		}
	}
	return nil
}

func importFormulas(ctx context.Context, tx *sql.Tx, f *excelize.File) error {
	rows, err := sheetRows(f, SheetFormulas)
	if err != nil {
		return err
	}
	for _, r := range rows {
		product := cellString(r, 1)
		material := cellString(r, 2)
		if product == "" || material == "" {
			continue
		}
		usage := cellFloat(r, 3)

		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM formulas
			WHERE product_name = ? AND material_name = ? AND usage_per_unit = ?
		`, product, material, usage).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO formulas (product_name, material_name, usage_per_unit)
			VALUES (?, ?, ?)
		`, product, material, usage); err != nil {
			return err
		}
	}
	return nil
}

func importTransactions(ctx context.Context, tx *sql.Tx, f *excelize.File) error {
	rows, err := sheetRows(f, SheetTransactions)
	if err != nil {
		return err
	}
	for _, r := range rows {
		material := cellString(r, 1)
		typ := cellString(r, 2)
		if material == "" || typ == "" {
			continue
		}
		qty := cellFloat(r, 3)
		date := cellString(r, 4)
		memo := cellString(r, 5)

		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM transactions
			WHERE material_name = ? AND type = ? AND qty_g = ?
			  AND COALESCE(substr(created_at,1,10),'') = ? AND COALESCE(memo,'') = ?
		`, material, typ, qty, date, memo).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		created := timeOrNil(date)
		if created == nil {
			now := time.Now()
			created = &now
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (material_name, type, qty_g, created_at, memo)
			VALUES (?, ?, ?, ?, ?)
		`, material, typ, qty, created, memo); err != nil {
			return err
		}
	}
	return nil
}

func importProduction(ctx context.Context, tx *sql.Tx, f *excelize.File) error {
	rows, err := sheetRows(f, SheetProduction)
	if err != nil {
		return err
	}
	for _, r := range rows {
		product := cellString(r, 1)
		if product == "" {
			continue
		}
		capacity := cellFloat(r, 2)
		units := int64(cellFloat(r, 3))
		date := cellString(r, 4)

		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM production_runs
			WHERE product_name = ? AND unit_capacity_g = ? AND total_units = ?
			  AND COALESCE(substr(created_at,1,10),'') = ?
		`, product, capacity, units, date).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		created := timeOrNil(date)
		if created == nil {
			now := time.Now()
			created = &now
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO production_runs (product_name, unit_capacity_g, total_units, created_at)
			VALUES (?, ?, ?, ?)
		`, product, capacity, units, created); err != nil {
			return err
		}
	}
	return nil
}

/* cell helpers */

func cellString(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cellFloat parses a numeric cell, treating blanks and garbage as zero
// the way the original sheet handling did.
func cellFloat(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cellString(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}

func timeOrNil(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
