package formulas

import (
	"context"
	"database/sql"
)

// Queryer is satisfied by *sql.DB and *sql.Tx; production reversal
// resolves the formula inside its own transaction through it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// For returns the formula entries of a product in insertion order.
// A product without a formula yields an empty slice, not an error.
func For(ctx context.Context, q Queryer, productName string) ([]Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_name, material_name, usage_per_unit
		FROM formulas WHERE product_name = ? ORDER BY id ASC
	`, productName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductName, &e.MaterialName, &e.UsagePerUnit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) For(ctx context.Context, productName string) ([]Entry, error) {
	return For(ctx, r.db, productName)
}

// Products returns the distinct product names that have a formula.
func (r *Repo) Products(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT product_name FROM formulas ORDER BY product_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Add appends one formula entry. Entries are append-only; edits happen
// through spreadsheet re-sync.
func (r *Repo) Add(ctx context.Context, productName, materialName string, usagePerUnit float64) (*Entry, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO formulas (product_name, material_name, usage_per_unit)
		VALUES (?, ?, ?)
	`, productName, materialName, usagePerUnit)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Entry{ID: id, ProductName: productName, MaterialName: materialName, UsagePerUnit: usagePerUnit}, nil
}
