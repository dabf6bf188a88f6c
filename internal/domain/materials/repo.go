package materials

import (
	"context"
	"database/sql"
	"time"
)

// Execer is satisfied by *sql.DB and *sql.Tx. Other repos apply ledger
// deltas inside their own transactions through it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queryer is the read half of Execer's contract.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ApplyDelta adds delta grams to every row with the given material name.
// No floor at zero: callers pre-check sufficiency when that matters.
func ApplyDelta(ctx context.Context, q Execer, name string, delta float64) error {
	_, err := q.ExecContext(ctx, `
		UPDATE materials SET stock_g = stock_g + ? WHERE name = ?
	`, delta, name)
	return err
}

// StockOf returns the summed stock across all rows with the given name.
// Names are not unique at storage level, so duplicates count together.
// An unknown material reads as zero, not an error.
func StockOf(ctx context.Context, q Queryer, name string) (float64, error) {
	var g float64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(stock_g), 0) FROM materials WHERE name = ?
	`, name).Scan(&g)
	return g, err
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Add inserts a new material with zero initial stock.
func (r *Repo) Add(ctx context.Context, name string, expiresAt *time.Time, vendor string, unitPrice, moq float64, leadTimeDays int64) (*Material, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO materials (name, stock_g, expires_at, vendor, unit_price_krw_kg, moq_kg, lead_time_days)
		VALUES (?, 0, ?, ?, ?, ?, ?)
	`, name, expiresAt, vendor, unitPrice, moq, leadTimeDays)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Material{
		ID:             id,
		Name:           name,
		ExpiresAt:      expiresAt,
		Vendor:         vendor,
		UnitPriceKrwKg: unitPrice,
		MoqKg:          moq,
		LeadTimeDays:   leadTimeDays,
	}, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Material, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, stock_g, expires_at, COALESCE(vendor,''),
		       COALESCE(unit_price_krw_kg,0), COALESCE(moq_kg,0), COALESCE(lead_time_days,0)
		FROM materials WHERE id = ?
	`, id)
	m, err := scanMaterial(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repo) List(ctx context.Context) ([]Material, error) {
	return r.queryMaterials(ctx, `
		SELECT id, name, stock_g, expires_at, COALESCE(vendor,''),
		       COALESCE(unit_price_krw_kg,0), COALESCE(moq_kg,0), COALESCE(lead_time_days,0)
		FROM materials ORDER BY name ASC, id ASC
	`)
}

// Update overwrites every editable column of the row identified by m.ID.
// Backs the whole-row stock editor.
func (r *Repo) Update(ctx context.Context, m Material) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE materials
		SET name = ?, stock_g = ?, expires_at = ?, vendor = ?,
		    unit_price_krw_kg = ?, moq_kg = ?, lead_time_days = ?
		WHERE id = ?
	`, m.Name, m.StockG, m.ExpiresAt, m.Vendor, m.UnitPriceKrwKg, m.MoqKg, m.LeadTimeDays, m.ID)
	return err
}

func (r *Repo) UpdateExpiration(ctx context.Context, id int64, expiresAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE materials SET expires_at = ? WHERE id = ?
	`, expiresAt, id)
	return err
}

// ExpiringWithin lists materials whose expiration date falls inside the
// next `days` days (expired ones included).
func (r *Repo) ExpiringWithin(ctx context.Context, days int) ([]Material, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	return r.queryMaterials(ctx, `
		SELECT id, name, stock_g, expires_at, COALESCE(vendor,''),
		       COALESCE(unit_price_krw_kg,0), COALESCE(moq_kg,0), COALESCE(lead_time_days,0)
		FROM materials
		WHERE expires_at IS NOT NULL AND expires_at <= ?
		ORDER BY expires_at ASC, name ASC
	`, cutoff)
}

// Names returns the distinct material names, ordered.
func (r *Repo) Names(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `
		SELECT DISTINCT name FROM materials ORDER BY name ASC
	`)
}

// Vendors returns the distinct non-empty vendor names.
func (r *Repo) Vendors(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `
		SELECT DISTINCT vendor FROM materials
		WHERE vendor IS NOT NULL AND vendor != ''
		ORDER BY vendor ASC
	`)
}

// Stock returns the current summed stock for a material name.
func (r *Repo) Stock(ctx context.Context, name string) (float64, error) {
	return StockOf(ctx, r.db, name)
}

// AdjustStock applies a signed delta outside of any caller transaction.
func (r *Repo) AdjustStock(ctx context.Context, name string, delta float64) error {
	return ApplyDelta(ctx, r.db, name, delta)
}

/* dashboard counters */

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&n)
	return n, err
}

func (r *Repo) CountExpiringWithin(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM materials
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, cutoff).Scan(&n)
	return n, err
}

/* scan helpers */

type rowScanner interface{ Scan(dest ...any) error }

func scanMaterial(row rowScanner) (*Material, error) {
	var m Material
	var expires sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.StockG,
		&expires,
		&m.Vendor,
		&m.UnitPriceKrwKg,
		&m.MoqKg,
		&m.LeadTimeDays,
	); err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		m.ExpiresAt = &t
	}
	return &m, nil
}

func (r *Repo) queryMaterials(ctx context.Context, query string, args ...any) ([]Material, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repo) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
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
