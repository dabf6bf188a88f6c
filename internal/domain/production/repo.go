package production

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/formulas"
	"github.com/seorin-lab/cosmetic-inventory/internal/domain/materials"
)

var (
	ErrNotFound = errors.New("production run not found")
	// ErrNoFormula aborts a reversal whose product no longer has a
	// formula: the amounts to restore cannot be derived.
	ErrNoFormula         = errors.New("product has no formula")
	ErrNotSufficient     = errors.New("plan is not sufficient")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repo struct {
	db *sql.DB
	// allowNegative skips the commit-time stock re-check, matching the
	// source: stock drained between plan and confirm goes negative.
	allowNegative bool
}

func NewRepo(db *sql.DB, allowNegative bool) *Repo {
	return &Repo{db: db, allowNegative: allowNegative}
}

// Plan computes the feasibility check for producing totalUnits units of
// unitCapacityG grams each. Pure read: no stock is touched.
func (r *Repo) Plan(ctx context.Context, productName string, unitCapacityG float64, totalUnits int64) (Plan, error) {
	p := Plan{
		ProductName:   productName,
		UnitCapacityG: unitCapacityG,
		TotalUnits:    totalUnits,
		Sufficient:    true,
	}

	entries, err := formulas.For(ctx, r.db, productName)
	if err != nil {
		return Plan{}, err
	}
	if len(entries) == 0 {
		return Plan{}, ErrNoFormula
	}

	for _, e := range entries {
		required := e.UsagePerUnit * unitCapacityG * float64(totalUnits)
		available, err := materials.StockOf(ctx, r.db, e.MaterialName)
		if err != nil {
			return Plan{}, err
		}
		req := Requirement{MaterialName: e.MaterialName, RequiredG: required, AvailableG: available}
		if !req.Sufficient() {
			p.Sufficient = false
		}
		p.Requirements = append(p.Requirements, req)
	}
	return p, nil
}

// Confirm records the run and deducts every planned requirement in one
// storage transaction. The plan must come from a sufficient phase-1
// result; in strict mode stock is re-validated inside the transaction so
// a concurrent drain between the two phases is caught.
func (r *Repo) Confirm(ctx context.Context, p Plan) (int64, error) {
	if !p.Sufficient {
		return 0, ErrNotSufficient
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if !r.allowNegative {
		for _, req := range p.Requirements {
			have, err := materials.StockOf(ctx, tx, req.MaterialName)
			if err != nil {
				return 0, err
			}
			if have < req.RequiredG {
				return 0, fmt.Errorf("%w: %s has %.2fg, need %.2fg",
					ErrInsufficientStock, req.MaterialName, have, req.RequiredG)
			}
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO production_runs (product_name, unit_capacity_g, total_units, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ProductName, p.UnitCapacityG, p.TotalUnits, time.Now())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, req := range p.Requirements {
		if err := materials.ApplyDelta(ctx, tx, req.MaterialName, -req.RequiredG); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Delete reverses a run: restores each material from the current formula
// and removes the row, all in one storage transaction. The current
// formula, not a snapshot, decides the restored amounts, so an edited
// formula changes what comes back.
func (r *Repo) Delete(ctx context.Context, runID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		product    string
		capacityG  float64
		totalUnits int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT product_name, unit_capacity_g, total_units FROM production_runs WHERE id = ?
	`, runID).Scan(&product, &capacityG, &totalUnits)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	entries, err := formulas.For(ctx, tx, product)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		// Restoration impossible; keep the run row.
		return fmt.Errorf("%w: %s", ErrNoFormula, product)
	}

	for _, e := range entries {
		used := e.UsagePerUnit * capacityG * float64(totalUnits)
		if err := materials.ApplyDelta(ctx, tx, e.MaterialName, used); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM production_runs WHERE id = ?`, runID); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns one run or ErrNotFound.
func (r *Repo) Get(ctx context.Context, runID int64) (*Run, error) {
	var run Run
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_name, unit_capacity_g, total_units, created_at
		FROM production_runs WHERE id = ?
	`, runID).Scan(&run.ID, &run.ProductName, &run.UnitCapacityG, &run.TotalUnits, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns all runs, newest first.
func (r *Repo) List(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_name, unit_capacity_g, total_units, created_at
		FROM production_runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ProductName, &run.UnitCapacityG, &run.TotalUnits, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Detail recomputes, from the current formula, what one run consumed.
func (r *Repo) Detail(ctx context.Context, runID int64) (*Run, []Usage, error) {
	run, err := r.Get(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := formulas.For(ctx, r.db, run.ProductName)
	if err != nil {
		return nil, nil, err
	}
	var usages []Usage
	for _, e := range entries {
		usages = append(usages, Usage{
			MaterialName: e.MaterialName,
			UsagePerUnit: e.UsagePerUnit,
			UsedG:        e.UsagePerUnit * run.UnitCapacityG * float64(run.TotalUnits),
		})
	}
	return run, usages, nil
}
