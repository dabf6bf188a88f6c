package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/seorin-lab/cosmetic-inventory/internal/domain/materials"
)

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repo struct {
	db *sql.DB
	// allowNegative reproduces the source behavior: outbound quantities
	// are deducted unchecked and stock may go below zero.
	allowNegative bool
}

func NewRepo(db *sql.DB, allowNegative bool) *Repo {
	return &Repo{db: db, allowNegative: allowNegative}
}

// Record inserts the transaction row and applies its stock delta in one
// storage transaction.
func (r *Repo) Record(ctx context.Context, materialName string, typ Type, qtyG float64, memo string) (*Transaction, error) {
	if qtyG <= 0 {
		return nil, fmt.Errorf("qty must be > 0")
	}
	if typ != TypeInbound && typ != TypeOutbound {
		return nil, fmt.Errorf("unknown transaction type %q", typ)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	t := Transaction{
		MaterialName: materialName,
		Type:         typ,
		QtyG:         qtyG,
		CreatedAt:    time.Now(),
		Memo:         memo,
	}

	if !r.allowNegative && typ == TypeOutbound {
		have, err := materials.StockOf(ctx, tx, materialName)
		if err != nil {
			return nil, err
		}
		if have < qtyG {
			return nil, fmt.Errorf("%w: %s has %.2fg, need %.2fg", ErrInsufficientStock, materialName, have, qtyG)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (material_name, type, qty_g, created_at, memo)
		VALUES (?, ?, ?, ?, ?)
	`, t.MaterialName, string(t.Type), t.QtyG, t.CreatedAt, t.Memo)
	if err != nil {
		return nil, err
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	if err := materials.ApplyDelta(ctx, tx, materialName, t.Delta()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a transaction and applies the inverse stock delta, both
// in one storage transaction. Returns ErrNotFound for an unknown id.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var t Transaction
	err = tx.QueryRowContext(ctx, `
		SELECT material_name, type, qty_g FROM transactions WHERE id = ?
	`, id).Scan(&t.MaterialName, &t.Type, &t.QtyG)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := materials.ApplyDelta(ctx, tx, t.MaterialName, -t.Delta()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns all transactions, newest first.
func (r *Repo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, material_name, type, qty_g, created_at, COALESCE(memo,'')
		FROM transactions ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.MaterialName, &t.Type, &t.QtyG, &t.CreatedAt, &t.Memo); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
