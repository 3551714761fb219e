package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ProceedsRepo implements ports.ProceedsRepository. The balance column
// carries a CHECK (balance >= 0) constraint as a last line of defense.
type ProceedsRepo struct {
	pool Pool
}

// NewProceedsRepo creates a new ProceedsRepo.
func NewProceedsRepo(pool Pool) *ProceedsRepo {
	return &ProceedsRepo{pool: pool}
}

// GetBalance returns the proceeds balance for an address. Unknown
// addresses report zero.
func (r *ProceedsRepo) GetBalance(ctx context.Context, address string) (int64, error) {
	query := `SELECT balance FROM proceeds WHERE address = $1`

	var balance int64
	err := r.pool.QueryRow(ctx, query, address).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get proceeds balance: %w", err)
	}
	return balance, nil
}

// GetBalanceForUpdate returns the balance with a pessimistic row lock.
// This MUST be called within a transaction. Addresses with no row
// report zero; there is nothing to lock in that case.
func (r *ProceedsRepo) GetBalanceForUpdate(ctx context.Context, tx pgx.Tx, address string) (int64, error) {
	query := `SELECT balance FROM proceeds WHERE address = $1 FOR UPDATE`

	var balance int64
	err := tx.QueryRow(ctx, query, address).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get proceeds balance for update: %w", err)
	}
	return balance, nil
}

// Credit adds amount to an address's balance within a transaction,
// creating the row on first credit.
func (r *ProceedsRepo) Credit(ctx context.Context, tx pgx.Tx, address string, amount int64) error {
	query := `INSERT INTO proceeds (address, balance, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (address) DO UPDATE SET balance = proceeds.balance + EXCLUDED.balance, updated_at = NOW()`

	_, err := tx.Exec(ctx, query, address, amount)
	if err != nil {
		return fmt.Errorf("credit proceeds: %w", err)
	}
	return nil
}

// SetBalance overwrites an address's balance within a transaction.
func (r *ProceedsRepo) SetBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error {
	query := `UPDATE proceeds SET balance = $1, updated_at = NOW() WHERE address = $2`

	tag, err := tx.Exec(ctx, query, balance, address)
	if err != nil {
		return fmt.Errorf("set proceeds balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("proceeds row not found: %s", address)
	}
	return nil
}
