package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wheelbot/internal/db"
)

// PG is the Postgres-backed ledger.
type PG struct {
	db *db.DB
}

func NewPG(database *db.DB) *PG {
	return &PG{db: database}
}

func (p *PG) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if err := p.checkBlacklist(ctx, userID); err != nil {
		return 0, err
	}

	// Single conditional update keeps check-and-debit atomic.
	var balance int64
	err := p.db.Pool().QueryRow(ctx, `
		UPDATE balances
		SET balance = balance - $2, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientFunds
		}
		return 0, fmt.Errorf("ledger debit: %w", err)
	}
	return balance, nil
}

func (p *PG) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	var balance int64
	err := p.db.Pool().QueryRow(ctx, `
		INSERT INTO balances (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET balance = balances.balance + EXCLUDED.balance, updated_at = CURRENT_TIMESTAMP
		RETURNING balance
	`, userID, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("ledger credit: %w", err)
	}
	return balance, nil
}

func (p *PG) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := p.db.Pool().QueryRow(ctx,
		`SELECT balance FROM balances WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("ledger balance: %w", err)
	}
	return balance, nil
}

func (p *PG) checkBlacklist(ctx context.Context, userID string) error {
	var exists bool
	err := p.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blacklist WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ledger blacklist check: %w", err)
	}
	if exists {
		return ErrBlacklisted
	}
	return nil
}
