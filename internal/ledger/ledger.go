package ledger

import (
	"context"
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBlacklisted       = errors.New("user is blacklisted")
)

// Ledger is the external balance store. Debit is an atomic check-and-debit:
// there is never a separate balance check before it, so concurrent bets by
// the same user cannot double-spend.
type Ledger interface {
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}
