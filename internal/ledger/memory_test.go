package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryDebitCredit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Credit(ctx, "u1", 100); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	bal, err := m.Debit(ctx, "u1", 30)
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if bal != 70 {
		t.Errorf("balance after debit = %d, want 70", bal)
	}

	if _, err := m.Debit(ctx, "u1", 71); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if bal, _ := m.Balance(ctx, "u1"); bal != 70 {
		t.Errorf("failed debit must not change balance, got %d", bal)
	}

	// Draining to exactly zero is allowed.
	if bal, err := m.Debit(ctx, "u1", 70); err != nil || bal != 0 {
		t.Errorf("Debit to zero = (%d, %v), want (0, nil)", bal, err)
	}
}

func TestMemoryUnknownUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if bal, err := m.Balance(ctx, "ghost"); err != nil || bal != 0 {
		t.Errorf("unknown user balance = (%d, %v), want (0, nil)", bal, err)
	}
	if _, err := m.Debit(ctx, "ghost", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Credit(ctx, "u1", 100)
	m.Blacklist("u1")

	if _, err := m.Debit(ctx, "u1", 10); !errors.Is(err, ErrBlacklisted) {
		t.Errorf("expected ErrBlacklisted, got %v", err)
	}
	// Credits still land so refunds cannot be blocked.
	if bal, err := m.Credit(ctx, "u1", 10); err != nil || bal != 110 {
		t.Errorf("Credit = (%d, %v), want (110, nil)", bal, err)
	}
}
