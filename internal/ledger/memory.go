package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process ledger for tests and database-less local runs.
type Memory struct {
	mu          sync.Mutex
	balances    map[string]int64
	blacklisted map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		balances:    make(map[string]int64),
		blacklisted: make(map[string]bool),
	}
}

func (m *Memory) Debit(_ context.Context, userID string, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blacklisted[userID] {
		return 0, ErrBlacklisted
	}
	if m.balances[userID] < amount {
		return 0, ErrInsufficientFunds
	}
	m.balances[userID] -= amount
	return m.balances[userID], nil
}

func (m *Memory) Credit(_ context.Context, userID string, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return m.balances[userID], nil
}

func (m *Memory) Balance(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

// Blacklist marks a user so further debits fail.
func (m *Memory) Blacklist(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklisted[userID] = true
}
