package outcome

import "sync"

// Tracker keeps per-user consecutive-win counts. It is a soft
// anti-exploitation signal, held in memory only: a restart resets every
// streak, which is acceptable because the ledger never depends on it.
type Tracker struct {
	mu   sync.Mutex
	wins map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{wins: make(map[string]int)}
}

// Record updates the streak after settlement: increment on a win, reset on
// a loss.
func (t *Tracker) Record(userID string, won bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if won {
		t.wins[userID]++
		return
	}
	delete(t.wins, userID)
}

// Wins returns the user's current consecutive-win count.
func (t *Tracker) Wins(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wins[userID]
}
