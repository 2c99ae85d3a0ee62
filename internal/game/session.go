package game

import (
	"sync"

	"github.com/google/uuid"
)

type Phase int

const (
	PhaseCollecting Phase = iota
	PhaseSpinning
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseCollecting:
		return "collecting"
	case PhaseSpinning:
		return "spinning"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

// Session is one betting-through-settlement round. Bets are keyed by
// outcome class and hold already-debited amounts, so the session's
// liability is pre-funded at all times.
type Session struct {
	ID        string
	ChannelID string
	OwnerID   string

	mu           sync.Mutex
	Bets         map[string]int64
	TotalWagered int64
	Phase        Phase
}

func newSession(channelID, ownerID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		OwnerID:   ownerID,
		Bets:      make(map[string]int64),
		Phase:     PhaseCollecting,
	}
}

// Snapshot returns a copy of the bets and the wager total.
func (s *Session) Snapshot() (map[string]int64, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bets := make(map[string]int64, len(s.Bets))
	for k, v := range s.Bets {
		bets[k] = v
	}
	return bets, s.TotalWagered
}
