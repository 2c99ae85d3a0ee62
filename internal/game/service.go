package game

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wheelbot/internal/config"
	"wheelbot/internal/ledger"
	"wheelbot/internal/outcome"
	"wheelbot/internal/physics"
	"wheelbot/internal/pipeline"
	"wheelbot/internal/publish"
	"wheelbot/internal/wheel"
)

var (
	ErrUnauthorized       = errors.New("only the session owner may do that")
	ErrSessionExists      = errors.New("channel already has an active session")
	ErrNoSession          = errors.New("no active session in this channel")
	ErrNoBetsPlaced       = errors.New("no bets placed")
	ErrInvalidBet         = errors.New("bet amount must be positive")
	ErrTotalRenderFailure = errors.New("every render tier failed")
)

// Selector picks the winning pocket for a spin.
type Selector interface {
	SelectPocket(bets map[string]int64, totalWagered int64, streakWins int, vip bool) (wheel.Pocket, error)
}

// Pipeline runs the render tiers and publishes exactly one final artifact.
type Pipeline interface {
	Run(ctx context.Context, sessionID string, plan physics.Plan) (*pipeline.Outcome, error)
}

// SpinResult is what the chat surface announces after a round ends.
type SpinResult struct {
	Pocket   wheel.Pocket
	Winnings int64
	Net      int64
	Tier     pipeline.Tier
	Degraded bool
	Refunded bool
}

// Service is the per-round state machine: bet accumulation, ownership
// enforcement, spin trigger, settlement, cleanup.
type Service struct {
	ledger   ledger.Ledger
	selector Selector
	streaks  *outcome.Tracker
	pipeline Pipeline
	pub      publish.Publisher
	reg      *Registry

	spin         config.SpinConfig
	vipThreshold int64
}

func NewService(lg ledger.Ledger, selector Selector, streaks *outcome.Tracker, pipe Pipeline, pub publish.Publisher, spin config.SpinConfig, vipThreshold int64) *Service {
	return &Service{
		ledger:       lg,
		selector:     selector,
		streaks:      streaks,
		pipeline:     pipe,
		pub:          pub,
		reg:          NewRegistry(),
		spin:         spin,
		vipThreshold: vipThreshold,
	}
}

// Open starts a new round in the channel.
func (s *Service) Open(ctx context.Context, channelID, ownerID string) (*Session, error) {
	sess := newSession(channelID, ownerID)
	if !s.reg.Put(sess) {
		return nil, ErrSessionExists
	}
	return sess, nil
}

// PlaceBet debits the wager immediately and records it on success only, so
// total wagered always equals the sum of debits actually issued.
func (s *Service) PlaceBet(ctx context.Context, channelID, callerID, rawKey string, amount int64) (*Session, error) {
	sess, ok := s.reg.Get(channelID)
	if !ok {
		return nil, ErrNoSession
	}
	if callerID != sess.OwnerID {
		return nil, ErrUnauthorized
	}
	key, err := wheel.ParseOutcomeKey(rawKey)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidBet
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Phase != PhaseCollecting {
		return nil, ErrNoSession
	}
	if _, err := s.ledger.Debit(ctx, callerID, amount); err != nil {
		return nil, err
	}
	sess.Bets[key] += amount
	sess.TotalWagered += amount
	return sess, nil
}

// ClearBets refunds every held amount and resets the session to empty while
// it stays collecting. Clearing an empty session is a no-op.
func (s *Service) ClearBets(ctx context.Context, channelID, callerID string) (int64, error) {
	sess, ok := s.reg.Get(channelID)
	if !ok {
		return 0, ErrNoSession
	}
	if callerID != sess.OwnerID {
		return 0, ErrUnauthorized
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.Phase != PhaseCollecting {
		return 0, ErrNoSession
	}
	if sess.TotalWagered == 0 {
		return 0, nil
	}
	refunded := sess.TotalWagered
	if _, err := s.ledger.Credit(ctx, sess.OwnerID, refunded); err != nil {
		return 0, fmt.Errorf("clear bets: %w", err)
	}
	sess.Bets = make(map[string]int64)
	sess.TotalWagered = 0
	return refunded, nil
}

// Spin drives the round to its end: it is the only transition out of
// collecting, the only caller of the selector and pipeline, and it removes
// the session from the registry at entry so nothing can race settlement.
func (s *Service) Spin(ctx context.Context, channelID, callerID string) (*SpinResult, error) {
	sess, ok := s.reg.Get(channelID)
	if !ok {
		return nil, ErrNoSession
	}
	if callerID != sess.OwnerID {
		return nil, ErrUnauthorized
	}
	if _, total := sess.Snapshot(); total == 0 {
		return nil, ErrNoBetsPlaced
	}
	if taken, ok := s.reg.Take(channelID); !ok || taken != sess {
		return nil, ErrNoSession
	}

	sess.mu.Lock()
	sess.Phase = PhaseSpinning
	sess.mu.Unlock()
	bets, total := sess.Snapshot()

	vip := false
	if balance, err := s.ledger.Balance(ctx, sess.OwnerID); err == nil && balance >= s.vipThreshold {
		vip = true
	}

	pocket, err := s.selector.SelectPocket(bets, total, s.streaks.Wins(sess.OwnerID), vip)
	if err != nil {
		return s.refund(ctx, sess, fmt.Errorf("select pocket: %w", err))
	}
	plan, err := physics.ComputePlan(pocket, s.spin.FPS, s.spin.DurationMs,
		s.spin.WheelRPM, s.spin.BallRPM, s.spin.WheelFriction, s.spin.BallFriction, s.spin.LapCount)
	if err != nil {
		return s.refund(ctx, sess, fmt.Errorf("compute plan: %w", err))
	}

	out, err := s.pipeline.Run(ctx, sess.ChannelID, plan)
	if err != nil {
		return s.refund(ctx, sess, fmt.Errorf("%w: %v", ErrTotalRenderFailure, err))
	}

	// Settlement runs only after a published artifact.
	var winnings int64
	for key, amount := range bets {
		if !wheel.Wins(key, pocket) {
			continue
		}
		mult, merr := wheel.Multiplier(key)
		if merr != nil {
			continue
		}
		winnings += amount * mult
	}
	if winnings > 0 {
		if _, err := s.ledger.Credit(ctx, sess.OwnerID, winnings); err != nil {
			// Never silently drop a winning payout.
			log.Printf("game: settlement credit FAILED, manual reconciliation required: user=%s session=%s amount=%d: %v",
				sess.OwnerID, sess.ID, winnings, err)
			return nil, fmt.Errorf("settle session %s: %w", sess.ID, err)
		}
	}
	s.streaks.Record(sess.OwnerID, winnings > total)

	sess.mu.Lock()
	sess.Phase = PhaseSettled
	sess.mu.Unlock()

	return &SpinResult{
		Pocket:   pocket,
		Winnings: winnings,
		Net:      winnings - total,
		Tier:     out.Tier,
		Degraded: out.Degraded,
	}, nil
}

// refund returns every wager to the ledger and publishes the error notice;
// the round ends without settlement.
func (s *Service) refund(ctx context.Context, sess *Session, cause error) (*SpinResult, error) {
	_, total := sess.Snapshot()
	if total > 0 {
		if _, err := s.ledger.Credit(ctx, sess.OwnerID, total); err != nil {
			log.Printf("game: refund credit FAILED, manual reconciliation required: user=%s session=%s amount=%d: %v",
				sess.OwnerID, sess.ID, total, err)
		}
	}
	notice := publish.Artifact{
		Kind: publish.KindError,
		Note: "❌ The spin could not be shown. All wagers have been refunded.",
	}
	if err := s.pub.PublishFrame(ctx, sess.ChannelID, notice); err != nil {
		log.Printf("game: failed to publish refund notice for %s: %v", sess.ChannelID, err)
	}
	return &SpinResult{Refunded: true}, cause
}

// Balance exposes the ledger balance to the chat surface.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.ledger.Balance(ctx, userID)
}

// Credit exposes ledger credits for the ops API reconciliation path.
func (s *Service) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	return s.ledger.Credit(ctx, userID, amount)
}

// ActiveSessions reports the registry size.
func (s *Service) ActiveSessions() int {
	return s.reg.Len()
}
