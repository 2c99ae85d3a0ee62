package outcome

import (
	"errors"

	"wheelbot/internal/config"
	"wheelbot/internal/wheel"
)

var ErrNoPockets = errors.New("no drawable pockets")

const (
	baseWeight = 1.0 / float64(wheel.PocketCount)

	// Fairness floor: no pocket may be crushed below 5% of its base
	// weight or inflated past 150% of it, whatever the penalty says.
	minWeightFactor = 0.05
	maxWeightFactor = 1.5

	maxPenalty = 0.5
)

// Engine selects the winning pocket for a spin. Selection is a pure
// function of the placed bets, the wager total and the caller's streak;
// streak bookkeeping lives in Tracker and is updated after settlement.
type Engine struct {
	cfg config.EdgeConfig
	rng RandomSource
}

func New(cfg config.EdgeConfig, rng RandomSource) *Engine {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Engine{cfg: cfg, rng: rng}
}

// SelectPocket draws the winning pocket. Two stages: a smooth weight
// penalty that keeps normal play statistically fair, then discrete
// overrides that bound worst-case exploitation (hard streak cap and the
// single-color forced-loss roll).
func (e *Engine) SelectPocket(bets map[string]int64, totalWagered int64, streakWins int, vip bool) (wheel.Pocket, error) {
	penalty := e.Penalty(totalWagered, streakWins, vip)
	weights := EffectiveWeights(e.cfg, bets, totalWagered, penalty)
	ratios := payoutRatios(bets, totalWagered)

	var losing []int
	for i := range ratios {
		if ratios[i] == 0 {
			losing = append(losing, i)
		}
	}

	allowed := allPockets()
	switch {
	case e.cfg.MaxConsecutiveWins > 0 && streakWins >= e.cfg.MaxConsecutiveWins && len(losing) > 0:
		allowed = losing
	case streakWins >= e.cfg.StreakSoftThreshold && singleColorBets(bets) && len(losing) > 0:
		if e.rng.Float64() < e.cfg.ForcedLossProb {
			allowed = losing
		}
	}

	return e.draw(weights, allowed)
}

// Penalty computes the smooth weight penalty in [0, 0.5] from the wager
// tiers, the progressive term, the streak term and the VIP reduction.
func (e *Engine) Penalty(totalWagered int64, streakWins int, vip bool) float64 {
	cfg := e.cfg
	p := 0.0

	if cfg.HighRollerThreshold > 0 && totalWagered >= cfg.HighRollerThreshold {
		p += cfg.HighRollerPenalty
	}
	if cfg.ProgressiveThreshold > 0 && totalWagered > cfg.ProgressiveThreshold {
		multiples := float64(totalWagered)/float64(cfg.ProgressiveThreshold) - 1
		p += cfg.ProgressiveStep * multiples
	}
	if streakWins > cfg.StreakSoftThreshold {
		term := cfg.StreakStep * float64(streakWins-cfg.StreakSoftThreshold)
		if cfg.StreakTermCap > 0 && term > cfg.StreakTermCap {
			term = cfg.StreakTermCap
		}
		p += term
	}
	if vip {
		p -= cfg.VIPEdgeReduction
	}

	if p < 0 {
		p = 0
	}
	if p > maxPenalty {
		p = maxPenalty
	}
	return p
}

// EffectiveWeights returns the normalized draw distribution over pockets in
// wheel order. With penalty 0 the distribution is shaped so the expected
// gross return on the placed bets equals 1 - BaseEdge.
func EffectiveWeights(cfg config.EdgeConfig, bets map[string]int64, totalWagered int64, penalty float64) [wheel.PocketCount]float64 {
	var w [wheel.PocketCount]float64
	for i := range w {
		w[i] = baseWeight
	}

	ratios := payoutRatios(bets, totalWagered)
	var coverage, uniformReturn float64
	for i := range ratios {
		if ratios[i] > 0 {
			coverage += baseWeight
			uniformReturn += baseWeight * ratios[i]
		}
	}

	// Scale covered pockets so the normalized expected return hits the
	// configured target. Degenerate coverage (denominator <= 0) keeps the
	// uniform base; the fairness clamp below bounds everything anyway.
	if uniformReturn > 0 {
		target := 1 - cfg.BaseEdge
		denom := uniformReturn - target*coverage
		if denom > 0 {
			f := target * (1 - coverage) / denom
			if f > 0 {
				for i := range w {
					if ratios[i] > 0 {
						w[i] *= f
					}
				}
			}
		}
	}

	for i := range w {
		if ratios[i] > 0 {
			w[i] *= 1 - penalty
		}
		if w[i] < baseWeight*minWeightFactor {
			w[i] = baseWeight * minWeightFactor
		}
		if w[i] > baseWeight*maxWeightFactor {
			w[i] = baseWeight * maxWeightFactor
		}
	}

	var sum float64
	for i := range w {
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// payoutRatios returns, per pocket in wheel order, the gross credit per unit
// wagered if that pocket lands.
func payoutRatios(bets map[string]int64, totalWagered int64) [wheel.PocketCount]float64 {
	var ratios [wheel.PocketCount]float64
	if totalWagered <= 0 {
		return ratios
	}
	for i, p := range wheel.Pockets() {
		var credit int64
		for key, amount := range bets {
			if !wheel.Wins(key, p) {
				continue
			}
			mult, err := wheel.Multiplier(key)
			if err != nil {
				continue
			}
			credit += amount * mult
		}
		ratios[i] = float64(credit) / float64(totalWagered)
	}
	return ratios
}

func singleColorBets(bets map[string]int64) bool {
	if len(bets) == 0 {
		return false
	}
	for key := range bets {
		if key != wheel.KeyRed && key != wheel.KeyBlack {
			return false
		}
	}
	return len(bets) == 1
}

func allPockets() []int {
	idx := make([]int, wheel.PocketCount)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (e *Engine) draw(weights [wheel.PocketCount]float64, allowed []int) (wheel.Pocket, error) {
	var total float64
	for _, i := range allowed {
		total += weights[i]
	}
	if total <= 0 || len(allowed) == 0 {
		return wheel.Pocket{}, ErrNoPockets
	}

	pockets := wheel.Pockets()
	r := e.rng.Float64() * total
	var cum float64
	for _, i := range allowed {
		cum += weights[i]
		if r < cum {
			return pockets[i], nil
		}
	}
	return pockets[allowed[len(allowed)-1]], nil
}
