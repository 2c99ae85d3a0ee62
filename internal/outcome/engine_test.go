package outcome

import (
	"math"
	"testing"

	"wheelbot/internal/config"
	"wheelbot/internal/wheel"
)

func testEdgeConfig() config.EdgeConfig {
	return config.EdgeConfig{
		BaseEdge:             0.05,
		ProgressiveThreshold: 1000,
		ProgressiveStep:      0.02,
		HighRollerThreshold:  5000,
		HighRollerPenalty:    0.05,
		StreakSoftThreshold:  3,
		StreakStep:           0.04,
		StreakTermCap:        0.20,
		MaxConsecutiveWins:   6,
		ForcedLossProb:       0.25,
		VIPEdgeReduction:     0.01,
	}
}

// scriptedRNG replays a fixed sequence of draws.
type scriptedRNG struct {
	values []float64
	i      int
}

func (s *scriptedRNG) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestEffectiveWeightsReproduceBaseEdge(t *testing.T) {
	cfg := testEdgeConfig()

	tests := []struct {
		name string
		bets map[string]int64
	}{
		{"red", map[string]int64{wheel.KeyRed: 10}},
		{"even", map[string]int64{wheel.KeyEven: 25}},
		{"straight", map[string]int64{wheel.StraightKey(17): 10}},
		{"mixed", map[string]int64{wheel.KeyRed: 10, wheel.StraightKey(4): 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var total int64
			for _, amount := range tt.bets {
				total += amount
			}
			weights := EffectiveWeights(cfg, tt.bets, total, 0)
			ratios := payoutRatios(tt.bets, total)

			var sum, expectedReturn float64
			for i := range weights {
				sum += weights[i]
				expectedReturn += weights[i] * ratios[i]
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("weights must sum to 1, got %v", sum)
			}
			want := 1 - cfg.BaseEdge
			if math.Abs(expectedReturn-want) > 1e-6 {
				t.Errorf("expected return %.6f, want %.6f", expectedReturn, want)
			}
		})
	}
}

func TestEffectiveWeightsDozenBoundedByClamp(t *testing.T) {
	cfg := testEdgeConfig()
	bets := map[string]int64{wheel.KeyDozen2: 30}

	// A dozen pays 2x gross over 12 pockets, so lifting its return to the
	// target would need almost 1.9x the base weight. The fairness clamp
	// caps the lift at 1.5x, so the return lands below target but above
	// the uniform 24/37.
	weights := EffectiveWeights(cfg, bets, 30, 0)
	ratios := payoutRatios(bets, 30)

	var expectedReturn float64
	for i := range weights {
		expectedReturn += weights[i] * ratios[i]
	}
	if expectedReturn >= 1-cfg.BaseEdge {
		t.Errorf("clamped return %.4f must stay below target %.4f", expectedReturn, 1-cfg.BaseEdge)
	}
	if uniform := 24.0 / 37.0; expectedReturn <= uniform {
		t.Errorf("clamped return %.4f must still improve on uniform %.4f", expectedReturn, uniform)
	}
}

func TestEffectiveWeightsFairnessFloor(t *testing.T) {
	cfg := testEdgeConfig()
	bets := map[string]int64{wheel.KeyRed: 10}

	// Maximum penalty must never crush covered pockets below the floor:
	// the clamp bounds every weight to [0.05, 1.5] x base, so no weight
	// may be more than 30x smaller than another.
	weights := EffectiveWeights(cfg, bets, 10, maxPenalty)
	minW, maxW := weights[0], weights[0]
	for i := range weights {
		if weights[i] < minW {
			minW = weights[i]
		}
		if weights[i] > maxW {
			maxW = weights[i]
		}
	}
	if minW <= 0 {
		t.Fatalf("weights must stay positive, min %v", minW)
	}
	if ratio := maxW / minW; ratio > maxWeightFactor/minWeightFactor+1e-9 {
		t.Errorf("weight spread %v exceeds fairness bound %v", ratio, maxWeightFactor/minWeightFactor)
	}
}

func TestPenalty(t *testing.T) {
	cfg := testEdgeConfig()
	e := New(cfg, NewSeededRNG(1))

	tests := []struct {
		name    string
		wagered int64
		streak  int
		vip     bool
		want    float64
	}{
		{"small wager no streak", 100, 0, false, 0},
		{"high roller flat", 5000, 0, false, 0.05 + 0.02*4}, // flat + progressive past threshold
		{"streak term", 100, 5, false, 0.04 * 2},
		{"streak term capped", 100, 20, false, 0.20},
		{"vip reduction", 100, 5, true, 0.04*2 - 0.01},
		{"clamped at half", 1_000_000, 20, false, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Penalty(tt.wagered, tt.streak, tt.vip)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Penalty(%d, %d, %v) = %v, want %v", tt.wagered, tt.streak, tt.vip, got, tt.want)
			}
		})
	}

	if p := e.Penalty(100, 0, true); p != 0 {
		t.Errorf("penalty must clamp at zero, got %v", p)
	}
}

func TestHardStreakCapForcesLoss(t *testing.T) {
	cfg := testEdgeConfig()
	e := New(cfg, NewSeededRNG(42))
	bets := map[string]int64{wheel.KeyBlack: 50}

	for n := 0; n < 200; n++ {
		p, err := e.SelectPocket(bets, 50, cfg.MaxConsecutiveWins, false)
		if err != nil {
			t.Fatalf("SelectPocket failed: %v", err)
		}
		if p.Color == wheel.Black {
			t.Fatalf("draw %d returned black %d despite hard streak cap", n, p.Number)
		}
	}
}

func TestForcedLossRollOnColorConcentration(t *testing.T) {
	cfg := testEdgeConfig()
	bets := map[string]int64{wheel.KeyRed: 10}

	// First value is the forced-loss roll, second drives the draw.
	e := New(cfg, &scriptedRNG{values: []float64{0.0, 0.5}})
	p, err := e.SelectPocket(bets, 10, cfg.StreakSoftThreshold, false)
	if err != nil {
		t.Fatalf("SelectPocket failed: %v", err)
	}
	if p.Color == wheel.Red {
		t.Errorf("forced-loss roll hit but draw returned red %d", p.Number)
	}
}

func TestSelectPocketDistribution(t *testing.T) {
	cfg := testEdgeConfig()
	e := New(cfg, NewSeededRNG(7))
	bets := map[string]int64{wheel.KeyRed: 10}

	const rounds = 100_000
	var redWins int
	for n := 0; n < rounds; n++ {
		p, err := e.SelectPocket(bets, 10, 0, false)
		if err != nil {
			t.Fatalf("SelectPocket failed: %v", err)
		}
		if p.Color == wheel.Red {
			redWins++
		}
	}

	// Expected win probability is (1 - edge) / multiplier = 0.475.
	got := float64(redWins) / rounds
	if math.Abs(got-0.475) > 0.01 {
		t.Errorf("red win rate %.4f, want 0.475 +/- 0.01", got)
	}
}

func TestSelectPocketNoBets(t *testing.T) {
	e := New(testEdgeConfig(), NewSeededRNG(3))
	seen := map[int]bool{}
	for n := 0; n < 2000; n++ {
		p, err := e.SelectPocket(nil, 0, 0, false)
		if err != nil {
			t.Fatalf("SelectPocket failed: %v", err)
		}
		seen[p.Number] = true
	}
	if len(seen) < wheel.PocketCount {
		t.Errorf("uniform draw over 2000 rounds hit only %d pockets", len(seen))
	}
}
