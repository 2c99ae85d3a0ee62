package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wheelbot/internal/physics"
	"wheelbot/internal/publish"
	"wheelbot/internal/render"
)

type Tier int

const (
	TierWorker Tier = iota
	TierLegacy
	TierStatic
)

func (t Tier) String() string {
	switch t {
	case TierWorker:
		return "worker"
	case TierLegacy:
		return "legacy"
	case TierStatic:
		return "static"
	}
	return "unknown"
}

var ErrAllTiersFailed = errors.New("all render tiers failed")

// WorkerRenderer is the isolated worker tier.
type WorkerRenderer interface {
	Render(ctx context.Context, job render.Job) (*render.Result, error)
}

// Outcome reports which tier produced the published artifact and the exact
// tier sequence that was attempted.
type Outcome struct {
	Tier     Tier
	Attempts []Tier
	Degraded bool
}

// Orchestrator drives one spin through the render tiers: placeholder first
// for an immediate acknowledgment, then worker, legacy and static strictly
// in order. Exactly one final artifact is published, or ErrAllTiersFailed
// is returned and the caller refunds.
type Orchestrator struct {
	worker   WorkerRenderer
	pub      publish.Publisher
	maxBytes int

	legacyRender func(render.Job, int) (*render.Result, error)
	staticRender func(physics.Plan, int) (*render.Result, error)
}

func New(worker WorkerRenderer, pub publish.Publisher, maxBytes int) *Orchestrator {
	return &Orchestrator{
		worker:       worker,
		pub:          pub,
		maxBytes:     maxBytes,
		legacyRender: render.RenderLegacy,
		staticRender: render.RenderStatic,
	}
}

// Run executes the tier sequence for one spin. The returned Outcome is
// non-nil even on failure so callers and tests can inspect the attempts.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, plan physics.Plan) (*Outcome, error) {
	job := render.Job{
		Plan:       plan,
		FPS:        plan.FPS,
		DurationMs: plan.TotalFrames * 1000 / plan.FPS,
		Quality:    render.QualityFull,
	}

	// The placeholder acknowledges the spin before any rendering starts.
	// Its failure does not consume a tier.
	placeholder := publish.Artifact{Kind: publish.KindPlaceholder, Note: "🎡 No more bets — the wheel is spinning..."}
	if err := o.pub.PublishFrame(ctx, sessionID, placeholder); err != nil {
		log.Printf("pipeline: placeholder publish failed for %s: %v", sessionID, err)
	}

	out := &Outcome{}
	for _, tier := range []Tier{TierWorker, TierLegacy, TierStatic} {
		out.Attempts = append(out.Attempts, tier)

		result, err := o.renderTier(ctx, tier, job)
		if err != nil {
			log.Printf("pipeline: %s tier failed for %s: %v", tier, sessionID, err)
			continue
		}
		if err := o.pub.PublishFrame(ctx, sessionID, artifactFor(tier, result)); err != nil {
			log.Printf("pipeline: %s publish failed for %s: %v", tier, sessionID, err)
			continue
		}

		out.Tier = tier
		out.Degraded = tier == TierStatic
		return out, nil
	}

	return out, fmt.Errorf("%s: %w", sessionID, ErrAllTiersFailed)
}

func (o *Orchestrator) renderTier(ctx context.Context, tier Tier, job render.Job) (*render.Result, error) {
	switch tier {
	case TierWorker:
		return o.worker.Render(ctx, job)
	case TierLegacy:
		low := job
		low.Quality = render.QualityLow
		return o.legacyRender(low, o.maxBytes)
	default:
		return o.staticRender(job.Plan, o.maxBytes)
	}
}

func artifactFor(tier Tier, result *render.Result) publish.Artifact {
	if tier == TierStatic {
		return publish.Artifact{
			Kind:     publish.KindStatic,
			Filename: "result.png",
			MIME:     result.MIME,
			Data:     result.Data,
			Note:     "⚠️ Animation unavailable — showing the final result.",
		}
	}
	return publish.Artifact{
		Kind:     publish.KindAnimation,
		Filename: "spin.gif",
		MIME:     result.MIME,
		Data:     result.Data,
	}
}
