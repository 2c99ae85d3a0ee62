package publish

import (
	"context"
	"sync"
	"time"
)

type Kind int

const (
	KindPlaceholder Kind = iota
	KindAnimation
	KindStatic
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindAnimation:
		return "animation"
	case KindStatic:
		return "static"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Artifact is one visual frame of a spin. Data may be empty for text-only
// frames (placeholder, error notice).
type Artifact struct {
	Kind     Kind
	Filename string
	MIME     string
	Data     []byte
	Note     string
}

// Publisher delivers artifacts for a session. Implementations must tolerate
// repeated delivery of the same artifact.
type Publisher interface {
	PublishFrame(ctx context.Context, sessionID string, a Artifact) error
}

// RateLimited enforces one global minimum gap between publishes and
// serializes them, even across sessions sharing the gateway.
type RateLimited struct {
	inner    Publisher
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func NewRateLimited(inner Publisher, interval time.Duration) *RateLimited {
	return &RateLimited{inner: inner, interval: interval}
}

func (r *RateLimited) PublishFrame(ctx context.Context, sessionID string, a Artifact) error {
	// Hold the lock across the wait and the delivery so edits stay ordered.
	r.mu.Lock()
	defer r.mu.Unlock()

	if wait := r.interval - time.Since(r.last); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := r.inner.PublishFrame(ctx, sessionID, a)
	r.last = time.Now()
	return err
}
