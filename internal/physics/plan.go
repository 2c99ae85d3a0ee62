package physics

import (
	"errors"
	"fmt"
	"math"

	"wheelbot/internal/wheel"
)

var ErrInvalidParams = errors.New("invalid spin parameters")

// Plan is the deterministic kinematic description of one spin. Identical
// inputs always produce a bit-identical plan; every render tier derives its
// frames from the same plan so previews and full renders agree.
type Plan struct {
	Target        wheel.Pocket
	FPS           int
	WheelOmega0   float64 // deg/s, wheel spins positive
	BallOmega0    float64 // deg/s, ball counter-rotates
	WheelFriction float64 // exponential decay constant, 1/s
	BallFriction  float64
	LapCount      int
	TotalFrames   int
	DropFrame     int
}

// ComputePlan solves the ball launch speed so that after LapCount relative
// laps the ball rests exactly on the target pocket's angular center.
// Angular velocity decays exponentially: w(t) = w0 * exp(-k*t).
func ComputePlan(target wheel.Pocket, fps, durationMs int, wheelRPM, ballRPM, kWheel, kBall float64, lapCount int) (Plan, error) {
	switch {
	case fps <= 0:
		return Plan{}, fmt.Errorf("%w: fps %d", ErrInvalidParams, fps)
	case durationMs <= 0:
		return Plan{}, fmt.Errorf("%w: duration %dms", ErrInvalidParams, durationMs)
	case wheelRPM <= 0 || ballRPM <= 0:
		return Plan{}, fmt.Errorf("%w: rpm %.2f/%.2f", ErrInvalidParams, wheelRPM, ballRPM)
	case kWheel <= 0 || kBall <= 0:
		return Plan{}, fmt.Errorf("%w: friction %.3f/%.3f", ErrInvalidParams, kWheel, kBall)
	case lapCount < 1:
		return Plan{}, fmt.Errorf("%w: lap count %d", ErrInvalidParams, lapCount)
	}

	totalFrames := fps * durationMs / 1000
	if totalFrames < 2 {
		return Plan{}, fmt.Errorf("%w: %d frames", ErrInvalidParams, totalFrames)
	}

	wheelOmega0 := wheelRPM * 6 // rpm -> deg/s
	ballNominal := ballRPM * 6
	horizon := float64(totalFrames-1) / float64(fps)

	// Relative travel needed so that ball - wheel rests on the target
	// center after lapCount relative laps. The ball runs opposite to the
	// wheel, so relative travel is the sum of both travel angles.
	wheelTravel := travel(wheelOmega0, kWheel, horizon)
	relativeTravel := 360*float64(lapCount) - wheel.AngleOf(target.Number)
	ballTravel := relativeTravel - wheelTravel
	if ballTravel <= 0 {
		return Plan{}, fmt.Errorf("%w: lap count %d too small for wheel travel %.1f", ErrInvalidParams, lapCount, wheelTravel)
	}

	// Travel is linear in w0, so scaling the nominal launch speed hits the
	// required travel exactly.
	nominalTravel := travel(ballNominal, kBall, horizon)
	ballOmega0 := ballNominal * ballTravel / nominalTravel

	plan := Plan{
		Target:        target,
		FPS:           fps,
		WheelOmega0:   wheelOmega0,
		BallOmega0:    ballOmega0,
		WheelFriction: kWheel,
		BallFriction:  kBall,
		LapCount:      lapCount,
		TotalFrames:   totalFrames,
	}
	plan.DropFrame = plan.findDropFrame()
	return plan, nil
}

// WheelAngleAt returns the wheel rotation in degrees [0, 360) at a frame.
func (p Plan) WheelAngleAt(frame int) float64 {
	return wheel.NormalizeAngle(travel(p.WheelOmega0, p.WheelFriction, p.timeAt(frame)))
}

// BallAngleAt returns the ball's absolute angle in degrees [0, 360) at a
// frame. The ball starts at angle zero and runs counter to the wheel.
func (p Plan) BallAngleAt(frame int) float64 {
	return wheel.NormalizeAngle(-travel(p.BallOmega0, p.BallFriction, p.timeAt(frame)))
}

// RestPocket maps the final ball position back through the wheel layout.
// By construction it equals Target.
func (p Plan) RestPocket() wheel.Pocket {
	last := p.TotalFrames - 1
	rel := wheel.NormalizeAngle(p.BallAngleAt(last) - p.WheelAngleAt(last))
	return wheel.PocketAt(rel)
}

func (p Plan) timeAt(frame int) float64 {
	if frame < 0 {
		frame = 0
	}
	if frame > p.TotalFrames-1 {
		frame = p.TotalFrames - 1
	}
	return float64(frame) / float64(p.FPS)
}

// findDropFrame returns the first frame where the ball's angular speed no
// longer exceeds the wheel's, i.e. where it visually falls off the rim.
func (p Plan) findDropFrame() int {
	for f := 0; f < p.TotalFrames; f++ {
		t := p.timeAt(f)
		ballSpeed := p.BallOmega0 * math.Exp(-p.BallFriction*t)
		wheelSpeed := p.WheelOmega0 * math.Exp(-p.WheelFriction*t)
		if ballSpeed <= wheelSpeed {
			return f
		}
	}
	return p.TotalFrames - 1
}

// travel integrates w0*exp(-k*t) from 0 to t.
func travel(omega0, k, t float64) float64 {
	if k <= 0 {
		return omega0 * t
	}
	return omega0 / k * (1 - math.Exp(-k*t))
}
