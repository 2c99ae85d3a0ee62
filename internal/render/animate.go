package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"

	"wheelbot/internal/physics"
)

type Quality int

const (
	QualityFull Quality = iota
	QualityLow
)

// Job is one render request derived from a spin plan.
type Job struct {
	Plan       physics.Plan
	FPS        int
	DurationMs int
	Quality    Quality
}

// Result is an encoded animation or image ready to publish.
type Result struct {
	Data   []byte
	MIME   string
	Frames int
}

var (
	ErrOversize = errors.New("encoded artifact exceeds size limit")
	ErrEncode   = errors.New("encode failed")
)

const (
	fullSize   = 320
	legacySize = 180
	legacyStep = 3
)

// RenderAnimation produces the full-quality GIF for the worker tier.
func RenderAnimation(job Job, maxBytes int) (*Result, error) {
	return renderGIF(job.Plan, fullSize, 1, true, maxBytes)
}

// RenderLegacy is the synchronous low-fidelity tier: smaller frames, every
// third frame only, no pocket labels.
func RenderLegacy(job Job, maxBytes int) (*Result, error) {
	return renderGIF(job.Plan, legacySize, legacyStep, false, maxBytes)
}

// RenderStatic produces a single PNG of the final rest frame.
func RenderStatic(plan physics.Plan, maxBytes int) (*Result, error) {
	if plan.TotalFrames < 1 {
		return nil, fmt.Errorf("%w: empty plan", ErrEncode)
	}
	img := drawFrame(plan, plan.TotalFrames-1, fullSize, true)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if maxBytes > 0 && buf.Len() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOversize, buf.Len())
	}
	return &Result{Data: buf.Bytes(), MIME: "image/png", Frames: 1}, nil
}

func renderGIF(plan physics.Plan, size, step int, labels bool, maxBytes int) (*Result, error) {
	if plan.TotalFrames < 1 || plan.FPS <= 0 || step < 1 {
		return nil, fmt.Errorf("%w: empty plan", ErrEncode)
	}

	anim := &gif.GIF{}
	delay := 100 * step / plan.FPS // GIF delay unit is 10ms
	if delay < 2 {
		delay = 2
	}

	for f := 0; f < plan.TotalFrames; f += step {
		img := drawFrame(plan, f, size, labels)
		pal := image.NewPaletted(img.Bounds(), wheelPalette)
		draw.Draw(pal, pal.Bounds(), img, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}
	// Hold the rest frame so the result stays readable.
	anim.Delay[len(anim.Delay)-1] = 200

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if maxBytes > 0 && buf.Len() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOversize, buf.Len())
	}
	return &Result{Data: buf.Bytes(), MIME: "image/gif", Frames: len(anim.Image)}, nil
}
