package render

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"wheelbot/internal/physics"
	"wheelbot/internal/wheel"
)

var (
	feltColor  = color.RGBA{R: 0x0b, G: 0x3d, B: 0x1e, A: 0xff}
	hubColor   = color.RGBA{R: 0x6b, G: 0x4a, B: 0x1f, A: 0xff}
	rimColor   = color.RGBA{R: 0xc9, G: 0xa2, B: 0x4b, A: 0xff}
	redColor   = color.RGBA{R: 0xb3, G: 0x1b, B: 0x1b, A: 0xff}
	blackColor = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	greenColor = color.RGBA{R: 0x14, G: 0x7a, B: 0x3d, A: 0xff}
	ballColor  = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
)

// wheelPalette is the fixed GIF palette; every drawn color must be close to
// one of these so paletted conversion stays faithful.
var wheelPalette = color.Palette{
	feltColor, hubColor, rimColor, redColor, blackColor, greenColor,
	ballColor, color.White, color.Black,
	color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

func colorFor(c wheel.Color) color.Color {
	switch c {
	case wheel.Red:
		return redColor
	case wheel.Green:
		return greenColor
	default:
		return blackColor
	}
}

// drawFrame renders one spin frame at the given square size. All tiers go
// through here so the preview and the full animation cannot disagree about
// where the ball is.
func drawFrame(plan physics.Plan, frame, size int, labels bool) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetColor(feltColor)
	dc.Clear()

	cx := float64(size) / 2
	cy := float64(size) / 2
	outerR := float64(size) * 0.48
	innerR := outerR * 0.60

	wheelAngle := plan.WheelAngleAt(frame)

	dc.DrawCircle(cx, cy, outerR+float64(size)*0.012)
	dc.SetColor(rimColor)
	dc.Fill()

	for i, p := range wheel.Pockets() {
		start := radians(float64(i)*wheel.PocketArc + wheelAngle - 90)
		end := radians(float64(i+1)*wheel.PocketArc + wheelAngle - 90)
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, outerR, start, end)
		dc.ClosePath()
		dc.SetColor(colorFor(p.Color))
		dc.Fill()
	}

	dc.DrawCircle(cx, cy, innerR)
	dc.SetColor(hubColor)
	dc.Fill()

	if labels {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(color.White)
		labelR := outerR * 0.84
		for i, p := range wheel.Pockets() {
			a := radians(float64(i)*wheel.PocketArc + wheel.PocketArc/2 + wheelAngle - 90)
			x := cx + math.Cos(a)*labelR
			y := cy + math.Sin(a)*labelR
			dc.DrawStringAnchored(strconv.Itoa(p.Number), x, y, 0.5, 0.5)
		}
	}

	// The ball rides the rim until the drop frame, then eases down onto
	// the pocket track where it rests.
	rimTrack := outerR * 0.94
	pocketTrack := outerR * 0.78
	ballR := rimTrack
	if frame >= plan.DropFrame && plan.TotalFrames-1 > plan.DropFrame {
		t := float64(frame-plan.DropFrame) / float64(plan.TotalFrames-1-plan.DropFrame)
		if t > 1 {
			t = 1
		}
		ballR = rimTrack + (pocketTrack-rimTrack)*t
	}
	ballAngle := radians(plan.BallAngleAt(frame) - 90)
	dc.DrawCircle(cx+math.Cos(ballAngle)*ballR, cy+math.Sin(ballAngle)*ballR, float64(size)*0.022)
	dc.SetColor(ballColor)
	dc.Fill()

	return dc.Image()
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
