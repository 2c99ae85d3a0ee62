package wheel

import "math"

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

type Pocket struct {
	Number int
	Color  Color
}

const PocketCount = 37

// PocketArc is the angular width of one pocket in degrees.
const PocketArc = 360.0 / PocketCount

// order lists pocket numbers in physical wheel order (European single-zero).
var order = [PocketCount]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

var (
	pockets   [PocketCount]Pocket
	slotIndex map[int]int
)

func init() {
	slotIndex = make(map[int]int, PocketCount)
	for i, n := range order {
		pockets[i] = Pocket{Number: n, Color: ColorOf(n)}
		slotIndex[n] = i
	}
}

func ColorOf(number int) Color {
	if number == 0 {
		return Green
	}
	if redNumbers[number] {
		return Red
	}
	return Black
}

// Pockets returns all pockets in physical wheel order.
func Pockets() []Pocket {
	out := make([]Pocket, PocketCount)
	copy(out[:], pockets[:])
	return out
}

// ByNumber returns the pocket for a number, ok=false when out of range.
func ByNumber(number int) (Pocket, bool) {
	i, ok := slotIndex[number]
	if !ok {
		return Pocket{}, false
	}
	return pockets[i], true
}

// AngleOf returns the angular center of a pocket in degrees [0, 360).
// Pocket slot i spans [i*arc, (i+1)*arc); centers sit half an arc in.
func AngleOf(number int) float64 {
	i, ok := slotIndex[number]
	if !ok {
		return 0
	}
	return float64(i)*PocketArc + PocketArc/2
}

// PocketAt maps a wheel angle in degrees back to the pocket under it.
func PocketAt(angle float64) Pocket {
	i := int(NormalizeAngle(angle) / PocketArc)
	if i >= PocketCount {
		i = PocketCount - 1
	}
	return pockets[i]
}

// NormalizeAngle wraps an angle into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}
