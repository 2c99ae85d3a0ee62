package wheel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownOutcome = errors.New("unknown outcome")

// Outcome class keys. Straight bets use the form "straight:<n>".
const (
	KeyRed    = "red"
	KeyBlack  = "black"
	KeyGreen  = "green"
	KeyEven   = "even"
	KeyOdd    = "odd"
	KeyLow    = "low"
	KeyHigh   = "high"
	KeyDozen1 = "dozen1"
	KeyDozen2 = "dozen2"
	KeyDozen3 = "dozen3"
)

const straightPrefix = "straight:"

// StraightKey builds the outcome key for a single-number bet.
func StraightKey(number int) string {
	return straightPrefix + strconv.Itoa(number)
}

// ParseOutcomeKey validates user input and returns the canonical key.
// Bare numbers are accepted as shorthand for straight bets.
func ParseOutcomeKey(s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case KeyRed, KeyBlack, KeyGreen, KeyEven, KeyOdd, KeyLow, KeyHigh,
		KeyDozen1, KeyDozen2, KeyDozen3:
		return key, nil
	}
	numPart := key
	if strings.HasPrefix(key, straightPrefix) {
		numPart = strings.TrimPrefix(key, straightPrefix)
	}
	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 || n >= PocketCount {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	return StraightKey(n), nil
}

// Multiplier returns the gross credit factor for a winning bet on key.
// A winning wager of N is credited N times this value.
func Multiplier(key string) (int64, error) {
	switch key {
	case KeyGreen:
		return 35, nil
	case KeyRed, KeyBlack, KeyEven, KeyOdd, KeyLow, KeyHigh,
		KeyDozen1, KeyDozen2, KeyDozen3:
		return 2, nil
	}
	if strings.HasPrefix(key, straightPrefix) {
		return 35, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, key)
}

// Wins reports whether pocket p satisfies outcome class key.
// Zero counts for green and its own straight bet only.
func Wins(key string, p Pocket) bool {
	switch key {
	case KeyRed:
		return p.Color == Red
	case KeyBlack:
		return p.Color == Black
	case KeyGreen:
		return p.Color == Green
	case KeyEven:
		return p.Number != 0 && p.Number%2 == 0
	case KeyOdd:
		return p.Number%2 == 1
	case KeyLow:
		return p.Number >= 1 && p.Number <= 18
	case KeyHigh:
		return p.Number >= 19 && p.Number <= 36
	case KeyDozen1:
		return p.Number >= 1 && p.Number <= 12
	case KeyDozen2:
		return p.Number >= 13 && p.Number <= 24
	case KeyDozen3:
		return p.Number >= 25 && p.Number <= 36
	}
	if strings.HasPrefix(key, straightPrefix) {
		n, err := strconv.Atoi(strings.TrimPrefix(key, straightPrefix))
		return err == nil && n == p.Number
	}
	return false
}
