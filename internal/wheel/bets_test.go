package wheel

import (
	"errors"
	"testing"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		key  string
		want int64
	}{
		{KeyRed, 2},
		{KeyBlack, 2},
		{KeyGreen, 35},
		{KeyEven, 2},
		{KeyOdd, 2},
		{KeyLow, 2},
		{KeyHigh, 2},
		{KeyDozen1, 2},
		{KeyDozen2, 2},
		{KeyDozen3, 2},
		{StraightKey(17), 35},
		{StraightKey(0), 35},
	}
	for _, tt := range tests {
		got, err := Multiplier(tt.key)
		if err != nil {
			t.Errorf("Multiplier(%q) error: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Multiplier(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}

	if _, err := Multiplier("corner"); !errors.Is(err, ErrUnknownOutcome) {
		t.Errorf("expected ErrUnknownOutcome, got %v", err)
	}
}

func TestWins(t *testing.T) {
	p32, _ := ByNumber(32) // red
	p17, _ := ByNumber(17) // black
	p0, _ := ByNumber(0)   // green

	tests := []struct {
		key    string
		pocket Pocket
		want   bool
	}{
		{KeyRed, p32, true},
		{KeyRed, p17, false},
		{KeyBlack, p17, true},
		{KeyGreen, p0, true},
		{KeyGreen, p32, false},
		{KeyEven, p32, true},
		{KeyEven, p0, false}, // zero is neither even nor odd
		{KeyOdd, p17, true},
		{KeyOdd, p0, false},
		{KeyLow, p17, true},
		{KeyLow, p0, false},
		{KeyHigh, p32, true},
		{KeyDozen2, p17, true},
		{KeyDozen3, p32, true},
		{KeyDozen1, p32, false},
		{StraightKey(17), p17, true},
		{StraightKey(17), p32, false},
		{StraightKey(0), p0, true},
	}
	for _, tt := range tests {
		if got := Wins(tt.key, tt.pocket); got != tt.want {
			t.Errorf("Wins(%q, %d) = %v, want %v", tt.key, tt.pocket.Number, got, tt.want)
		}
	}
}

func TestParseOutcomeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"red", KeyRed, false},
		{" Black ", KeyBlack, false},
		{"DOZEN2", KeyDozen2, false},
		{"17", StraightKey(17), false},
		{"straight:0", StraightKey(0), false},
		{"36", StraightKey(36), false},
		{"37", "", true},
		{"-1", "", true},
		{"corner", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutcomeKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownOutcome) {
				t.Errorf("ParseOutcomeKey(%q) expected ErrUnknownOutcome, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOutcomeKey(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutcomeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
