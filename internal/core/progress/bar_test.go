package progress

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilledCells(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     int
	}{
		{name: "empty", fraction: 0, want: 0},
		{name: "half", fraction: 0.5, want: 20},
		{name: "full", fraction: 1, want: 40},
		{name: "floors", fraction: 0.124, want: 4},
		{name: "just below full", fraction: 0.999, want: 39},
		{name: "negative clamps", fraction: -0.3, want: 0},
		{name: "overflow clamps", fraction: 1.7, want: 40},
		{name: "nan", fraction: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilledCells(tt.fraction, DefaultWidth))
		})
	}
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 0.0, Fraction(0, time.Minute))
	assert.Equal(t, 0.5, Fraction(30*time.Second, time.Minute))
	assert.Equal(t, 1.0, Fraction(2*time.Minute, time.Minute))
	assert.Equal(t, 0.0, Fraction(-time.Second, time.Minute))
	assert.Equal(t, 1.0, Fraction(0, 0))
}

func TestFractionMonotonic(t *testing.T) {
	total := 25 * time.Minute
	previous := -1.0
	for elapsed := time.Duration(0); elapsed <= total+time.Minute; elapsed += 7 * time.Second {
		current := Fraction(elapsed, total)
		assert.GreaterOrEqual(t, current, previous, "elapsed %s", elapsed)
		previous = current
	}
	assert.Equal(t, 1.0, previous)
}

func TestNewFrame(t *testing.T) {
	frame := NewFrame(12*time.Minute+59*time.Second, 25*time.Minute, time.Minute, DefaultWidth)

	assert.Equal(t, 20, frame.Filled)
	assert.Equal(t, int64(12), frame.ElapsedMinutes)
	assert.Equal(t, int64(25), frame.TotalMinutes)
	assert.Equal(t, "["+strings.Repeat("=", 20)+strings.Repeat(" ", 20)+"]   12 mins / 25 mins", frame.String())
}

func TestNewFrameClampsElapsed(t *testing.T) {
	frame := NewFrame(7*time.Minute, 5*time.Minute, time.Minute, DefaultWidth)

	assert.Equal(t, DefaultWidth, frame.Filled)
	assert.Equal(t, int64(5), frame.ElapsedMinutes)

	frame = NewFrame(-time.Second, 5*time.Minute, time.Minute, DefaultWidth)
	assert.Equal(t, 0, frame.Filled)
	assert.Equal(t, int64(0), frame.ElapsedMinutes)
}

func TestFrameBarLength(t *testing.T) {
	for elapsed := time.Duration(0); elapsed <= time.Minute; elapsed += 3 * time.Second {
		frame := NewFrame(elapsed, time.Minute, time.Minute, DefaultWidth)
		filled, empty := frame.Bar()
		assert.Len(t, filled+empty, DefaultWidth)
	}
}
