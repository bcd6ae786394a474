package progress

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultWidth is the number of cells in the bar.
	DefaultWidth = 40
	// DefaultInterval is the redraw period.
	DefaultInterval = 100 * time.Millisecond

	filledCell = "="
	emptyCell  = " "
)

// Fraction returns elapsed/total clamped to [0, 1].
// A non-positive total counts as already complete.
func Fraction(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return clamp(float64(elapsed) / float64(total))
}

// FilledCells returns floor(fraction * width) after clamping fraction.
func FilledCells(fraction float64, width int) int {
	if width <= 0 {
		return 0
	}
	return int(math.Floor(clamp(fraction) * float64(width)))
}

// Frame is a single drawing of the bar.
type Frame struct {
	Filled         int
	Width          int
	ElapsedMinutes int64
	TotalMinutes   int64
}

// NewFrame computes the frame for elapsed time against total.
// Minutes are truncated using minuteLength as the length of one minute.
func NewFrame(elapsed, total, minuteLength time.Duration, width int) Frame {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}
	return Frame{
		Filled:         FilledCells(Fraction(elapsed, total), width),
		Width:          width,
		ElapsedMinutes: truncateMinutes(elapsed, minuteLength),
		TotalMinutes:   truncateMinutes(total, minuteLength),
	}
}

// Bar returns the filled and empty cell runs.
func (frame Frame) Bar() (string, string) {
	return strings.Repeat(filledCell, frame.Filled), strings.Repeat(emptyCell, frame.Width-frame.Filled)
}

// Label returns the elapsed/total minutes text.
func (frame Frame) Label() string {
	return fmt.Sprintf("%d mins / %d mins", frame.ElapsedMinutes, frame.TotalMinutes)
}

// String renders the frame without styling.
func (frame Frame) String() string {
	filled, empty := frame.Bar()
	return "[" + filled + empty + "]   " + frame.Label()
}

func truncateMinutes(value, minuteLength time.Duration) int64 {
	if minuteLength <= 0 {
		minuteLength = time.Minute
	}
	return int64(value / minuteLength)
}

func clamp(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
