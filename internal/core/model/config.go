package model

import (
	"fmt"
	"math"
	"time"
)

// PhaseKind identifies whether a phase is focused work or a rest.
type PhaseKind string

const (
	PhaseWork  PhaseKind = "work"
	PhaseBreak PhaseKind = "break"
)

// Title returns the capitalized label used in announcements.
func (kind PhaseKind) Title() string {
	switch kind {
	case PhaseWork:
		return "Work"
	case PhaseBreak:
		return "Break"
	default:
		return string(kind)
	}
}

// RunParameters holds the validated input for a single pomodoro run.
// A run never mutates its parameters.
type RunParameters struct {
	WorkMinutes  uint32
	BreakMinutes uint32
	Iterations   uint32
}

// WorkDuration converts the work length to wall-clock time using minuteLength
// as the length of one minute.
func (params RunParameters) WorkDuration(minuteLength time.Duration) time.Duration {
	return minutesToDuration(params.WorkMinutes, minuteLength)
}

// BreakDuration converts the break length to wall-clock time.
func (params RunParameters) BreakDuration(minuteLength time.Duration) time.Duration {
	return minutesToDuration(params.BreakMinutes, minuteLength)
}

// minutesToDuration saturates at the longest representable duration.
func minutesToDuration(minutes uint32, minuteLength time.Duration) time.Duration {
	if minutes == 0 || minuteLength <= 0 {
		return 0
	}
	if int64(minutes) > math.MaxInt64/int64(minuteLength) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(minutes) * minuteLength
}

// Phase returns the phase of the given kind for a 1-based iteration index.
func (params RunParameters) Phase(kind PhaseKind, index uint32, minuteLength time.Duration) Phase {
	duration := params.WorkDuration(minuteLength)
	if kind == PhaseBreak {
		duration = params.BreakDuration(minuteLength)
	}
	return Phase{
		Kind:     kind,
		Duration: duration,
		Index:    index,
	}
}

// Summary returns the configuration lines printed before a run starts.
func (params RunParameters) Summary() []string {
	return []string{
		fmt.Sprintf("Work session duration: %d minutes.", params.WorkMinutes),
		fmt.Sprintf("Break session duration: %d minutes.", params.BreakMinutes),
		fmt.Sprintf("Number of pomodoro iterations: %d.", params.Iterations),
	}
}

// Phase is one timed interval inside an iteration.
type Phase struct {
	Kind     PhaseKind
	Duration time.Duration
	Index    uint32
}
