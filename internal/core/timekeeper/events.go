package timekeeper

import (
	"time"

	"pomodoro/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventPhaseStarted      EventType = "phase_started"
	EventPhaseElapsed      EventType = "phase_elapsed"
	EventAlertEmitted      EventType = "alert_emitted"
	EventIterationComplete EventType = "iteration_complete"
	EventRunComplete       EventType = "run_complete"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type       EventType
	Phase      model.Phase
	Iteration  uint32
	Iterations uint32
	At         time.Time
}
