package timekeeper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/styles"
)

// ProgressRenderer draws a phase's progress until its duration elapses.
type ProgressRenderer interface {
	Run(ctx context.Context, start time.Time, duration time.Duration) error
}

// Alerter produces the audible cue at a phase boundary.
type Alerter interface {
	Emit(ctx context.Context) error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	MinuteLength time.Duration
}

// TimeKeeper runs the alternating work and break phases of a pomodoro run.
type TimeKeeper struct {
	mu       sync.Mutex
	out      io.Writer
	styles   *styles.Styles
	renderer ProgressRenderer
	alerter  Alerter
	logger   *slog.Logger
	options  Config
	events   []chan Event
	alerts   uint32
}

// New creates a TimeKeeper writing announcements to out.
func New(out io.Writer, theme *styles.Styles, renderer ProgressRenderer, alerter Alerter, options Config) *TimeKeeper {
	if options.MinuteLength <= 0 {
		options.MinuteLength = time.Minute
	}
	if theme == nil {
		theme = styles.New(out, true)
	}
	return &TimeKeeper{
		out:      out,
		styles:   theme,
		renderer: renderer,
		alerter:  alerter,
		logger:   slog.New(slog.DiscardHandler),
		options:  options,
	}
}

// SetLogger injects a logger.
func (keeper *TimeKeeper) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.logger = logger
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Alerts returns how many alerts have completed. Unlike the event stream it
// never drops a count.
func (keeper *TimeKeeper) Alerts() uint32 {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.alerts
}

// Close closes every observer channel.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Run executes params.Iterations work/break pairs and returns once the run is
// complete. It returns ctx.Err() if the run is interrupted and the alerter's
// error if a cue cannot be played.
func (keeper *TimeKeeper) Run(ctx context.Context, params model.RunParameters) error {
	total := params.Iterations
	for index := uint32(1); index <= total; index++ {
		for _, kind := range []model.PhaseKind{model.PhaseWork, model.PhaseBreak} {
			phase := params.Phase(kind, index, keeper.options.MinuteLength)
			if err := keeper.runPhase(ctx, phase, total); err != nil {
				return err
			}
		}

		keeper.announce(keeper.styles.Complete.Render(fmt.Sprintf("Pomodoro iteration %d / %d complete!", index, total)))
		keeper.emit(Event{
			Type:       EventIterationComplete,
			Iteration:  index,
			Iterations: total,
			At:         time.Now(),
		})
	}

	keeper.announce(keeper.styles.Finished.Render("Good work! All pomodoro sessions finished!"))
	keeper.emit(Event{
		Type:       EventRunComplete,
		Iterations: total,
		At:         time.Now(),
	})
	return nil
}

func (keeper *TimeKeeper) runPhase(ctx context.Context, phase model.Phase, total uint32) error {
	keeper.announce(keeper.styles.Start.Render(
		fmt.Sprintf("Starting %s session %d / %d", phase.Kind, phase.Index, total)))

	start := time.Now()
	keeper.emit(Event{
		Type:       EventPhaseStarted,
		Phase:      phase,
		Iteration:  phase.Index,
		Iterations: total,
		At:         start,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	if phase.Duration > 0 {
		group.Go(func() error {
			return keeper.renderer.Run(groupCtx, start, phase.Duration)
		})
	}

	elapsed := sleepUntil(ctx, start.Add(phase.Duration))
	if err := group.Wait(); err != nil {
		keeper.logger.Warn("progress renderer failed", "phase", phase.Kind, "error", err)
	}
	if !elapsed {
		return ctx.Err()
	}

	keeper.emit(Event{
		Type:       EventPhaseElapsed,
		Phase:      phase,
		Iteration:  phase.Index,
		Iterations: total,
		At:         time.Now(),
	})

	keeper.announce(keeper.styles.Complete.Render(fmt.Sprintf("%s session complete!", phase.Kind.Title())))
	if err := keeper.alerter.Emit(ctx); err != nil {
		return fmt.Errorf("alert after %s session %d: %w", phase.Kind, phase.Index, err)
	}
	// Emit returns early on cancellation; that cue did not complete.
	if err := ctx.Err(); err != nil {
		return err
	}
	keeper.mu.Lock()
	keeper.alerts++
	keeper.mu.Unlock()
	keeper.emit(Event{
		Type:       EventAlertEmitted,
		Phase:      phase,
		Iteration:  phase.Index,
		Iterations: total,
		At:         time.Now(),
	})
	return nil
}

func (keeper *TimeKeeper) announce(line string) {
	if _, err := fmt.Fprintln(keeper.out, line); err != nil {
		keeper.logger.Warn("write announcement", "error", err)
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	events := append([]chan Event(nil), keeper.events...)
	logger := keeper.logger
	keeper.mu.Unlock()

	logger.Debug("timekeeper event",
		"type", event.Type,
		"phase", event.Phase.Kind,
		"iteration", event.Iteration,
		"iterations", event.Iterations)

	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func sleepUntil(ctx context.Context, deadline time.Time) bool {
	duration := time.Until(deadline)
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
