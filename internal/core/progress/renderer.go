// Package progress draws the self-overwriting progress line for a timed phase.
package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"pomodoro/internal/ui/styles"
)

// Config contains drawing options for Renderer.
type Config struct {
	Width        int
	Interval     time.Duration
	MinuteLength time.Duration
}

// Renderer redraws a progress line until a phase's duration has elapsed.
// It never signals anyone: it stops on its own once the elapsed time reaches the
// duration it was given, or when its context ends.
type Renderer struct {
	out    io.Writer
	styles *styles.Styles
	config Config
}

// New creates a Renderer writing to out.
func New(out io.Writer, theme *styles.Styles, config Config) *Renderer {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MinuteLength <= 0 {
		config.MinuteLength = time.Minute
	}
	if theme == nil {
		theme = styles.New(out, true)
	}
	return &Renderer{
		out:    out,
		styles: theme,
		config: config,
	}
}

// Run draws the bar for the phase that started at start and lasts duration.
// The final frame is followed by a newline. A non-positive duration draws nothing.
func (renderer *Renderer) Run(ctx context.Context, start time.Time, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	ticker := time.NewTicker(renderer.config.Interval)
	defer ticker.Stop()

	for {
		elapsed := time.Since(start)
		if elapsed >= duration {
			if err := renderer.draw(NewFrame(duration, duration, renderer.config.MinuteLength, renderer.config.Width)); err != nil {
				return err
			}
			return renderer.finish()
		}

		if err := renderer.draw(NewFrame(elapsed, duration, renderer.config.MinuteLength, renderer.config.Width)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return renderer.finish()
		case <-ticker.C:
		}
	}
}

func (renderer *Renderer) draw(frame Frame) error {
	filled, empty := frame.Bar()
	line := "\r[" + renderer.styles.BarFilled.Render(filled) + renderer.styles.BarEmpty.Render(empty) + "]   " +
		renderer.styles.BarLabel.Render(frame.Label())
	if _, err := io.WriteString(renderer.out, line); err != nil {
		return fmt.Errorf("draw progress: %w", err)
	}
	return nil
}

func (renderer *Renderer) finish() error {
	if _, err := io.WriteString(renderer.out, "\n"); err != nil {
		return fmt.Errorf("finish progress: %w", err)
	}
	return nil
}
