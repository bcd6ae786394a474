package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/alert"
	"pomodoro/internal/config"
	"pomodoro/internal/core/progress"
	"pomodoro/internal/core/timekeeper"
	"pomodoro/internal/prompt"
	"pomodoro/internal/ui/styles"
)

func runTimer(cmd *cobra.Command, d deps) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)
	out := cmd.OutOrStdout()
	theme := styles.New(out, cfg.NoColor)

	if !cfg.AllowMultiple {
		guard, err := d.acquireGuard(appName)
		if err != nil {
			return err
		}
		defer func() {
			_ = guard.Release()
		}()
	}

	reader, err := prompt.NewLineReader(cmd.InOrStdin(), out)
	if err != nil {
		return err
	}
	params, err := prompt.New(reader, out, theme).RunParameters(presetFrom(cfg))
	_ = reader.Close()
	if err != nil {
		return err
	}

	for _, line := range params.Summary() {
		_, _ = fmt.Fprintln(out, theme.Summary.Render(line))
	}

	alerter, err := d.newAlerter(alert.Config{SoundFile: cfg.SoundFile, Hold: cfg.AlertHold}, logger)
	if err != nil {
		return fmt.Errorf("alert sound: %w", err)
	}
	defer alerter.Close()

	renderer := progress.New(out, theme, progress.Config{
		Width:        cfg.BarWidth,
		Interval:     cfg.TickInterval,
		MinuteLength: cfg.Minute,
	})
	keeper := timekeeper.New(out, theme, renderer, alerter, timekeeper.Config{MinuteLength: cfg.Minute})
	keeper.SetLogger(logger)

	logger.Debug("run starting",
		"work_minutes", params.WorkMinutes,
		"break_minutes", params.BreakMinutes,
		"iterations", params.Iterations,
		"minute", cfg.Minute)
	started := time.Now()

	runErr := keeper.Run(ctx, params)
	keeper.Close()

	logger.Debug("run finished", "alerts", keeper.Alerts(), "elapsed", time.Since(started).Round(time.Millisecond), "error", runErr)
	return runErr
}

func presetFrom(cfg *config.Config) prompt.Preset {
	return prompt.Preset{
		WorkMinutes:  cfg.Work,
		BreakMinutes: cfg.Break,
		Iterations:   cfg.Iterations,
	}
}
