package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/alert"
	"pomodoro/internal/config"
	"pomodoro/internal/platform"
	"pomodoro/internal/prompt"
)

type fakeAlerter struct {
	mu     sync.Mutex
	emits  int
	closed bool
}

func (alerter *fakeAlerter) Emit(context.Context) error {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	alerter.emits++
	return nil
}

func (alerter *fakeAlerter) Close() {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	alerter.closed = true
}

func (alerter *fakeAlerter) count() int {
	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	return alerter.emits
}

type harness struct {
	alerter      *fakeAlerter
	alerterCalls int
	alertConfig  alert.Config
	guardCalls   int
	guardErr     error
	alerterErr   error
}

func (h *harness) deps() deps {
	return deps{
		loadDotEnv: func(string) error { return nil },
		newAlerter: func(cfg alert.Config, _ *slog.Logger) (Alerter, error) {
			h.alerterCalls++
			h.alertConfig = cfg
			if h.alerterErr != nil {
				return nil, h.alerterErr
			}
			return h.alerter, nil
		},
		acquireGuard: func(string) (*platform.InstanceGuard, error) {
			h.guardCalls++
			if h.guardErr != nil {
				return nil, h.guardErr
			}
			return nil, nil
		},
	}
}

// newHarness clears the environment Load reads so host settings do not leak in.
func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{
		config.SoundFileEnv,
		"POMODORO_SOUND_FILE", "POMODORO_ALERT_HOLD", "POMODORO_TICK_INTERVAL",
		"POMODORO_BAR_WIDTH", "POMODORO_MINUTE", "POMODORO_NO_COLOR", "POMODORO_VERBOSE",
		"POMODORO_LOG_LEVEL", "POMODORO_ALLOW_MULTIPLE", "POMODORO_WORK", "POMODORO_BREAK",
		"POMODORO_ITERATIONS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return &harness{alerter: &fakeAlerter{}}
}

func execute(ctx context.Context, t *testing.T, h *harness, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(h.deps())
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

var fastArgs = []string{"--no-color", "--minute=1ms", "--tick-interval=1ms", "--alert-hold=0s"}

func TestRootRunsFullSession(t *testing.T) {
	h := newHarness(t)

	out, _, err := execute(context.Background(), t, h, "25\n5\n2\n", fastArgs...)
	require.NoError(t, err)

	assert.Equal(t, 4, h.alerter.count())
	assert.True(t, h.alerter.closed)
	assert.Equal(t, 2, strings.Count(out, "Pomodoro iteration"))
	assert.Contains(t, out, "Work session duration: 25 minutes.")
	assert.Contains(t, out, "Break session duration: 5 minutes.")
	assert.Contains(t, out, "Number of pomodoro iterations: 2.")
	assert.Contains(t, out, "Pomodoro iteration 2 / 2 complete!")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "Good work! All pomodoro sessions finished!"))
	assert.Equal(t, 1, h.guardCalls)
}

func TestRootLogsCompletedAlerts(t *testing.T) {
	h := newHarness(t)

	args := append([]string{"--verbose"}, fastArgs...)
	_, logs, err := execute(context.Background(), t, h, "3\n1\n3\n", args...)
	require.NoError(t, err)

	assert.Equal(t, 6, h.alerter.count())
	assert.Contains(t, logs, "run finished")
	assert.Contains(t, logs, "alerts=6")
}

func TestRootInvalidWorkDuration(t *testing.T) {
	h := newHarness(t)

	out, _, err := execute(context.Background(), t, h, "fail\n5\n2\n", fastArgs...)
	require.Error(t, err)

	var inputErr *prompt.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Invalid work session duration", inputErr.Error())
	assert.Contains(t, out, "Please enter a valid number")
	assert.NotContains(t, out, "Starting")
	assert.Zero(t, h.alerterCalls)
}

func TestRootInvalidIterations(t *testing.T) {
	h := newHarness(t)

	_, _, err := execute(context.Background(), t, h, "25\n5\n-1\n", fastArgs...)
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid number of pomodoro iterations")
	assert.Zero(t, h.alerterCalls)
}

func TestRootPresetFlagsSkipPrompts(t *testing.T) {
	h := newHarness(t)

	args := append([]string{"--work", "1", "--break", "0", "--iterations", "1"}, fastArgs...)
	out, _, err := execute(context.Background(), t, h, "", args...)
	require.NoError(t, err)

	assert.NotContains(t, out, "How long would you like")
	assert.Contains(t, out, "Break session duration: 0 minutes.")
	assert.Equal(t, 2, h.alerter.count())
}

func TestRootZeroIterations(t *testing.T) {
	h := newHarness(t)

	out, _, err := execute(context.Background(), t, h, "25\n5\n0\n", fastArgs...)
	require.NoError(t, err)

	assert.Zero(t, h.alerter.count())
	assert.NotContains(t, out, "Starting")
	assert.Contains(t, out, "Good work! All pomodoro sessions finished!")
}

func TestRootPassesSoundFileToAlerter(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SOUND_FILE_LOCATION", "beep-01a.mp3")

	args := append([]string{"--iterations", "0", "--work", "1", "--break", "1"}, fastArgs...)
	_, _, err := execute(context.Background(), t, h, "", args...)
	require.NoError(t, err)

	assert.Equal(t, "beep-01a.mp3", h.alertConfig.SoundFile)
	assert.Zero(t, h.alertConfig.Hold)
}

func TestRootAlerterError(t *testing.T) {
	h := newHarness(t)
	h.alerterErr = alert.ErrNoSoundFile

	out, _, err := execute(context.Background(), t, h, "25\n5\n2\n", fastArgs...)
	require.Error(t, err)

	assert.ErrorIs(t, err, alert.ErrNoSoundFile)
	assert.NotContains(t, out, "Starting")
}

func TestRootSingleInstance(t *testing.T) {
	h := newHarness(t)
	h.guardErr = platform.ErrAlreadyRunning

	out, _, err := execute(context.Background(), t, h, "25\n5\n2\n", fastArgs...)
	require.ErrorIs(t, err, platform.ErrAlreadyRunning)
	assert.NotContains(t, out, "How long")

	h = newHarness(t)
	h.guardErr = platform.ErrAlreadyRunning
	args := append([]string{"--allow-multiple"}, fastArgs...)
	_, _, err = execute(context.Background(), t, h, "1\n1\n1\n", args...)
	require.NoError(t, err)
	assert.Zero(t, h.guardCalls)
}

func TestRootCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := execute(ctx, t, h, "25\n5\n2\n", fastArgs...)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, h.alerter.count())
}

func TestRootRejectsArgs(t *testing.T) {
	h := newHarness(t)

	_, _, err := execute(context.Background(), t, h, "", "extra")
	require.Error(t, err)
}

func TestRootConfigError(t *testing.T) {
	h := newHarness(t)

	_, _, err := execute(context.Background(), t, h, "", "--bar-width=5")
	require.Error(t, err)
	assert.Zero(t, h.alerterCalls)
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "input error",
			err:  &prompt.InputError{Field: prompt.BreakField, Input: "x", Err: errors.New("bad")},
			want: "Problem parsing arguments: Invalid break session duration\n",
		},
		{
			name: "interrupted",
			err:  context.Canceled,
			want: "Interrupted.\n",
		},
		{
			name: "prompt interrupted",
			err:  prompt.ErrInterrupted,
			want: "Interrupted.\n",
		},
		{
			name: "other",
			err:  alert.ErrNoSoundFile,
			want: "Error: " + alert.ErrNoSoundFile.Error() + "\n",
		},
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
