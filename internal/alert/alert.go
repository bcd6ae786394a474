// Package alert plays the audible cue that marks the end of a phase.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultHold is how long Emit waits for the cue before returning.
const DefaultHold = 5 * time.Second

var (
	// ErrNoSoundFile indicates no cue path was configured.
	ErrNoSoundFile = errors.New("no alert sound file configured (set SOUND_FILE_LOCATION or --sound-file)")
	// ErrUnsupportedFormat indicates the cue's extension has no decoder.
	ErrUnsupportedFormat = errors.New("unsupported alert sound format")
)

// Config contains the alert settings.
type Config struct {
	SoundFile string
	Hold      time.Duration
}

// Emitter plays a preloaded cue on the default audio device.
type Emitter struct {
	cue    *beep.Buffer
	hold   time.Duration
	play   func(...beep.Streamer)
	logger *slog.Logger
}

// New loads the cue named by config and opens the audio device.
// Any failure is returned: a run without audible phase boundaries is not useful.
func New(config Config, logger *slog.Logger) (*Emitter, error) {
	cue, err := LoadCue(config.SoundFile)
	if err != nil {
		return nil, err
	}

	format := cue.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initialize audio device: %w", err)
	}

	return newEmitter(cue, config, speaker.Play, logger), nil
}

func newEmitter(cue *beep.Buffer, config Config, play func(...beep.Streamer), logger *slog.Logger) *Emitter {
	if config.Hold < 0 {
		config.Hold = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Emitter{
		cue:    cue,
		hold:   config.Hold,
		play:   play,
		logger: logger,
	}
}

// Emit starts the cue and returns when it has finished playing, when the hold
// window elapses, or when ctx ends, whichever comes first. Playback may continue
// in the background after Emit returns.
func (emitter *Emitter) Emit(ctx context.Context) error {
	done := make(chan struct{})
	emitter.play(beep.Seq(
		emitter.cue.Streamer(0, emitter.cue.Len()),
		beep.Callback(func() { close(done) }),
	))
	emitter.logger.Debug("alert started", "samples", emitter.cue.Len(), "hold", emitter.hold)

	if emitter.hold == 0 {
		return nil
	}

	timer := time.NewTimer(emitter.hold)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
	return nil
}

// Close releases the audio device.
func (emitter *Emitter) Close() {
	speaker.Close()
}

// LoadCue opens and fully decodes the sound file at path.
func LoadCue(path string) (*beep.Buffer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoSoundFile
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alert sound: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		_ = file.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("decode alert sound %s: %w", path, err)
	}
	defer func() {
		_ = streamer.Close()
	}()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode alert sound %s: %w", path, err)
	}
	return buffer, nil
}
