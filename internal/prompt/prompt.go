// Package prompt asks the user for the run parameters of a pomodoro run.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/styles"
)

// Field describes one of the three questions.
type Field struct {
	Name     string
	Question string
}

var (
	WorkField = Field{
		Name:     "work session duration",
		Question: "How long would you like each work session to be? (in minutes)",
	}
	BreakField = Field{
		Name:     "break session duration",
		Question: "How long would you like each break session to be? (in minutes)",
	}
	IterationsField = Field{
		Name:     "number of pomodoro iterations",
		Question: "How many iterations of the pomodoro technique would you like to do?",
	}
)

// InputError reports an answer that is not a non-negative integer.
type InputError struct {
	Field Field
	Input string
	Err   error
}

func (err *InputError) Error() string {
	return "Invalid " + err.Field.Name
}

func (err *InputError) Unwrap() error {
	return err.Err
}

// Preset holds answers supplied ahead of time. Nil fields are asked for.
type Preset struct {
	WorkMinutes  *uint32
	BreakMinutes *uint32
	Iterations   *uint32
}

// Provider asks the questions on out and reads the answers from reader.
type Provider struct {
	reader LineReader
	out    io.Writer
	styles *styles.Styles
}

// New creates a Provider.
func New(reader LineReader, out io.Writer, theme *styles.Styles) *Provider {
	if theme == nil {
		theme = styles.New(out, true)
	}
	return &Provider{
		reader: reader,
		out:    out,
		styles: theme,
	}
}

// RunParameters asks for every value missing from preset, in order, and stops at
// the first invalid answer.
func (provider *Provider) RunParameters(preset Preset) (model.RunParameters, error) {
	work, err := provider.value(WorkField, preset.WorkMinutes)
	if err != nil {
		return model.RunParameters{}, err
	}
	rest, err := provider.value(BreakField, preset.BreakMinutes)
	if err != nil {
		return model.RunParameters{}, err
	}
	iterations, err := provider.value(IterationsField, preset.Iterations)
	if err != nil {
		return model.RunParameters{}, err
	}

	return model.RunParameters{
		WorkMinutes:  work,
		BreakMinutes: rest,
		Iterations:   iterations,
	}, nil
}

func (provider *Provider) value(field Field, preset *uint32) (uint32, error) {
	if preset != nil {
		return *preset, nil
	}

	_, _ = fmt.Fprintln(provider.out, provider.styles.Prompt.Render(field.Question))
	line, err := provider.reader.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read %s: %w", field.Name, err)
	}

	value, parseErr := Parse(field, line)
	if parseErr != nil {
		_, _ = fmt.Fprintln(provider.out, provider.styles.Error.Render("Please enter a valid number"))
		return 0, parseErr
	}
	return value, nil
}

// Parse converts a trimmed answer to a uint32. A single leading '+' is allowed.
func Parse(field Field, input string) (uint32, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(input), "+")
	value, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, &InputError{Field: field, Input: input, Err: err}
	}
	return uint32(value), nil
}
