package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrInterrupted is returned when the user presses Ctrl-C at a prompt.
var ErrInterrupted = errors.New("input interrupted")

// LineReader reads one answer per call.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// NewLineReader returns a readline-backed reader when in is a terminal and a
// plain line reader otherwise.
func NewLineReader(in io.Reader, out io.Writer) (LineReader, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return newTerminalReader(file, out)
	}
	return NewScanReader(in), nil
}

type terminalReader struct {
	instance *readline.Instance
}

func newTerminalReader(in *os.File, out io.Writer) (*terminalReader, error) {
	instance, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		Stdin:                  in,
		Stdout:                 out,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize prompt: %w", err)
	}
	return &terminalReader{instance: instance}, nil
}

func (reader *terminalReader) ReadLine() (string, error) {
	line, err := reader.instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	return line, err
}

func (reader *terminalReader) Close() error {
	return reader.instance.Close()
}

// ScanReader reads newline-terminated answers from a non-interactive stream.
type ScanReader struct {
	reader *bufio.Reader
}

// NewScanReader wraps in.
func NewScanReader(in io.Reader) *ScanReader {
	return &ScanReader{reader: bufio.NewReader(in)}
}

// ReadLine returns the next line without its terminator. A final line without a
// newline is returned as is; io.EOF is returned only when nothing was read.
func (reader *ScanReader) ReadLine() (string, error) {
	line, err := reader.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close is a no-op; the underlying stream belongs to the caller.
func (reader *ScanReader) Close() error {
	return nil
}
