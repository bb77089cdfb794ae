package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ScenarioReader reads transaction scenarios from an input stream with
// context-aware cancellation. A scenario is a block of lines terminated by a
// blank line or EOF, since journal entries span multiple lines.
type ScenarioReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewScenarioReader wraps the given input stream.
func NewScenarioReader(reader io.Reader) *ScenarioReader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &ScenarioReader{reader: bufio.NewReader(reader)}
}

// ReadLine reads a single trimmed line, respecting context cancellation.
func (r *ScenarioReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.readString(ctx, '\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadScenario reads lines until a blank line or EOF and returns them as one
// scenario. io.EOF with collected text returns the text; io.EOF with nothing
// collected returns io.EOF.
func (r *ScenarioReader) ReadScenario(ctx context.Context) (string, error) {
	var lines []string

	for {
		line, err := r.readString(ctx, '\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, trimmed)
				}
				if len(lines) > 0 {
					return strings.Join(lines, "\n"), nil
				}
				return "", io.EOF
			}
			return "", err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			// Leading blank lines are skipped.
			continue
		}
		lines = append(lines, trimmed)
	}
}

// readString performs a context-aware blocking read. On cancellation the
// reading goroutine finishes in the background but the caller returns
// immediately.
func (r *ScenarioReader) readString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
