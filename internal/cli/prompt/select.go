// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/necolo/rulink/internal/conflict"
	"github.com/necolo/rulink/internal/errors"
)

// ErrNoAnswer is returned when input ends before a line is read.
var ErrNoAnswer = errors.New("no answer")

// Selector asks numbered questions on a terminal. It implements
// conflict.Asker.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

var _ conflict.Asker = (*Selector)(nil)

// Ask prints the candidates and a final skip option, then reads one line.
// The answer is not validated here and the question is never repeated.
func (s *Selector) Ask(q conflict.Question) (string, error) {
	fmt.Fprintf(s.writer, "\nMultiple rules found for %s:\n", q.Filename)
	for i, c := range q.Candidates {
		fmt.Fprintf(s.writer, "  %d. %s\n", i+1, c.Label())
	}
	fmt.Fprintf(s.writer, "  %d. Skip\n", q.SkipIndex)
	fmt.Fprintf(s.writer, "Select option (1-%d): ", q.SkipIndex)

	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.writer)
			return "", ErrNoAnswer
		}
		return "", errors.Wrap(err, "reading selection")
	}

	answer := strings.TrimSpace(line)
	if _, ok := q.Choose(answer); !ok {
		fmt.Fprintf(s.writer, "%s Skipped %s\n", color.YellowString("⚠"), q.Filename)
	}
	return answer, nil
}
