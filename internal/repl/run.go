package repl

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LineReader is the part of *readline.Instance the loop uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewReadline creates a line editor. The prompt is shown only on a terminal.
func NewReadline(prompt, historyFile string) (*readline.Instance, error) {
	if !Interactive() {
		prompt = ""
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "repl: init readline")
	}
	return rl, nil
}

// Run reads statements from rl until EOF, .quit or ctx is cancelled.
// A statement may span lines; it runs once its parentheses balance.
// Errors are printed and the loop continues.
func (s *Session) Run(ctx context.Context, rl LineReader, prompt string) error {
	var buf strings.Builder
	cont := strings.Repeat(" ", max(len(prompt)-2, 0)) + ". "

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return errors.Wrap(err, "repl: read line")
		}

		if buf.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ".") {
				more, err := s.Command(trimmed)
				if err != nil {
					s.PrintError(err)
				}
				if !more {
					return nil
				}
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
		if depth(buf.String()) > 0 {
			rl.SetPrompt(cont)
			continue
		}

		src := buf.String()
		buf.Reset()
		rl.SetPrompt(prompt)
		if err := s.Exec(ctx, "<stdin>", src); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Debug("statement failed", zap.Error(err))
			s.PrintError(err)
		}
	}
}

// depth returns the number of unclosed parentheses in src, ignoring
// comments.
func depth(src string) int {
	n := 0
	comment := false
	for _, r := range src {
		switch {
		case comment:
			comment = r != '\n'
		case r == ';':
			comment = true
		case r == '(':
			n++
		case r == ')':
			n--
		}
	}
	return n
}
