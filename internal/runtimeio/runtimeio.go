package runtimeio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lmorg/readline"
	"golang.org/x/term"

	"glide/internal/object"
)

var ErrInputUnavailable = errors.New("input was cancelled or is not available")

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Console is the standard print sink and input source. Print writes one
// value per line; RequestInput blocks for one line.
type Console struct {
	Out    io.Writer
	Prompt string

	in          *bufio.Reader
	interactive bool
}

// NewConsole reads from in. A nil in means os.Stdin, with line editing when
// it is a terminal.
func NewConsole(out io.Writer, in io.Reader) *Console {
	c := &Console{Out: out, Prompt: "> "}
	if in == nil {
		in = os.Stdin
		c.interactive = IsInteractive()
	}
	c.in = bufio.NewReader(in)
	return c
}

// Interactive reports whether input comes from a terminal with line editing,
// which renders its own prompt.
func (c *Console) Interactive() bool { return c.interactive }

func (c *Console) Print(v object.Object) error {
	_, err := fmt.Fprintln(c.Out, v.Inspect())
	return err
}

func (c *Console) RequestInput() (string, error) {
	if c.interactive {
		rline := readline.NewInstance()
		rline.SetPrompt(c.Prompt)
		line, err := rline.Readline()
		if err != nil {
			return "", ErrInputUnavailable
		}
		return line, nil
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputUnavailable
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
