package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"glide/internal/diag"
	"glide/internal/evaluator"
	"glide/internal/module"
	"glide/internal/runtimeio"
)

const (
	prompt1     = "glide> "
	prompt2     = "....> "
	inputPrompt = "? "
)

var log = commonlog.GetLogger("glide.repl")

type Limits struct {
	MaxRecursion int
	MaxSteps     int64
}

// Options configures one session. A nil In reads the terminal with line
// editing.
type Options struct {
	In          io.Reader
	Out         io.Writer
	StdRoot     string
	ModulePaths []string
	Limits      Limits
}

// promptedInput reads program input through the same console as the REPL.
type promptedInput struct {
	console *runtimeio.Console
}

func (p promptedInput) RequestInput() (string, error) {
	p.console.Prompt = inputPrompt
	return p.console.RequestInput()
}

func Start(opts Options) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	console := runtimeio.NewConsole(out, opts.In)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	stdPath := opts.StdRoot
	if stdPath == "" {
		stdPath = filepath.Join(cwd, "std")
	}
	resolver := module.NewResolver(stdPath, append([]string{cwd}, opts.ModulePaths...))
	loader := module.NewLoader(resolver, filepath.Join(cwd, "<repl>"))

	it := evaluator.New(console, promptedInput{console}, loader)
	it.SetFile("<repl>")
	it.SetMaxRecursion(opts.Limits.MaxRecursion)
	it.SetMaxSteps(opts.Limits.MaxSteps)

	fmt.Fprint(out, "GLIDE REPL (Ctrl+D to exit)\n")

	var buf strings.Builder
	var bal balance
	for {
		if buf.Len() == 0 {
			console.Prompt = prompt1
		} else {
			console.Prompt = prompt2
		}
		if !console.Interactive() {
			fmt.Fprint(out, console.Prompt)
		}

		line, err := console.RequestInput()
		if err != nil {
			if !errors.Is(err, runtimeio.ErrInputUnavailable) {
				log.Errorf("read failed: %s", err)
			}
			fmt.Fprint(out, "\n")
			return
		}

		trim := strings.TrimSpace(line)
		if buf.Len() == 0 && (trim == "quit" || trim == ".exit") {
			return
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		bal.update(line)
		if !bal.complete() {
			continue
		}

		src := buf.String()
		buf.Reset()
		bal = balance{}

		seen := len(it.Warnings())
		err = it.Exec(src)
		for _, w := range it.Warnings()[seen:] {
			fmt.Fprintln(out, w.Format("<repl>"))
		}
		if err != nil {
			printError(out, err)
		}
	}
}

func printError(out io.Writer, err error) {
	var de *diag.Error
	if errors.As(err, &de) && de.Phase == diag.PhaseRuntime {
		fmt.Fprint(out, de.Stack())
		return
	}
	fmt.Fprintln(out, err)
}

// balance tracks whether the buffered entry is still open: unclosed
// braces, parentheses, brackets or a block comment.
type balance struct {
	braces, parens, brackets int
	inComment                bool
}

func (b *balance) complete() bool {
	return b.braces <= 0 && b.parens <= 0 && b.brackets <= 0 && !b.inComment
}

func (b *balance) update(line string) {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]

		if b.inComment {
			if ch == '%' && i+1 < len(line) && line[i+1] == '#' {
				b.inComment = false
				i++
			}
			continue
		}

		if quote != 0 {
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '#':
			if i+1 < len(line) && line[i+1] == '%' {
				b.inComment = true
				i++
				continue
			}
			return
		case '"', '\'':
			quote = ch
		case '{':
			b.braces++
		case '}':
			b.braces--
		case '(':
			b.parens++
		case ')':
			b.parens--
		case '[':
			b.brackets++
		case ']':
			b.brackets--
		}
	}
}
