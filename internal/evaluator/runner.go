package evaluator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/tliron/commonlog"

	"glide/internal/ast"
	"glide/internal/diag"
	"glide/internal/limits"
	"glide/internal/object"
	"glide/internal/parser"
	"glide/internal/stackops"
)

var log = commonlog.GetLogger("glide.runtime")

// Printer receives every value a print statement produces.
type Printer interface {
	Print(value object.Object) error
}

// InputSource blocks until a line of input is available. An error means the
// request was cancelled.
type InputSource interface {
	RequestInput() (string, error)
}

// ModuleSource returns the source text of a module by name. A missing
// module is reported with an error wrapping module.ErrNotFound.
type ModuleSource interface {
	LoadModule(name string) (string, error)
}

// modulePather is implemented by module sources that can name the file
// behind a use name. Different spellings of one file then load it once.
type modulePather interface {
	Path(name string) (string, error)
}

const DefaultMaxRecursion = 1000

type function struct {
	def  *ast.Def
	file string
}

// Interpreter owns all state of one running program. It is not safe for
// concurrent use; separate runs need separate interpreters.
type Interpreter struct {
	out  Printer
	in   InputSource
	mods ModuleSource

	vars    map[string][]*Variable
	locals  map[int][]*Variable
	depth   int
	frames  []frame
	funcs   map[string]*function
	aliases map[string][]ast.Item
	loaded  map[string]bool

	warnings []diag.Diagnostic

	maxRecursion int
	budget       *limits.Budget
	start        time.Time
	env          *stackops.Env
	file         string
}

// New builds an interpreter. in and mods may be nil, in which case reading
// input or using a module is a runtime error.
func New(out Printer, in InputSource, mods ModuleSource) *Interpreter {
	if out == nil {
		out = discard{}
	}
	it := &Interpreter{
		out:          out,
		in:           in,
		mods:         mods,
		maxRecursion: DefaultMaxRecursion,
		env:          &stackops.Env{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))},
		file:         "<main>",
	}
	it.reset()
	return it
}

type discard struct{}

func (discard) Print(object.Object) error { return nil }

func (it *Interpreter) SetMaxRecursion(max int) {
	if max < 0 {
		max = 0
	}
	it.maxRecursion = max
}

// SetMaxSteps bounds loop iterations plus calls per run. Zero is unlimited.
func (it *Interpreter) SetMaxSteps(max int64) {
	it.budget = limits.NewBudget(max)
}

// SetFile names the source shown in stack traces.
func (it *Interpreter) SetFile(name string) {
	it.file = name
}

// SetSeed makes rand deterministic.
func (it *Interpreter) SetSeed(seed int64) {
	it.env.Rand = rand.New(rand.NewSource(seed))
}

// Warnings returns the non-fatal diagnostics of the current run.
func (it *Interpreter) Warnings() []diag.Diagnostic { return it.warnings }

// Aliases returns the replace operators defined so far.
func (it *Interpreter) Aliases() map[string][]ast.Item { return it.aliases }

// Lookup returns the value of a visible variable.
func (it *Interpreter) Lookup(name string) (object.Object, bool) {
	v := it.lookup(name)
	if v == nil || v.get != nil || v.Value == nil {
		return nil, false
	}
	return v.Value, true
}

func (it *Interpreter) reset() {
	it.vars = map[string][]*Variable{}
	it.locals = map[int][]*Variable{}
	it.depth = 0
	it.frames = nil
	it.funcs = map[string]*function{}
	it.aliases = map[string][]ast.Item{}
	it.loaded = map[string]bool{}
	it.warnings = nil
	it.budget.Reset()
	it.start = time.Now()
	it.registerInstances()
}

// Run parses and executes src from a clean state.
func (it *Interpreter) Run(src string) error {
	it.reset()
	return it.Exec(src)
}

// RunProgram executes an already parsed program from a clean state.
func (it *Interpreter) RunProgram(prog *ast.Program) error {
	it.reset()
	return it.execProgram(prog)
}

// Exec parses and executes src on top of the current state, the way the
// REPL runs each entry.
func (it *Interpreter) Exec(src string) error {
	prog, p, err := parser.Parse(src, it.aliases)
	if p != nil {
		it.warnings = append(it.warnings, p.Warnings()...)
	}
	if err != nil {
		return it.inFile(err)
	}
	return it.execProgram(prog)
}

func (it *Interpreter) execProgram(prog *ast.Program) error {
	if err := Check(prog); err != nil {
		return it.inFile(err)
	}
	it.hoist(prog)
	_, err := it.execStatements(prog.Body.Statements)
	if it.budget != nil {
		log.Debugf("%s: %d of %d steps used", it.file, it.budget.Used(), it.budget.Limit())
	}
	return err
}

// hoist registers the top-level functions so they can be called before
// their definition.
func (it *Interpreter) hoist(prog *ast.Program) {
	for _, stmt := range prog.Body.Statements {
		if def, ok := stmt.(*ast.Def); ok {
			it.funcs[def.Name] = &function{def: def, file: it.file}
		}
	}
}

// inFile attaches the current file to a parse or compile error.
func (it *Interpreter) inFile(err error) error {
	var de *diag.Error
	if errors.As(err, &de) && len(de.Frames) == 0 {
		de.Frames = []diag.Frame{{Func: "<main>", File: it.file, Line: de.Line, Col: de.Col}}
	}
	return err
}

func (it *Interpreter) warn(line, col int, code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	it.warnings = append(it.warnings, diag.Diagnostic{
		Code:     code,
		Message:  msg,
		Severity: diag.SeverityWarning,
		Range:    diag.Range{Line: line, Col: col, Length: 1},
	})
	log.Warningf("%s:%d: %s", it.file, line, msg)
}
