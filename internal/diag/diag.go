package diag

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

const (
	CodeLex      = "GL0001"
	CodeParse    = "GP0001"
	CodeCompile  = "GC0001"
	CodeRuntime  = "GR0001"
	CodeGlobal   = "GW0001" // redundant global
	CodeReimport = "GW0002" // module already loaded
)

type Range struct {
	Line   int // 1-based
	Col    int // 1-based
	Length int // best-effort; can be 1 if unknown
}

type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Range    Range
}

func (d Diagnostic) Format(path string) string {
	if d.Code != "" {
		return fmt.Sprintf("%s:%d:%d: %s %s: %s", path, d.Range.Line, d.Range.Col, d.Severity.String(), d.Code, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, d.Range.Line, d.Range.Col, d.Severity.String(), d.Message)
}

// Phase names the stage a fatal error aborted.
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseCompile Phase = "compile"
	PhaseRuntime Phase = "runtime"
)

// Frame is one entry of a runtime stack trace.
type Frame struct {
	Func string
	File string
	Line int
	Col  int
}

// Error is a fatal error carrying its source position.
type Error struct {
	Phase   Phase
	Code    string
	Message string
	Line    int
	Col     int
	Frames  []Frame
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error at line %d: %s", e.Phase, e.Line, e.Message)
}

// Diagnostic converts e for editors and the check command.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Code:     e.Code,
		Message:  e.Message,
		Severity: SeverityError,
		Range:    Range{Line: e.Line, Col: e.Col, Length: 1},
	}
}

// Stack renders the frames innermost first.
func (e *Error) Stack() string {
	var out strings.Builder
	out.WriteString("error: " + e.Message + "\nstack trace:\n")
	for i := len(e.Frames) - 1; i >= 0; i-- {
		f := e.Frames[i]
		name := f.Func
		if name == "" {
			name = "<anon>"
		}
		file := f.File
		if file == "" {
			file = "<unknown>"
		}
		fmt.Fprintf(&out, "  at %s (%s:%d:%d)\n", name, file, f.Line, f.Col)
	}
	return out.String()
}
