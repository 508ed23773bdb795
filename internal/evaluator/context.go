package evaluator

import (
	"errors"
	"fmt"

	"glide/internal/diag"
	"glide/internal/limits"
	"glide/internal/token"
)

// frame is one active function call. Variables below base belong to the
// caller and are hidden, globals excepted.
type frame struct {
	name     string
	base     int
	call     token.Token
	callFile string
}

func (it *Interpreter) frameBase() int {
	if len(it.frames) == 0 {
		return 0
	}
	return it.frames[len(it.frames)-1].base
}

// trace lists the active calls outermost first, ending at tok.
func (it *Interpreter) trace(tok token.Token) []diag.Frame {
	frames := make([]diag.Frame, 0, len(it.frames)+1)
	caller := "<main>"
	for _, f := range it.frames {
		frames = append(frames, diag.Frame{Func: caller, File: f.callFile, Line: f.call.Line, Col: f.call.Col})
		caller = f.name
	}
	return append(frames, diag.Frame{Func: caller, File: it.file, Line: tok.Line, Col: tok.Col})
}

func (it *Interpreter) errorAt(tok token.Token, format string, args ...any) error {
	return &diag.Error{
		Phase:   diag.PhaseRuntime,
		Code:    diag.CodeRuntime,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Col:     tok.Col,
		Frames:  it.trace(tok),
	}
}

// wrap positions a plain error at tok; positioned errors pass through.
func (it *Interpreter) wrap(tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	var de *diag.Error
	if errors.As(err, &de) {
		return err
	}
	return it.errorAt(tok, "%s", err.Error())
}

// step charges one unit against the step budget.
func (it *Interpreter) step(tok token.Token) error {
	if err := it.budget.Charge(1); err != nil {
		var se limits.MaxStepsError
		if errors.As(err, &se) {
			return it.errorAt(tok, "%s", limits.MaxStepsMessage(se.Limit))
		}
		return it.wrap(tok, err)
	}
	return nil
}
