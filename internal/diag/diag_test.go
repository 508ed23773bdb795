package diag

import (
	"strings"
	"testing"
)

func TestDiagnosticFormat(t *testing.T) {
	d := Diagnostic{Code: CodeParse, Message: "boom", Severity: SeverityError, Range: Range{Line: 3, Col: 7}}
	got := d.Format("main.glide")
	if got != "main.glide:3:7: error GP0001: boom" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestErrorStackInnermostFirst(t *testing.T) {
	e := &Error{
		Phase:   PhaseRuntime,
		Message: "stack underflow",
		Line:    4,
		Frames: []Frame{
			{Func: "<main>", File: "a.glide", Line: 9, Col: 1},
			{Func: "f", File: "a.glide", Line: 4, Col: 3},
		},
	}
	stack := e.Stack()
	first := strings.Index(stack, "at f (a.glide:4:3)")
	second := strings.Index(stack, "at <main> (a.glide:9:1)")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("unexpected stack trace:\n%s", stack)
	}
	if !strings.Contains(e.Error(), "runtime error at line 4") {
		t.Fatalf("unexpected message: %q", e.Error())
	}
}
