package repl

import (
	"bytes"
	"strings"
	"testing"
)

func session(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	Start(Options{
		In:     strings.NewReader(input),
		Out:    &out,
		Limits: Limits{MaxRecursion: 100, MaxSteps: 1000},
	})
	return out.String()
}

func TestSessionKeepsState(t *testing.T) {
	out := session(t, "make x = 2\nloop 2 {\n  print x\n}\nx += 1\nprint x\n")
	if !strings.Contains(out, "2\n2\n") {
		t.Fatalf("expected the loop body to print twice, got:\n%s", out)
	}
	if !strings.Contains(out, "3\n") {
		t.Fatalf("expected x to persist between entries, got:\n%s", out)
	}
	if !strings.Contains(out, prompt2) {
		t.Fatalf("expected a continuation prompt, got:\n%s", out)
	}
}

func TestSessionReportsErrorsAndContinues(t *testing.T) {
	out := session(t, "print nope\nprint 1 0 /\nprint \"still here\"\n")
	if !strings.Contains(out, "undefined variable nope") {
		t.Fatalf("expected runtime error, got:\n%s", out)
	}
	if !strings.Contains(out, "at <main> (<repl>:1:") {
		t.Fatalf("expected a stack trace, got:\n%s", out)
	}
	if !strings.Contains(out, "still here") {
		t.Fatalf("expected the session to continue, got:\n%s", out)
	}
}

func TestSessionParseErrorAndWarning(t *testing.T) {
	out := session(t, "print\nmake global g = 1\n")
	if !strings.Contains(out, "parse error at line 1: expected expression") {
		t.Fatalf("expected parse error, got:\n%s", out)
	}
	if !strings.Contains(out, "warning GW0001") {
		t.Fatalf("expected redundant global warning, got:\n%s", out)
	}
}

func TestSessionInputSharesTheStream(t *testing.T) {
	out := session(t, "print \"hi \" input str\nbob\n")
	if !strings.Contains(out, "hi bob") {
		t.Fatalf("expected input to be read from the session, got:\n%s", out)
	}
}

func TestQuit(t *testing.T) {
	out := session(t, "quit\nprint 99\n")
	if strings.Contains(out, "99") {
		t.Fatalf("expected quit to end the session, got:\n%s", out)
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		lines    []string
		complete bool
	}{
		{[]string{"print 1"}, true},
		{[]string{"loop 3 {"}, false},
		{[]string{"loop 3 {", "}"}, true},
		{[]string{`print "{"`}, true},
		{[]string{`print '\'{'`}, true},
		{[]string{"print 1 # {"}, true},
		{[]string{"#% open"}, false},
		{[]string{"#% open", "still { %#"}, true},
		{[]string{"make xs = f(1", "2)"}, true},
		{[]string{"xs[0"}, false},
	}
	for i, tt := range tests {
		var b balance
		for _, l := range tt.lines {
			b.update(l)
		}
		if b.complete() != tt.complete {
			t.Fatalf("tests[%d]: expected complete=%v for %q", i, tt.complete, tt.lines)
		}
	}
}
