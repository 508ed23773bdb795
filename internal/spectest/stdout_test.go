package spectest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchStdout(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.golden"), []byte("hello, glide\r\n42\n"), 0o644); err != nil {
		t.Fatalf("failed to write golden: %v", err)
	}

	tests := []struct {
		got  string
		exp  StdoutExpectation
		want bool
	}{
		{"a\r\nb\r\n", StdoutExpectation{Value: "a\nb\n"}, true},
		{"a\nb\n", StdoutExpectation{Mode: StdoutExact, Value: "a\n"}, false},
		{"hello\nworld\n", StdoutExpectation{Mode: StdoutContains, Value: "world\n"}, true},
		{"hello\n", StdoutExpectation{Mode: StdoutContains, Value: "world"}, false},
		{"hello, glide\n42\n", StdoutExpectation{Mode: StdoutGolden, Value: "hello.golden"}, true},
		{"hello, glide\n", StdoutExpectation{Mode: StdoutGolden, Value: "hello.golden"}, false},
		{"x", StdoutExpectation{Mode: StdoutGolden}, false},
	}
	for i, tt := range tests {
		ok, reason, err := MatchStdout(tt.got, tt.exp, dir)
		if err != nil {
			t.Fatalf("tests[%d]: MatchStdout error: %v", i, err)
		}
		if ok != tt.want {
			t.Fatalf("tests[%d]: expected match=%v, got %v (%s)", i, tt.want, ok, reason)
		}
	}
}

func TestMatchStdoutMissingGolden(t *testing.T) {
	_, _, err := MatchStdout("x", StdoutExpectation{Mode: StdoutGolden, Value: "nope.golden"}, t.TempDir())
	if err == nil {
		t.Fatalf("expected an error for a missing golden file")
	}
}

func TestRunWritesProjectFiles(t *testing.T) {
	res := Run(t, Options{
		Source: "use \"helper\"\nprint twice(21)\n",
		Files: map[string]string{
			"helper.glide": "def twice(n: int): int {\n  exit n 2 *\n}\n",
		},
	})
	Assert(t, res, Expectation{Stdout: "42\n"})
}

func TestRunReportsErrorCode(t *testing.T) {
	res := Run(t, Options{Source: "print 1 0 /\n"})
	Assert(t, res, Expectation{ErrCode: "GR0001", ErrContains: "mathematically impossible operation"})
}
