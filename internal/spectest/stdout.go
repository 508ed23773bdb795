package spectest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StdoutMode says how Expectation.Stdout is compared. The zero value is an
// exact match.
type StdoutMode int

const (
	StdoutExact StdoutMode = iota
	StdoutContains
	// StdoutGolden treats the expectation as a file name under the golden
	// directory.
	StdoutGolden
)

// GoldenDir is where StdoutGolden files live, relative to the test's package.
const GoldenDir = "testdata"

type StdoutExpectation struct {
	Mode  StdoutMode
	Value string
}

func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// MatchStdout compares program output against exp. The reason is set when
// it does not match; err only reports an unreadable golden file.
func MatchStdout(got string, exp StdoutExpectation, goldenDir string) (bool, string, error) {
	got = NormalizeNewlines(got)
	switch exp.Mode {
	case StdoutExact:
		want := NormalizeNewlines(exp.Value)
		if got != want {
			return false, fmt.Sprintf("stdout mismatch: expected %q, got %q", want, got), nil
		}
	case StdoutContains:
		want := NormalizeNewlines(exp.Value)
		if !strings.Contains(got, want) {
			return false, fmt.Sprintf("stdout mismatch: expected to contain %q, got %q", want, got), nil
		}
	case StdoutGolden:
		if exp.Value == "" {
			return false, "golden file name is empty", nil
		}
		b, err := os.ReadFile(filepath.Join(goldenDir, exp.Value))
		if err != nil {
			return false, "", err
		}
		if want := NormalizeNewlines(string(b)); got != want {
			return false, fmt.Sprintf("stdout mismatch: expected golden %s %q, got %q", exp.Value, want, got), nil
		}
	default:
		return false, fmt.Sprintf("unknown stdout mode %d", exp.Mode), nil
	}
	return true, "", nil
}
