// Package spectest runs GLIDE programs from a scratch project directory and
// checks their output and error codes. Conformance suites build on it.
package spectest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glide/internal/diag"
	"glide/internal/evaluator"
	"glide/internal/module"
	"glide/internal/runtimeio"
)

type Options struct {
	Source string
	// Files are written relative to the project root. Paths under std/ form
	// the std root.
	Files    map[string]string
	Entry    string
	Input    string
	MaxDepth int
	MaxSteps int64
	Seed     int64
}

type Expectation struct {
	Stdout      string
	StdoutMode  StdoutMode
	ErrCode     string
	ErrContains string
	Warnings    []string
}

type Result struct {
	Stdout   string
	ErrCode  string
	ErrMsg   string
	Warnings []string
}

func Run(t *testing.T, opts Options) Result {
	t.Helper()

	entryPath, root := writeFiles(t, opts)
	src, err := os.ReadFile(entryPath)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}

	var out bytes.Buffer
	console := runtimeio.NewConsole(&out, strings.NewReader(opts.Input))
	resolver := module.NewResolver(filepath.Join(root, "std"), []string{root})
	it := evaluator.New(console, console, module.NewLoader(resolver, entryPath))
	it.SetFile(filepath.Base(entryPath))
	if opts.MaxDepth > 0 {
		it.SetMaxRecursion(opts.MaxDepth)
	}
	if opts.MaxSteps > 0 {
		it.SetMaxSteps(opts.MaxSteps)
	}
	if opts.Seed != 0 {
		it.SetSeed(opts.Seed)
	}

	res := Result{}
	if err := it.Run(string(src)); err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			res.ErrCode = de.Code
			res.ErrMsg = de.Message
		} else {
			res.ErrMsg = err.Error()
		}
	}
	for _, w := range it.Warnings() {
		res.Warnings = append(res.Warnings, w.Code)
	}
	res.Stdout = out.String()
	return res
}

func Assert(t *testing.T, res Result, exp Expectation) {
	t.Helper()

	ok, reason, err := MatchStdout(res.Stdout, StdoutExpectation{
		Mode:  exp.StdoutMode,
		Value: exp.Stdout,
	}, GoldenDir)
	if err != nil {
		t.Fatalf("stdout check failed: %v", err)
	}
	if !ok {
		t.Fatal(reason)
	}

	wantErr := exp.ErrCode != "" || exp.ErrContains != ""
	gotErr := res.ErrCode != "" || res.ErrMsg != ""

	if wantErr && !gotErr {
		t.Fatalf("expected error %q/%q, got none", exp.ErrCode, exp.ErrContains)
	}
	if !wantErr && gotErr {
		t.Fatalf("unexpected error: %s", FormatError(res.ErrCode, res.ErrMsg))
	}

	if exp.ErrCode != "" && res.ErrCode != exp.ErrCode {
		t.Fatalf("error code mismatch: expected %q, got %q", exp.ErrCode, res.ErrCode)
	}
	if exp.ErrContains != "" && !strings.Contains(res.ErrMsg, exp.ErrContains) {
		t.Fatalf("error message mismatch: expected to contain %q, got %q", exp.ErrContains, res.ErrMsg)
	}
	if strings.Join(res.Warnings, ",") != strings.Join(exp.Warnings, ",") {
		t.Fatalf("warning mismatch: expected %v, got %v", exp.Warnings, res.Warnings)
	}
}

func writeFiles(t *testing.T, opts Options) (string, string) {
	t.Helper()

	entry := opts.Entry
	if entry == "" {
		entry = "main" + module.Ext
	}
	if filepath.IsAbs(entry) {
		t.Fatalf("entry path must be relative, got %q", entry)
	}

	root := t.TempDir()
	files := map[string]string{}
	for rel, contents := range opts.Files {
		files[rel] = contents
	}
	if opts.Source != "" {
		files[entry] = opts.Source
	}
	if _, ok := files[entry]; !ok {
		t.Fatalf("no source for entry %q", entry)
	}

	for rel, contents := range files {
		if filepath.IsAbs(rel) {
			t.Fatalf("file path must be relative, got %q", rel)
		}
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create file dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("failed to write file %s: %v", rel, err)
		}
	}

	return filepath.Join(root, entry), root
}

func FormatError(code, msg string) string {
	if code == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", code, msg)
}
