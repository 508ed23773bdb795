package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glide/internal/evaluator"
	"glide/internal/runtimeio"
)

func TestInitProjectWritesRunnableStarter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	if err := initProject(dir, "", "main.glide", false); err != nil {
		t.Fatalf("init: %v", err)
	}

	entry, man, err := resolveRunTarget(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if man == nil || man.Name != "demo" || filepath.Base(entry) != "main.glide" {
		t.Fatalf("unexpected manifest %+v, entry %s", man, entry)
	}

	src, err := os.ReadFile(entry)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	var out bytes.Buffer
	console := runtimeio.NewConsole(&out, strings.NewReader(""))
	if err := evaluator.New(console, console, nil).Run(string(src)); err != nil {
		t.Fatalf("starter program failed: %v", err)
	}
	want := "hello, glide #0\nhello, glide #1\nhello, glide #2\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}

	if err := initProject(dir, "", "main.glide", false); err == nil {
		t.Fatalf("expected a second init without --force to fail")
	}
	if err := initProject(dir, "other", "main.glide", true); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}

func TestResolveRunTargetFindsManifestAboveFile(t *testing.T) {
	dir := t.TempDir()
	manifest := "entry = \"src/main.glide\"\nmax_steps = 50\n"
	if err := os.WriteFile(filepath.Join(dir, "glide.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	file := filepath.Join(dir, "src", "other.glide")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(file, []byte("print 1\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	entry, man, err := resolveRunTarget(file)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if entry != file || man == nil || man.MaxSteps != 50 {
		t.Fatalf("unexpected entry %s manifest %+v", entry, man)
	}

	if _, _, err := resolveRunTarget(filepath.Join(dir, "missing.glide")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestLimitPrecedence(t *testing.T) {
	depth, steps := evaluator.DefaultMaxRecursion, int64(0)
	entry, man, err := resolveRunTarget(writeProject(t, "max_depth = 20\nmax_steps = 30\n"))
	if err != nil || entry == "" {
		t.Fatalf("resolve: %v", err)
	}
	applyManifestLimits(man, &depth, &steps)
	if depth != 20 || steps != 30 {
		t.Fatalf("expected manifest limits, got %d %d", depth, steps)
	}
	applyFlagLimits(5, 0, &depth, &steps)
	if depth != 5 || steps != 30 {
		t.Fatalf("expected the flag to override only depth, got %d %d", depth, steps)
	}
}

func TestDisplayPath(t *testing.T) {
	if got := displayPath("/work", "/work/src/main.glide"); got != filepath.Join("src", "main.glide") {
		t.Fatalf("unexpected path %q", got)
	}
	if got := displayPath("/work", "/elsewhere/main.glide"); got != "/elsewhere/main.glide" {
		t.Fatalf("unexpected path %q", got)
	}
}

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "glide.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.glide"), []byte("print 1\n"), 0o644); err != nil {
		t.Fatalf("write main: %v", err)
	}
	return dir
}
