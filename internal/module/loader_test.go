package module

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glide/internal/config"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveMissingModuleError(t *testing.T) {
	tmp := t.TempDir()
	res := NewResolver(tmp, nil)
	fromFile := filepath.Join(tmp, "main.glide")
	_, err := res.Resolve(fromFile, "missing_mod")
	if err == nil {
		t.Fatal("expected error")
	}
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolveError, got %T", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected error to wrap ErrNotFound")
	}
	if !strings.Contains(err.Error(), "missing module") || !strings.Contains(err.Error(), "missing_mod") {
		t.Fatalf("unexpected error message: %s", err.Error())
	}
}

func TestResolverUsesManifestPaths(t *testing.T) {
	tmp := t.TempDir()
	projectRoot := filepath.Join(tmp, "project")
	stdRoot := filepath.Join(projectRoot, "custom_std")
	modRoot := filepath.Join(projectRoot, "modules")
	write(t, filepath.Join(stdRoot, "math.glide"), "make pi = 3\n")
	write(t, filepath.Join(modRoot, "util.glide"), "make answer = 42\n")
	write(t, filepath.Join(projectRoot, config.FileName), "entry = \"main.glide\"\nstd_root = \"custom_std\"\nmodule_paths = [\"modules\"]\n")

	man, err := config.Load(projectRoot)
	if err != nil {
		t.Fatal(err)
	}
	stdPath, modulePaths := man.ResolvePaths(filepath.Join(projectRoot, "std"))

	res := NewResolver(stdPath, modulePaths)
	fromFile := man.EntryPath()

	stdResolved, err := res.Resolve(fromFile, "std:math")
	if err != nil {
		t.Fatal(err)
	}
	if stdResolved != filepath.Join(stdRoot, "math.glide") {
		t.Fatalf("unexpected std resolve: %s", stdResolved)
	}

	utilResolved, err := res.Resolve(fromFile, "util")
	if err != nil {
		t.Fatal(err)
	}
	if utilResolved != filepath.Join(modRoot, "util.glide") {
		t.Fatalf("unexpected module path resolve: %s", utilResolved)
	}
}

func TestSiblingModuleWinsOverStd(t *testing.T) {
	tmp := t.TempDir()
	write(t, filepath.Join(tmp, "app", "shapes.glide"), "make sides = 4\n")
	write(t, filepath.Join(tmp, "std", "shapes.glide"), "make sides = 3\n")
	write(t, filepath.Join(tmp, "lib", "helpers.glide"), "make k = 1\n")

	res := NewResolver(filepath.Join(tmp, "std"), nil)
	l := NewLoader(res, filepath.Join(tmp, "app", "main.glide"))

	src, err := l.LoadModule("shapes")
	if err != nil {
		t.Fatal(err)
	}
	if src != "make sides = 4\n" {
		t.Fatalf("expected sibling module, got %q", src)
	}

	src, err = l.LoadModule("../lib/helpers")
	if err != nil {
		t.Fatal(err)
	}
	if src != "make k = 1\n" {
		t.Fatalf("unexpected source %q", src)
	}
	if len(l.Cache) != 2 {
		t.Fatalf("expected 2 cached modules, got %d", len(l.Cache))
	}

	if _, err := l.LoadModule("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapSource(t *testing.T) {
	src := MapSource{"lib": "print 1"}
	if text, err := src.LoadModule("lib"); err != nil || text != "print 1" {
		t.Fatalf("unexpected result %q, %v", text, err)
	}
	if _, err := src.LoadModule("other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
