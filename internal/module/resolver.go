package module

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the source file extension.
const Ext = ".glide"

// ErrNotFound is returned (wrapped) when no file matches a module name.
var ErrNotFound = errors.New("module not found")

type ResolveError struct {
	Spec string
	From string
}

func (e *ResolveError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("missing module %q", e.Spec)
	}
	return fmt.Sprintf("missing module %q (used from %s)", e.Spec, e.From)
}

func (e *ResolveError) Unwrap() error { return ErrNotFound }

type Resolver struct {
	StdRoot string
	Paths   []string
}

func NewResolver(stdRoot string, extraPaths []string) *Resolver {
	return &Resolver{StdRoot: stdRoot, Paths: extraPaths}
}

// Resolve maps a use name to an absolute file path. "std:x" looks only in
// the std root, "./x" and "../x" are relative to fromFile, and bare names
// try fromFile's directory, then the std root, then each search path.
func (r *Resolver) Resolve(fromFile string, spec string) (string, error) {
	addExt := func(p string) string {
		if filepath.Ext(p) == "" {
			return p + Ext
		}
		return p
	}
	notFound := &ResolveError{Spec: spec, From: fromFile}

	if strings.HasPrefix(spec, "std:") {
		name := strings.TrimPrefix(spec, "std:")
		if name == "" {
			return "", fmt.Errorf("invalid std module: %q", spec)
		}
		return firstExisting(notFound, filepath.Join(r.StdRoot, addExt(name)))
	}

	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || filepath.IsAbs(spec) {
		p := spec
		if !filepath.IsAbs(p) {
			p = filepath.Join(filepath.Dir(fromFile), p)
		}
		return firstExisting(notFound, addExt(p))
	}

	var candidates []string
	if fromFile != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromFile), addExt(spec)))
	}
	if r.StdRoot != "" {
		candidates = append(candidates, filepath.Join(r.StdRoot, addExt(spec)))
	}
	for _, root := range r.Paths {
		candidates = append(candidates, filepath.Join(root, addExt(spec)))
	}
	return firstExisting(notFound, candidates...)
}

func firstExisting(notFound error, paths ...string) (string, error) {
	for _, p := range paths {
		ok, err := exists(p)
		if err != nil {
			return "", err
		}
		if ok {
			abs, err := filepath.Abs(p)
			if err != nil {
				return p, nil
			}
			return abs, nil
		}
	}
	return "", notFound
}

func exists(p string) (bool, error) {
	info, err := os.Stat(p)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
