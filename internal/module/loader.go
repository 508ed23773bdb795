package module

import (
	"fmt"
	"os"
)

// Loader is the file-backed module source. Names resolve against the file
// the program was loaded from; resolved sources are cached by path.
type Loader struct {
	Resolver *Resolver
	From     string
	Cache    map[string]string // key: abs path
}

func NewLoader(res *Resolver, fromFile string) *Loader {
	return &Loader{Resolver: res, From: fromFile, Cache: map[string]string{}}
}

// LoadModule returns the source text of a module. A missing module yields an
// error wrapping ErrNotFound.
func (l *Loader) LoadModule(name string) (string, error) {
	path, err := l.Path(name)
	if err != nil {
		return "", err
	}
	if src, ok := l.Cache[path]; ok {
		return src, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read module %s: %w", path, err)
	}
	l.Cache[path] = string(b)
	return string(b), nil
}

// Path resolves name without reading it.
func (l *Loader) Path(name string) (string, error) {
	return l.Resolver.Resolve(l.From, name)
}

// MapSource serves modules from memory, keyed by use name.
type MapSource map[string]string

func (m MapSource) LoadModule(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", &ResolveError{Spec: name}
	}
	return src, nil
}
