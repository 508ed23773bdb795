package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, FileName), `name = "demo"
entry = "src/app.glide"
std_root = "lib/std"
module_paths = ["vendor", "/opt/glide"]
max_depth = 200
max_steps = 5000
`)
	m, err := Load(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "demo" || m.MaxDepth != 200 || m.MaxSteps != 5000 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.EntryPath() != filepath.Join(m.Dir, "src", "app.glide") {
		t.Fatalf("unexpected entry path %s", m.EntryPath())
	}
	std, paths := m.ResolvePaths("/default/std")
	if std != filepath.Join(m.Dir, "lib", "std") {
		t.Fatalf("unexpected std root %s", std)
	}
	if len(paths) != 2 || paths[0] != filepath.Join(m.Dir, "vendor") || paths[1] != "/opt/glide" {
		t.Fatalf("unexpected module paths %v", paths)
	}
}

func TestDefaults(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, FileName), "name = \"bare\"\n")
	m, err := Load(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry != "main.glide" {
		t.Fatalf("expected default entry, got %q", m.Entry)
	}
	if std, _ := m.ResolvePaths("/default/std"); std != "/default/std" {
		t.Fatalf("expected default std root, got %s", std)
	}
}

func TestInvalidManifest(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, FileName), "name = \n")
	if _, err := Load(tmp); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("expected parse error, got %v", err)
	}

	writeFile(t, filepath.Join(tmp, FileName), "max_steps = -1\n")
	if _, err := Load(tmp); err == nil {
		t.Fatalf("expected negative limit to be rejected")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, FileName), "name = \"root\"\n")
	nested := filepath.Join(tmp, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil || m.Name != "root" {
		t.Fatalf("expected root manifest, got %+v", m)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	m := &Manifest{Name: "fresh", Entry: "main.glide", MaxDepth: 1000}
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	writeFile(t, filepath.Join(tmp, FileName), string(data))
	got, err := Load(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "fresh" || got.MaxDepth != 1000 {
		t.Fatalf("unexpected manifest %+v", got)
	}
}
