package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/textrope.toml", `
[rope]
max_depth = 24
substring_copy_threshold = 32
validate = true

[logging]
level = "debug"

[codec]
compression = "zstd"
`)

	loader := NewTOMLLoaderWithFS(memfs, "/textrope.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rope, ok := config["rope"].(map[string]any)
	if !ok {
		t.Fatal("expected rope to be a map")
	}
	if rope["max_depth"] != int64(24) {
		t.Errorf("max_depth = %v (%T), want 24", rope["max_depth"], rope["max_depth"])
	}
	if rope["validate"] != true {
		t.Errorf("validate = %v, want true", rope["validate"])
	}
	if v, ok := Lookup(config, "codec.compression"); !ok || v != "zstd" {
		t.Errorf("codec.compression = %v, want zstd", v)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config, got %v", config)
	}

	config, err = NewTOMLLoader("").Load()
	if err != nil || config != nil {
		t.Errorf("expected nil, nil for an empty path, got %v, %v", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[rope]\nmax_depth = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", pe.Path)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("error %q does not name the line", pe.Error())
	}
	if errors.Unwrap(pe) == nil {
		t.Error("expected ParseError to wrap the decoder error")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := NewTOMLLoader("")
	config, err := loader.LoadFromReader(strings.NewReader("[logging]\nlevel = \"error\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if v, _ := Lookup(config, "logging.level"); v != "error" {
		t.Errorf("logging.level = %v, want error", v)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"rope":    map[string]any{"max_depth": int64(32), "validate": false},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"rope":  map[string]any{"max_depth": int64(8)},
		"codec": map[string]any{"compression": "s2"},
	}

	got := DeepMerge(dst, src)

	if v, _ := Lookup(got, "rope.max_depth"); v != int64(8) {
		t.Errorf("rope.max_depth = %v, want 8", v)
	}
	if v, _ := Lookup(got, "rope.validate"); v != false {
		t.Errorf("rope.validate = %v, want false", v)
	}
	if v, _ := Lookup(got, "logging.level"); v != "info" {
		t.Errorf("logging.level = %v, want info", v)
	}
	if v, _ := Lookup(got, "codec.compression"); v != "s2" {
		t.Errorf("codec.compression = %v, want s2", v)
	}
}

type staticLoader map[string]any

func (s staticLoader) Load() (map[string]any, error) { return s, nil }

func TestChain(t *testing.T) {
	got, err := Chain(
		staticLoader{"logging": map[string]any{"level": "info"}},
		staticLoader(nil),
		staticLoader{"logging": map[string]any{"level": "debug"}},
	)
	if err != nil {
		t.Fatalf("Chain failed: %v", err)
	}
	if v, _ := Lookup(got, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]any{"b": 1}}
	if _, ok := Lookup(data, "a.c"); ok {
		t.Error("expected a.c to be missing")
	}
	if _, ok := Lookup(data, "a.b.c"); ok {
		t.Error("expected a.b.c to be missing")
	}
	if v, ok := Lookup(data, "a.b"); !ok || v != 1 {
		t.Errorf("a.b = %v, want 1", v)
	}
}
