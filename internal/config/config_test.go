package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "docgen.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DocHome != "docgen" || cfg.Dest != "master" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Crates) != 2 {
		t.Fatalf("expected 2 default crates, got %d", len(cfg.Crates))
	}
	if cfg.Primary().Name != "ndarray" {
		t.Fatalf("expected ndarray as primary crate, got %s", cfg.Primary().Name)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCGEN_TEST_DEST", "published")

	path := filepath.Join(t.TempDir(), "docgen.yaml")
	content := `dest: ${DOCGEN_TEST_DEST}
crates:
  - name: ndarray
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dest != "published" {
		t.Fatalf("expected env-expanded dest, got %s", cfg.Dest)
	}
	// Single unmarked crate becomes primary.
	if !cfg.Crates[0].Primary {
		t.Fatalf("expected first crate to default to primary")
	}
}

func TestValidateRejectsDuplicatesAndDoublePrimary(t *testing.T) {
	dup := &Config{Crates: []Crate{{Name: "a"}, {Name: "a"}}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected duplicate crate error")
	}

	two := &Config{Crates: []Crate{{Name: "a", Primary: true}, {Name: "b", Primary: true}}}
	if err := two.Validate(); err == nil {
		t.Fatalf("expected multiple primary error")
	}
}

func TestCrateDirName(t *testing.T) {
	if got := (Crate{Name: "ndarray-rand"}).DirName(); got != "ndarray_rand" {
		t.Fatalf("expected ndarray_rand, got %s", got)
	}
	if got := (Crate{Name: "ndarray"}).DirName(); got != "ndarray" {
		t.Fatalf("expected ndarray, got %s", got)
	}
}

func TestInitRespectsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docgen.yaml")
	if err := Init(path, false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := Init(path, false); err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("Init --force failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if len(cfg.Crates) != 2 {
		t.Fatalf("expected 2 crates in generated config, got %d", len(cfg.Crates))
	}
}
