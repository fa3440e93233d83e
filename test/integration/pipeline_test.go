package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/builder"
	"git.home.luguber.info/inful/docgen/internal/cargo"
	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/htmlpatch"
	"git.home.luguber.info/inful/docgen/internal/paths"
	"git.home.luguber.info/inful/docgen/internal/publish"
)

// stubCargo emulates cargo doc/pkgid for a two-crate workspace, writing a
// realistic slice of a rustdoc tree (nested module pages, stylesheet,
// zero-byte implementors stub).
const stubCargo = `#!/bin/sh
cmd=$1; shift
manifest=""
while [ $# -gt 0 ]; do
  case "$1" in
    --manifest-path) manifest=$2; shift 2 ;;
    *) shift ;;
  esac
done
page() {
  mkdir -p "$(dirname "$2")"
  printf '<!DOCTYPE html><html><head><title>%s - Rust</title></head><body></body></html>' "$1" > "$2"
}
case "$cmd" in
  doc)
    doc="$CARGO_TARGET_DIR/doc"
    case "$manifest" in
      *ndarray-rand*)
        page "ndarray_rand" "$doc/ndarray_rand/index.html"
        ;;
      *)
        page "ndarray" "$doc/ndarray/index.html"
        page "ArrayBase in ndarray" "$doc/ndarray/struct.ArrayBase.html"
        page "ndarray::iter" "$doc/ndarray/iter/index.html"
        mkdir -p "$doc/implementors/ndarray"
        : > "$doc/implementors/ndarray/index.js"
        printf 'body {}\n' > "$doc/main.css"
        ;;
    esac
    ;;
  pkgid)
    case "$manifest" in
      *ndarray-rand*) echo "path+file:///repo/ndarray-rand#0.14.0" ;;
      *) echo "registry+https://github.com/rust-lang/crates.io-index#ndarray:0.15.6" ;;
    esac
    ;;
esac
`

type env struct {
	cfg      *config.Config
	resolver *paths.Resolver
	runner   *cargo.Runner
}

func setup(t *testing.T) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub cargo script requires a POSIX shell")
	}

	home := t.TempDir()
	stub := filepath.Join(home, "bin", "cargo")
	require.NoError(t, os.MkdirAll(filepath.Dir(stub), 0o755))
	require.NoError(t, os.WriteFile(stub, []byte(stubCargo), 0o755))

	configPath := filepath.Join(home, "docgen.yaml")
	configContent := "doc_home: " + filepath.Join(home, "docgen") + "\ncrates:\n" +
		"  - name: ndarray\n    features: docs\n    primary: true\n" +
		"  - name: ndarray-rand\n    subdir: ndarray-rand\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	resolver := paths.NewResolver(cfg.DocHome, cfg.Dest)
	require.NoError(t, os.MkdirAll(resolver.ImageDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resolver.ImageDir(), "split_at.svg"), []byte("<svg></svg>"), 0o644))
	require.NoError(t, os.WriteFile(resolver.StylesheetPath(), []byte(".docblock { max-width: 60em; }\n"), 0o644))
	require.NoError(t, os.WriteFile(resolver.LandingPath(), []byte("# ndarray docs\n"), 0o644))

	return &env{cfg: cfg, resolver: resolver, runner: &cargo.Runner{Cargo: stub}}
}

func (e *env) run(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	b := builder.New(e.cfg, e.resolver, e.runner)
	versions, err := b.BuildAll(ctx)
	require.NoError(t, err)
	require.NoError(t, publish.New(e.cfg, e.resolver, b.RunID()).Publish(ctx, versions))
}

func TestFullPipeline(t *testing.T) {
	e := setup(t)
	e.run(t)
	dest := e.resolver.DestDir()

	// Every rustdoc page carries the version prefix.
	pages := []struct {
		page string
		want string
	}{
		{filepath.Join("ndarray", "index.html"), "0.15.6 - ndarray - Rust"},
		{filepath.Join("ndarray", "struct.ArrayBase.html"), "0.15.6 - ArrayBase in ndarray - Rust"},
		{filepath.Join("ndarray", "iter", "index.html"), "0.15.6 - ndarray::iter - Rust"},
		{filepath.Join("ndarray_rand", "index.html"), "0.14.0 - ndarray_rand - Rust"},
	}
	for _, tc := range pages {
		title, err := htmlpatch.ExtractFileTitle(filepath.Join(dest, tc.page))
		require.NoError(t, err, tc.page)
		assert.Equal(t, tc.want, title, tc.page)
	}

	// Images under the primary crate, stylesheet appended, empty stub gone.
	assert.FileExists(t, filepath.Join(dest, "ndarray", "split_at.svg"))
	css, err := os.ReadFile(filepath.Join(dest, "main.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".docblock")
	assert.NoFileExists(t, filepath.Join(dest, "implementors", "ndarray", "index.js"))

	// Landing page rendered from markdown.
	page, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "ndarray docs")

	// Stamp records both crate versions.
	stamp, err := publish.ReadStamp(dest)
	require.NoError(t, err)
	assert.Equal(t, "0.15.6", stamp.Crates["ndarray"])
	assert.Equal(t, "0.14.0", stamp.Crates["ndarray-rand"])

	// And the verifier agrees.
	issues, err := publish.Verify(e.cfg, e.resolver)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRerunIsIdempotentAndReplacesDest(t *testing.T) {
	e := setup(t)
	e.run(t)

	// Plant stale content, then run the whole pipeline again over the
	// already-patched target/doc tree.
	stale := filepath.Join(e.resolver.DestDir(), "stale.html")
	require.NoError(t, os.WriteFile(stale, []byte("<html>old</html>"), 0o644))
	e.run(t)

	assert.NoFileExists(t, stale)

	title, err := htmlpatch.ExtractFileTitle(filepath.Join(e.resolver.DestDir(), "ndarray", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "0.15.6 - ndarray - Rust", title, "double-patching must not corrupt titles")
	assert.False(t, strings.Contains(title, "0.15.6 - 0.15.6"))
}

func TestVerifyCatchesTamperedTree(t *testing.T) {
	e := setup(t)
	e.run(t)

	tampered := filepath.Join(e.resolver.DestDir(), "ndarray", "iter", "index.html")
	require.NoError(t, os.WriteFile(tampered,
		[]byte(`<html><head><title>ndarray::iter - Rust</title></head><body></body></html>`), 0o644))

	issues, err := publish.Verify(e.cfg, e.resolver)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, tampered, issues[0].Path)
}
