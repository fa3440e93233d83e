// Package builder orchestrates the per-crate documentation build: resolving
// the crate version, invoking cargo doc and patching the generated HTML
// titles. Crates build strictly in declared order.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docgen/internal/cargo"
	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/htmlpatch"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/paths"
)

// Builder runs the build stage for every configured crate.
type Builder struct {
	cfg      *config.Config
	resolver *paths.Resolver
	runner   *cargo.Runner
	runID    string
}

// New creates a builder. Each builder carries a run id that tags every log
// line of one build pass.
func New(cfg *config.Config, resolver *paths.Resolver, runner *cargo.Runner) *Builder {
	return &Builder{
		cfg:      cfg,
		resolver: resolver,
		runner:   runner,
		runID:    uuid.NewString(),
	}
}

// RunID returns the identifier of this build pass.
func (b *Builder) RunID() string {
	return b.runID
}

// BuildAll builds and patches the documentation of every configured crate,
// in declared order, failing fast on the first error. Returns the resolved
// version per crate name.
func (b *Builder) BuildAll(ctx context.Context) (map[string]string, error) {
	versions := make(map[string]string, len(b.cfg.Crates))
	for _, crate := range b.cfg.Crates {
		version, err := b.buildCrate(ctx, crate)
		if err != nil {
			return nil, err
		}
		versions[crate.Name] = version
	}
	slog.Info("All crates built", logfields.RunID(b.runID), slog.Int("crates", len(versions)))
	return versions, nil
}

func (b *Builder) buildCrate(ctx context.Context, crate config.Crate) (string, error) {
	start := time.Now()
	manifest := b.resolver.ManifestPath(crate.Subdir)

	slog.Info("Building crate documentation",
		logfields.Crate(crate.Name),
		logfields.RunID(b.runID),
		logfields.Path(manifest))

	if err := b.runner.Doc(ctx, manifest, crate.Features, b.resolver.TargetDir()); err != nil {
		return "", err
	}

	version, err := b.runner.Pkgid(ctx, manifest)
	if err != nil {
		return "", err
	}

	docDir := b.resolver.CrateDocDir(crate.DirName())
	patched, err := htmlpatch.PatchTree(docDir, version)
	if err != nil {
		return "", fmt.Errorf("title patching failed for %s: %w", crate.Name, err)
	}

	slog.Info("Crate documentation built",
		logfields.Crate(crate.Name),
		logfields.Version(version),
		slog.Int("patched_files", patched),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return version, nil
}
