// Package publish assembles the generated documentation tree into the
// publish directory: a clean copy of target/doc plus image assets, the
// custom stylesheet appended onto the generated one, pruned empty files,
// a build stamp and an optional landing page.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/paths"
)

// Publisher assembles the publish directory from a finished build.
type Publisher struct {
	cfg      *config.Config
	resolver *paths.Resolver
	runID    string
}

// New creates a publisher. runID tags the build stamp and log lines.
func New(cfg *config.Config, resolver *paths.Resolver, runID string) *Publisher {
	return &Publisher{cfg: cfg, resolver: resolver, runID: runID}
}

// Publish replaces the destination directory with the generated tree.
// Every step is destructive and runs without confirmation; a failure
// mid-sequence leaves the destination partially populated.
func (p *Publisher) Publish(ctx context.Context, versions map[string]string) error {
	dest := p.resolver.DestDir()
	slog.Info("Publishing documentation", logfields.Dest(dest), logfields.RunID(p.runID))

	// Previous content is removed entirely, whatever it was.
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to remove destination %s: %w", dest, err)
	}
	if err := copyTree(ctx, p.resolver.DocDir(), dest); err != nil {
		return err
	}
	if err := p.copyImages(dest); err != nil {
		return err
	}
	if err := p.appendStylesheet(dest); err != nil {
		return err
	}
	pruned, err := pruneEmptyFiles(dest)
	if err != nil {
		return err
	}
	if pruned > 0 {
		slog.Debug("Removed empty files", logfields.Dest(dest), slog.Int("count", pruned))
	}
	if err := p.writeStamp(dest, versions); err != nil {
		return err
	}
	if err := p.renderLanding(dest); err != nil {
		return err
	}

	slog.Info("Documentation published", logfields.Dest(dest))
	return nil
}

// copyImages copies SVG assets into the primary crate's published tree.
func (p *Publisher) copyImages(dest string) error {
	images, err := filepath.Glob(filepath.Join(p.resolver.ImageDir(), "*.svg"))
	if err != nil {
		return fmt.Errorf("failed to list image assets: %w", err)
	}
	if len(images) == 0 {
		slog.Debug("No image assets to copy", logfields.Path(p.resolver.ImageDir()))
		return nil
	}

	crateDir := filepath.Join(dest, p.cfg.Primary().DirName())
	for _, image := range images {
		target := filepath.Join(crateDir, filepath.Base(image))
		if err := copyFile(image, target); err != nil {
			return fmt.Errorf("failed to copy image %s: %w", image, err)
		}
	}
	slog.Debug("Copied image assets", logfields.Crate(p.cfg.Primary().Name), slog.Int("count", len(images)))
	return nil
}

// appendStylesheet appends the custom stylesheet fragment onto the
// generated main.css.
func (p *Publisher) appendStylesheet(dest string) error {
	src := p.resolver.StylesheetPath()
	target := filepath.Join(dest, "main.css")
	if err := appendFile(src, target); err != nil {
		return fmt.Errorf("failed to append stylesheet: %w", err)
	}
	slog.Debug("Appended custom stylesheet", logfields.File(target))
	return nil
}
