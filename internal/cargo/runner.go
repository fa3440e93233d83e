// Package cargo invokes the cargo binary for documentation generation and
// package metadata, and parses pkgid output into version strings.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner executes cargo subcommands. The zero value uses the cargo binary
// found on PATH.
type Runner struct {
	// Cargo is the binary to execute. Defaults to "cargo".
	Cargo string
}

func (r *Runner) binary() string {
	if r.Cargo != "" {
		return r.Cargo
	}
	return "cargo"
}

// Doc runs `cargo doc --no-deps` for the given manifest. targetDir is passed
// as CARGO_TARGET_DIR on the subprocess environment only; the tool's own
// environment is never mutated. features may be empty.
func (r *Runner) Doc(ctx context.Context, manifestPath, features, targetDir string) error {
	args := []string{"doc", "-v", "--no-deps", "--manifest-path", manifestPath}
	if features != "" {
		args = append(args, "--features", features)
	}

	// #nosec G204 -- arguments come from static configuration, not user input
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Env = append(os.Environ(), "CARGO_TARGET_DIR="+targetDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Running cargo doc", "manifest", manifestPath, "features", features, "target", targetDir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo doc failed for %s: %w", manifestPath, err)
	}
	return nil
}

// Pkgid runs `cargo pkgid` for the given manifest and returns the resolved
// version string.
func (r *Runner) Pkgid(ctx context.Context, manifestPath string) (string, error) {
	// #nosec G204 -- arguments come from static configuration, not user input
	cmd := exec.CommandContext(ctx, r.binary(), "pkgid", "--manifest-path", manifestPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running cargo pkgid", "manifest", manifestPath)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("cargo pkgid failed for %s: %w: %s", manifestPath, err, msg)
		}
		return "", fmt.Errorf("cargo pkgid failed for %s: %w", manifestPath, err)
	}

	return ParseVersion(stdout.String())
}
