// Package htmlpatch rewrites titles in cargo-generated HTML so each page
// carries the crate version, and extracts titles back out for verification.
package htmlpatch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// titlePattern matches the title rustdoc emits, e.g. "<title>ndarray - Rust".
var titlePattern = regexp.MustCompile(`<title>(.*) - Rust`)

// PatchFile rewrites the title of a single HTML file in place, prefixing it
// with the version. A title already carrying the exact version prefix is
// left alone, so re-running the patch is a no-op. Returns whether the file
// was modified.
func PatchFile(path, version string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	prefix := version + " - "
	changed := false
	patched := titlePattern.ReplaceAllFunc(data, func(match []byte) []byte {
		sub := titlePattern.FindSubmatch(match)
		title := string(sub[1])
		if strings.HasPrefix(title, prefix) {
			return match
		}
		changed = true
		return []byte("<title>" + prefix + title + " - Rust")
	})
	if !changed {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// PatchTree rewrites titles in every HTML file under root. Files are
// modified in place; a failure partway leaves earlier files patched.
// Returns the number of files modified.
func PatchTree(root, version string) (int, error) {
	patched := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		changed, err := PatchFile(path, version)
		if err != nil {
			return err
		}
		if changed {
			patched++
			slog.Debug("Patched HTML title", "file", path, "version", version)
		}
		return nil
	})
	if err != nil {
		return patched, fmt.Errorf("failed to patch HTML tree %s: %w", root, err)
	}
	return patched, nil
}
