package publish

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/htmlpatch"
	"git.home.luguber.info/inful/docgen/internal/paths"
)

// Issue is a single verification finding.
type Issue struct {
	Path   string
	Detail string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Detail
}

// Verify checks the invariants of a published tree: every rustdoc HTML
// title under a crate's subtree carries that crate's version prefix, and
// no zero-byte file survives anywhere. Expected versions come from the
// build stamp written at publish time.
func Verify(cfg *config.Config, resolver *paths.Resolver) ([]Issue, error) {
	dest := resolver.DestDir()
	stamp, err := ReadStamp(dest)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, crate := range cfg.Crates {
		version, ok := stamp.Crates[crate.Name]
		if !ok {
			issues = append(issues, Issue{Path: dest, Detail: fmt.Sprintf("crate %s missing from build stamp", crate.Name)})
			continue
		}
		crateIssues, err := verifyCrateTitles(filepath.Join(dest, crate.DirName()), version)
		if err != nil {
			return nil, err
		}
		issues = append(issues, crateIssues...)
	}

	emptyIssues, err := verifyNoEmptyFiles(dest)
	if err != nil {
		return nil, err
	}
	return append(issues, emptyIssues...), nil
}

// verifyCrateTitles walks one crate's published HTML and flags rustdoc
// titles without the version prefix. Pages without the rustdoc title
// suffix (redirect stubs and the like) are ignored, mirroring the patch
// pattern.
func verifyCrateTitles(root, version string) ([]Issue, error) {
	prefix := version + " - "
	var issues []Issue
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		title, err := htmlpatch.ExtractFileTitle(path)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(title, " - Rust") {
			return nil
		}
		if !strings.HasPrefix(title, prefix) {
			issues = append(issues, Issue{Path: path, Detail: fmt.Sprintf("title %q lacks version prefix %q", title, prefix)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify titles under %s: %w", root, err)
	}
	return issues, nil
}

func verifyNoEmptyFiles(root string) ([]Issue, error) {
	var issues []Issue
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			issues = append(issues, Issue{Path: path, Detail: "zero-byte file"})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for empty files: %w", root, err)
	}
	return issues, nil
}
