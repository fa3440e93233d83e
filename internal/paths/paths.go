// Package paths derives the fixed filesystem layout the tool operates on.
package paths

import "path/filepath"

// Resolver derives every filesystem location the tool touches from the doc
// home directory (the directory holding images/, custom.css and the optional
// landing page). All derivations are fixed relative offsets; nothing here
// touches the filesystem.
type Resolver struct {
	docHome string
	dest    string
}

// NewResolver creates a resolver rooted at docHome. dest is the publish
// directory name relative to the repository home.
func NewResolver(docHome, dest string) *Resolver {
	if dest == "" {
		dest = "master"
	}
	return &Resolver{docHome: filepath.Clean(docHome), dest: dest}
}

// DocHome returns the doc home directory.
func (r *Resolver) DocHome() string {
	return r.docHome
}

// Home returns the repository root, one level above the doc home.
func (r *Resolver) Home() string {
	return filepath.Clean(filepath.Join(r.docHome, ".."))
}

// ManifestPath returns the Cargo.toml path for a crate living in the given
// subdirectory of the repository home. An empty subdir addresses the root
// manifest.
func (r *Resolver) ManifestPath(subdir string) string {
	return filepath.Clean(filepath.Join(r.Home(), subdir, "Cargo.toml"))
}

// TargetDir returns the cargo build-output directory.
func (r *Resolver) TargetDir() string {
	return filepath.Join(r.Home(), "target")
}

// DocDir returns the directory cargo doc writes generated HTML into.
func (r *Resolver) DocDir() string {
	return filepath.Join(r.TargetDir(), "doc")
}

// CrateDocDir returns the generated HTML tree for one crate. dirName is the
// crate's directory name (hyphens already replaced with underscores).
func (r *Resolver) CrateDocDir(dirName string) string {
	return filepath.Join(r.DocDir(), dirName)
}

// DestDir returns the publish directory.
func (r *Resolver) DestDir() string {
	return filepath.Join(r.Home(), r.dest)
}

// ImageDir returns the directory holding SVG assets to merge into the
// published tree.
func (r *Resolver) ImageDir() string {
	return filepath.Join(r.docHome, "images")
}

// StylesheetPath returns the custom stylesheet fragment appended onto the
// generated main.css.
func (r *Resolver) StylesheetPath() string {
	return filepath.Join(r.docHome, "custom.css")
}

// LandingPath returns the optional markdown landing page source.
func (r *Resolver) LandingPath() string {
	return filepath.Join(r.docHome, "index.md")
}
