package publish

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"gopkg.in/yaml.v3"
)

// StampFile is the build stamp written at the root of the publish directory.
const StampFile = ".docgen-stamp.yaml"

// Stamp records what a publish run produced.
type Stamp struct {
	RunID   string            `yaml:"run_id"`
	BuiltAt time.Time         `yaml:"built_at"`
	Commit  string            `yaml:"commit,omitempty"`
	Crates  map[string]string `yaml:"crates"`
}

func (p *Publisher) writeStamp(dest string, versions map[string]string) error {
	stamp := Stamp{
		RunID:   p.runID,
		BuiltAt: time.Now().UTC(),
		Commit:  headCommit(p.resolver.Home()),
		Crates:  versions,
	}
	data, err := yaml.Marshal(&stamp)
	if err != nil {
		return fmt.Errorf("failed to marshal build stamp: %w", err)
	}
	path := filepath.Join(dest, StampFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write build stamp: %w", err)
	}
	slog.Debug("Wrote build stamp", "path", path, "commit", stamp.Commit)
	return nil
}

// ReadStamp loads the build stamp from a publish directory.
func ReadStamp(dest string) (*Stamp, error) {
	data, err := os.ReadFile(filepath.Join(dest, StampFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read build stamp: %w", err)
	}
	var stamp Stamp
	if err := yaml.Unmarshal(data, &stamp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal build stamp: %w", err)
	}
	return &stamp, nil
}

// headCommit returns the repository's HEAD commit hash. Best effort: an
// unreadable or absent repository yields an empty string, never an error.
func headCommit(repoPath string) string {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
