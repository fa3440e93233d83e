package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DocHome string  `yaml:"doc_home,omitempty"` // directory with images/, custom.css, index.md
	Dest    string  `yaml:"dest,omitempty"`     // publish directory, relative to the repo home
	Crates  []Crate `yaml:"crates"`
}

// Crate represents one crate whose documentation is built and published
type Crate struct {
	Name     string `yaml:"name"`
	Features string `yaml:"features,omitempty"` // cargo feature flags, space separated
	Subdir   string `yaml:"subdir,omitempty"`   // manifest directory relative to the repo home
	Primary  bool   `yaml:"primary,omitempty"`  // image assets land under this crate's tree
}

// DirName returns the crate's directory name under target/doc. Cargo
// replaces hyphens with underscores there.
func (c Crate) DirName() string {
	return strings.ReplaceAll(c.Name, "-", "_")
}

// Default returns the built-in configuration used when no config file
// exists: the ndarray workspace layout.
func Default() *Config {
	return &Config{
		DocHome: "docgen",
		Dest:    "master",
		Crates: []Crate{
			{Name: "ndarray", Features: "docs", Primary: true},
			{Name: "ndarray-rand", Subdir: "ndarray-rand"},
		},
	}
}

// Load loads configuration from the specified file. A missing file is not
// an error; the built-in defaults are returned instead.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.DocHome == "" {
		c.DocHome = "docgen"
	}
	if c.Dest == "" {
		c.Dest = "master"
	}
	if len(c.Crates) == 0 {
		c.Crates = Default().Crates
	}
	// Exactly one crate receives the image assets; default to the first.
	hasPrimary := false
	for _, crate := range c.Crates {
		if crate.Primary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		c.Crates[0].Primary = true
	}
}

// Validate checks the crate table for configuration mistakes.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Crates))
	primaries := 0
	for i, crate := range c.Crates {
		if crate.Name == "" {
			return fmt.Errorf("crate entry %d has no name", i)
		}
		if seen[crate.Name] {
			return fmt.Errorf("duplicate crate entry: %s", crate.Name)
		}
		seen[crate.Name] = true
		if crate.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		return fmt.Errorf("multiple crates marked primary; exactly one crate may receive image assets")
	}
	return nil
}

// Primary returns the crate whose published tree receives the image assets.
func (c *Config) Primary() Crate {
	for _, crate := range c.Crates {
		if crate.Primary {
			return crate
		}
	}
	return c.Crates[0]
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `# docgen configuration
doc_home: docgen
dest: master
crates:
  - name: ndarray
    features: docs
    primary: true
  - name: ndarray-rand
    subdir: ndarray-rand
`
	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
