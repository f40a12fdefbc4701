package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/loctree/loctree/walker"
)

// ScanConfig is the reproducible, YAML-persisted companion to a snapshot:
// the configuration used to produce it. It is supplementary -- the
// normative artifact is snapshot.json -- but lets a caller re-run an
// identical scan without re-deriving the Walker configuration by hand.
type ScanConfig struct {
	Roots          []string          `yaml:"roots"`
	Extensions     []string          `yaml:"extensions,omitempty"`
	IgnorePatterns []string          `yaml:"ignore_patterns,omitempty"`
	UseGitignore   bool              `yaml:"use_gitignore"`
	MaxDepth       int               `yaml:"max_depth,omitempty"`
	IncludeHidden  bool              `yaml:"include_hidden,omitempty"`
	ScanAll        bool              `yaml:"scan_all,omitempty"`
	PyPackageRoots []string          `yaml:"py_package_roots,omitempty"`
	TSConfigPath   string            `yaml:"ts_config_path,omitempty"`
	CommandMacros  map[string]string `yaml:"command_macros,omitempty"`
}

// ToWalkerConfig converts the persisted ScanConfig into a walker.Config.
func (c ScanConfig) ToWalkerConfig(computeHash bool) walker.Config {
	return walker.Config{
		Roots:          c.Roots,
		Extensions:     c.Extensions,
		IgnorePatterns: c.IgnorePatterns,
		UseGitignore:   c.UseGitignore,
		MaxDepth:       c.MaxDepth,
		IncludeHidden:  c.IncludeHidden,
		ScanAll:        c.ScanAll,
		ComputeHash:    computeHash,
	}
}

const configFileName = "config.yaml"

// LoadConfig reads the YAML companion config from root's state directory.
func LoadConfig(root string) (*ScanConfig, error) {
	data, err := os.ReadFile(filepath.Join(StateDir(root), configFileName))
	if err != nil {
		return nil, fmt.Errorf("snapshot: read config: %w", err)
	}
	var cfg ScanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("snapshot: parse config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg as the YAML companion to root's state directory.
func SaveConfig(root string, cfg ScanConfig) error {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir %s: %w", dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("snapshot: marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, configFileName), data, 0o644)
}
