package recstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines store settings loadable from a YAML file.
type Config struct {
	Path                  string `yaml:"path"`
	ReadOnly              bool   `yaml:"readOnly"`
	SpaceReclaimMode      *int   `yaml:"spaceReclaimMode,omitempty"`
	SyncOnCommitDisabled  bool   `yaml:"syncOnCommitDisabled"`
	SizeLimit             int64  `yaml:"sizeLimit"`
	DeleteFilesAfterClose bool   `yaml:"deleteFilesAfterClose"`
}

// Options lowers the config into functional options.
func (c *Config) Options() []Option {
	var result []Option
	if c.ReadOnly {
		result = append(result, WithReadOnly(true))
	}
	if c.SpaceReclaimMode != nil {
		result = append(result, WithSpaceReclaimMode(*c.SpaceReclaimMode))
	}
	if c.SyncOnCommitDisabled {
		result = append(result, WithSyncOnCommitDisabled(true))
	}
	if c.SizeLimit > 0 {
		result = append(result, WithSizeLimit(c.SizeLimit))
	}
	if c.DeleteFilesAfterClose {
		result = append(result, WithDeleteFilesAfterClose(true))
	}
	return result
}

// LoadConfig reads and validates a YAML config.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("recstore: invalid config %s: %w", path, err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("recstore: config %s: path is required", path)
	}
	if cfg.Path, err = expandUserPath(cfg.Path); err != nil {
		return nil, err
	}
	if m := cfg.SpaceReclaimMode; m != nil && (*m < 0 || *m > 5) {
		return nil, fmt.Errorf("recstore: config %s: spaceReclaimMode %d out of range [0..5]", path, *m)
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
