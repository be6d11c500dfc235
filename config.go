package gc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the tunables spec.md §6 lists under "Configuration options".
// It is a plain struct validated by Verify, the same shape
// compileopts.Options uses for tinygo's own build configuration.
type Config struct {
	// Threshold is the allocation byte count after which the next
	// allocation triggers a collection. Default 100 (illustrative, per
	// spec.md §6).
	Threshold uint64 `yaml:"threshold"`

	// UsedSpaceRatio is the post-collection fill ratio above which
	// Threshold is widened. Default 0.7.
	UsedSpaceRatio float64 `yaml:"used_space_ratio"`

	// LeakOnDrop, if true, skips the final collection when a Heap is torn
	// down, leaking any still-allocated boxes instead.
	LeakOnDrop bool `yaml:"leak_on_drop"`

	// Verbose enables colorized collection-cycle tracing, gated the way
	// gc_blocks.go gates its gcDebug println calls.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the spec.md §6 defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:      100,
		UsedSpaceRatio: 0.7,
	}
}

// Verify reports whether c holds legal values, following the
// fmt.Errorf("invalid %s option '%v': valid values are %s", ...) message
// shape compileopts/options.go uses for its own option validation.
func (c *Config) Verify() error {
	if c.UsedSpaceRatio <= 0 || c.UsedSpaceRatio > 1 {
		return fmt.Errorf("invalid used-space-ratio option '%v': valid values are in the range (0, 1]", c.UsedSpaceRatio)
	}
	if c.Threshold == 0 {
		return fmt.Errorf("invalid threshold option '%d': valid values are > 0", c.Threshold)
	}
	return nil
}

// LoadConfigYAML reads a Config from a YAML document, starting from
// DefaultConfig so an omitted field keeps its default instead of zeroing
// out. This is the one place this package reaches for an external config
// format, mirroring how tinygo's target files externalize build options.
func LoadConfigYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("gc: reading config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("gc: parsing config %q: %w", path, err)
	}
	if err := cfg.Verify(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
