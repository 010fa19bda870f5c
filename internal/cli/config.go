package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/seitarof/gen-equality/internal/parser"
)

// DefaultConfigFile is loaded from the working directory when --config is
// not given and the file exists.
const DefaultConfigFile = ".gen-equality.yaml"

// DefaultOutputFile is the equality unit name, placed in the first path.
const DefaultOutputFile = "GeneratedEquality.g.cs"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config stores CLI options for a single run.
type Config struct {
	Paths          []string
	Out            string
	NotifyDir      string
	Nullable       string
	Exclude        []string
	Format         string
	Workers        int
	FailOnFindings bool
	Verbose        bool
	ConfigFile     string
}

// fileConfig is the YAML shape of the config file.
type fileConfig struct {
	Nullable       string   `yaml:"nullable"`
	Out            string   `yaml:"out"`
	NotifyDir      string   `yaml:"notify_dir"`
	Exclude        []string `yaml:"exclude"`
	Format         string   `yaml:"format"`
	Workers        int      `yaml:"workers"`
	FailOnFindings *bool    `yaml:"fail_on_findings"`
}

// OutputFilename returns the equality unit path for the generator layer.
func (c *Config) OutputFilename() string {
	if c.Out != "" {
		return c.Out
	}
	root := "."
	if len(c.Paths) > 0 {
		root = c.Paths[0]
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
	}
	return filepath.Join(root, DefaultOutputFile)
}

// NotifyOutputDir returns where AutoNotify units go; empty disables them.
func (c *Config) NotifyOutputDir() string {
	return c.NotifyDir
}

// NullableContext returns the project-wide nullable default.
func (c *Config) NullableContext() (parser.NullableContext, error) {
	return parser.ParseNullableContext(c.Nullable)
}

// WorkerCount returns the configured parallelism, defaulting to GOMAXPROCS.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks option values that flags alone cannot constrain.
func (c *Config) Validate() error {
	if _, err := c.NullableContext(); err != nil {
		return fmt.Errorf("%w: nullable: %v", ErrInvalidConfig, err)
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}

// LoadFile merges the YAML config file into cfg. Values only apply to
// options whose flag was not set explicitly. A missing default file is not
// an error; a missing explicit file is.
func LoadFile(cfg *Config, flags *pflag.FlagSet) error {
	path := cfg.ConfigFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	fc.applyTo(cfg, flags)
	return nil
}

func (fc fileConfig) applyTo(cfg *Config, flags *pflag.FlagSet) {
	unset := func(name string) bool {
		if flags == nil {
			return true
		}
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}
	if fc.Nullable != "" && unset(flagNullable) {
		cfg.Nullable = fc.Nullable
	}
	if fc.Out != "" && unset(flagOut) {
		cfg.Out = fc.Out
	}
	if fc.NotifyDir != "" && unset(flagNotifyDir) {
		cfg.NotifyDir = fc.NotifyDir
	}
	if len(fc.Exclude) > 0 && unset(flagExclude) {
		cfg.Exclude = trimAll(fc.Exclude)
	}
	if fc.Format != "" && unset(flagFormat) {
		cfg.Format = fc.Format
	}
	if fc.Workers != 0 && unset(flagWorkers) {
		cfg.Workers = fc.Workers
	}
	if fc.FailOnFindings != nil && unset(flagFailOnFindings) {
		cfg.FailOnFindings = *fc.FailOnFindings
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
