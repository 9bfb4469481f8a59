// Package config loads aisync settings from <root>/.aisync/config.yaml,
// AISYNC_* environment variables and defaults, in that order of precedence
// below command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/aisync/internal/model"
)

const (
	// DirName is the per-project state directory.
	DirName = ".aisync"
	// EnvPrefix prefixes every environment override, e.g. AISYNC_SOURCE.
	EnvPrefix = "AISYNC"

	fileName = "config"
	fileType = "yaml"
	dbName   = "state.db"
)

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the resolved configuration for one project root.
type Config struct {
	Root          string    `mapstructure:"root"`
	Database      string    `mapstructure:"database"`
	Source        string    `mapstructure:"source"`
	Targets       []string  `mapstructure:"targets"`
	Types         []string  `mapstructure:"types"`
	UseSymlinks   bool      `mapstructure:"use_symlinks"`
	SyncDeletions bool      `mapstructure:"sync_deletions"`
	Log           LogConfig `mapstructure:"log"`
}

// FilePath returns the default config file location for root.
func FilePath(root string) string {
	return filepath.Join(root, DirName, fileName+"."+fileType)
}

// Default returns the configuration used when nothing is set.
func Default(root string) *Config {
	return &Config{
		Root:     root,
		Database: filepath.Join(root, DirName, dbName),
		Source:   string(model.SystemClaude),
		Targets:  []string{},
		Types:    []string{},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load resolves the configuration for root. cfgFile overrides the default
// file location; an explicit file must exist, the default one may not.
func Load(root, cfgFile string) (*Config, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	def := Default(abs)
	v := viper.New()
	v.SetDefault("root", def.Root)
	v.SetDefault("database", "")
	v.SetDefault("source", def.Source)
	v.SetDefault("targets", def.Targets)
	v.SetDefault("types", def.Types)
	v.SetDefault("use_symlinks", false)
	v.SetDefault("sync_deletions", false)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path == "" {
		path = FilePath(abs)
	}
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// The root is where the file was found, never something the file itself redirects.
	cfg.Root = abs
	if cfg.Database == "" {
		cfg.Database = def.Database
	} else if !filepath.IsAbs(cfg.Database) {
		cfg.Database = filepath.Join(abs, cfg.Database)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the system IDs, type names and log settings.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	for _, t := range c.Targets {
		if t == c.Source {
			return fmt.Errorf("target %q is also the source", t)
		}
	}
	if _, err := c.ArtifactTypes(); err != nil {
		return err
	}
	return nil
}

// SourceSystem returns the configured source.
func (c *Config) SourceSystem() model.SystemID {
	return model.SystemID(c.Source)
}

// TargetSystems returns the configured targets. Empty means every system but the source.
func (c *Config) TargetSystems() []model.SystemID {
	out := make([]model.SystemID, 0, len(c.Targets))
	for _, t := range c.Targets {
		out = append(out, model.SystemID(t))
	}
	return out
}

// ArtifactTypes parses the configured type filter. Empty means all types.
func (c *Config) ArtifactTypes() ([]model.ArtifactType, error) {
	return model.ParseArtifactTypes(c.Types)
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q", s)
	}
}

// Save writes cfg to path, creating the directory. The root is never written;
// the database path is written relative to it when it lives inside it.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	database := cfg.Database
	if rel, err := filepath.Rel(cfg.Root, database); err == nil && !strings.HasPrefix(rel, "..") {
		database = filepath.ToSlash(rel)
	}

	v := viper.New()
	v.SetConfigType(fileType)
	v.Set("database", database)
	v.Set("source", cfg.Source)
	v.Set("targets", cfg.Targets)
	v.Set("types", cfg.Types)
	v.Set("use_symlinks", cfg.UseSymlinks)
	v.Set("sync_deletions", cfg.SyncDeletions)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
