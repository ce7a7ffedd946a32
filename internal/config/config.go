package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the tool root.
const FileName = "recipe_index.yaml"

// Config holds the build and preview settings. Every path is resolved
// against the tool root by Load.
type Config struct {
	RecipesDir string        `yaml:"recipes_dir"`
	AssetDir   string        `yaml:"asset_dir"`
	ListFile   string        `yaml:"list_file"`
	IndexFile  string        `yaml:"index_file"`
	ListPrefix string        `yaml:"list_prefix"`
	Extensions []string      `yaml:"extensions"`
	Script     ScriptConfig  `yaml:"script"`
	Catalog    CatalogConfig `yaml:"catalog"`
	Preview    PreviewConfig `yaml:"preview"`
	Logging    LoggingConfig `yaml:"logging"`
}

// ScriptConfig describes the front-end script rewritten by injection mode.
type ScriptConfig struct {
	Path      string `yaml:"path"`
	ArrayName string `yaml:"array_name"`
}

// CatalogConfig enables the SQLite export when Path is set.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// PreviewConfig holds preview server settings.
type PreviewConfig struct {
	Addr    string `yaml:"addr"`
	SiteDir string `yaml:"site_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by ENV)
	File  string `yaml:"file"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.RecipesDir == "" {
		c.RecipesDir = "recipes"
	}
	if c.AssetDir == "" {
		c.AssetDir = "asset"
	}
	if c.ListFile == "" {
		c.ListFile = "recipes.json"
	}
	if c.IndexFile == "" {
		c.IndexFile = "Info.json"
	}
	if c.ListPrefix == "" {
		c.ListPrefix = "recipes"
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".json", ".yaml", ".yml"}
	}
	if c.Script.Path == "" {
		c.Script.Path = filepath.Join("js", "app.js")
	}
	if c.Script.ArrayName == "" {
		c.Script.ArrayName = "fileNames"
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = ":8080"
	}
	if c.Preview.SiteDir == "" {
		c.Preview.SiteDir = "."
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if strings.ContainsAny(c.ListPrefix, `\`) {
		return fmt.Errorf("list_prefix %q must use forward slashes", c.ListPrefix)
	}
	if !isIdent(c.Script.ArrayName) {
		return fmt.Errorf("script.array_name %q is not an identifier", c.Script.ArrayName)
	}
	return nil
}

// Load reads root/.env and root/recipe_index.yaml (both optional), applies
// defaults and resolves relative paths against root. A non-empty path
// overrides the config file location.
func Load(root, path string) (Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	var cfg Config
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = os.Getenv("LOG_LEVEL")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	cfg.resolve(root)
	return cfg, nil
}

func (c *Config) resolve(root string) {
	for _, p := range []*string{&c.RecipesDir, &c.AssetDir, &c.Script.Path, &c.Catalog.Path, &c.Preview.SiteDir, &c.Logging.File} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, *p)
		}
	}
}

// ListPath is the destination of the list-form artifact.
func (c Config) ListPath() string { return filepath.Join(c.AssetDir, c.ListFile) }

// IndexPath is the destination of the index-form artifact.
func (c Config) IndexPath() string { return filepath.Join(c.AssetDir, c.IndexFile) }

// ToolDir returns the directory the tool lives in. Binaries started by
// `go run` live in a temp build dir, so the working directory is used instead.
func ToolDir() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		exe, err = filepath.EvalSymlinks(exe)
	}
	if err != nil {
		return os.Getwd()
	}
	dir := filepath.Dir(exe)
	tmp, _ := filepath.EvalSymlinks(os.TempDir())
	if tmp != "" && strings.HasPrefix(dir, tmp+string(filepath.Separator)) {
		return os.Getwd()
	}
	return dir, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
