// internal/config/config.go
//
// This package handles configuration and the budgetbook config directory.
// Settings live in a single config.yaml next to the log files.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory name created under the user config root.
	AppDir = "budgetbook"

	defaultBaseURL    = "http://localhost:8080/api/v1"
	defaultPageSize   = 10
	defaultDateFormat = "Jan 2, 2006"
)

// SubcategoryPolicy decides what the dependent subcategory filter offers
// when no parent category is selected. The two filtered pages of the
// product disagree on this, so it is an explicit per-install choice.
type SubcategoryPolicy string

const (
	// SubcategoriesAll offers the full subcategory universe.
	SubcategoriesAll SubcategoryPolicy = "all"
	// SubcategoriesNone offers an empty set until a category is picked.
	SubcategoriesNone SubcategoryPolicy = "none"
)

const defaultConfigYAML = `# budgetbook configuration
version: 1

api:
  # Base URL of the budgeting backend.
  base_url: http://localhost:8080/api/v1

ui:
  # Rows per page on list screens.
  page_size: 10
  # Go time layout used to render dates.
  date_format: Jan 2, 2006

filters:
  # What the subcategory filter offers with no category selected: all | none
  unscoped_subcategories: all
`

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize   int    `yaml:"page_size"`
	DateFormat string `yaml:"date_format"`
}

// FilterConfig holds list-filter behavior settings.
type FilterConfig struct {
	UnscopedSubcategories SubcategoryPolicy `yaml:"unscoped_subcategories"`
}

// FileConfig models config.yaml.
type FileConfig struct {
	Version int          `yaml:"version"`
	API     APIConfig    `yaml:"api"`
	UI      UIConfig     `yaml:"ui"`
	Filters FilterConfig `yaml:"filters"`
}

// Config is the runtime configuration.
type Config struct {
	// Dir is the budgetbook config directory.
	Dir string

	File FileConfig
}

// ResolveDir returns the config directory: $BUDGETBOOK_CONFIG when set,
// otherwise <user config dir>/budgetbook.
func ResolveDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("BUDGETBOOK_CONFIG")); dir != "" {
		return filepath.Clean(dir), nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(root, AppDir), nil
}

// Init creates the config directory structure and a default config.yaml
// when none exists yet. Called once at startup.
func Init(dir string) error {
	dirs := []string{
		dir,
		filepath.Join(dir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(dir, "config.yaml"))
}

// New loads configuration from dir, applying defaults for anything the
// file does not set.
func New(dir string) (*Config, error) {
	cfg := &Config{
		Dir:  dir,
		File: defaultFileConfig(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the on-disk location of config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// LogsDir returns the directory holding log files.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Dir, "logs")
}

// JournalPath returns the session journal file shown in the log panel.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// DiagnosticsPath returns the structured diagnostics log file.
func (c *Config) DiagnosticsPath() string {
	return filepath.Join(c.LogsDir(), "budgetbook.log")
}

// BaseURL returns the backend base URL.
func (c *Config) BaseURL() string { return c.File.API.BaseURL }

// PageSize returns the fixed page size for list screens.
func (c *Config) PageSize() int { return c.File.UI.PageSize }

// DateFormat returns the Go time layout for rendering dates.
func (c *Config) DateFormat() string { return c.File.UI.DateFormat }

// UnscopedSubcategories returns the dependent-filter policy.
func (c *Config) UnscopedSubcategories() SubcategoryPolicy {
	return c.File.Filters.UnscopedSubcategories
}

// SetBaseURL updates the backend base URL and persists the change.
func (c *Config) SetBaseURL(baseURL string) error {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return fmt.Errorf("config: base URL is required")
	}
	c.File.API.BaseURL = baseURL
	return c.save()
}

func (c *Config) load() error {
	path := c.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func (c *Config) save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		API:     APIConfig{BaseURL: defaultBaseURL},
		UI:      UIConfig{PageSize: defaultPageSize, DateFormat: defaultDateFormat},
		Filters: FilterConfig{UnscopedSubcategories: SubcategoriesAll},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.API.BaseURL) == "" {
		fc.API.BaseURL = defaultBaseURL
	}
	if fc.UI.PageSize == 0 {
		fc.UI.PageSize = defaultPageSize
	}
	if strings.TrimSpace(fc.UI.DateFormat) == "" {
		fc.UI.DateFormat = defaultDateFormat
	}
	if fc.Filters.UnscopedSubcategories == "" {
		fc.Filters.UnscopedSubcategories = SubcategoriesAll
	}
}

func (fc *FileConfig) normalize() {
	fc.API.BaseURL = strings.TrimRight(strings.TrimSpace(fc.API.BaseURL), "/")
	fc.UI.DateFormat = strings.TrimSpace(fc.UI.DateFormat)
	fc.Filters.UnscopedSubcategories = SubcategoryPolicy(
		strings.ToLower(strings.TrimSpace(string(fc.Filters.UnscopedSubcategories))),
	)
}

func (fc FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if fc.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if fc.UI.PageSize < 1 {
		return fmt.Errorf("ui.page_size must be >= 1")
	}
	switch fc.Filters.UnscopedSubcategories {
	case SubcategoriesAll, SubcategoriesNone:
	default:
		return fmt.Errorf("filters.unscoped_subcategories must be 'all' or 'none'")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
