package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/prdash/internal/constants"
	"github.com/spiffcs/prdash/internal/model"
)

// AuthorEnv overrides the configured author when set.
const AuthorEnv = "PRDASH_AUTHOR"

// ErrUnknownKey is returned by Set for keys the config does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the application configuration
type Config struct {
	Author         string `yaml:"author,omitempty" json:"author,omitempty"`
	PageSize       int    `yaml:"page_size,omitempty" json:"page_size,omitempty"`
	SearchPageSize int    `yaml:"search_page_size,omitempty" json:"search_page_size,omitempty"`
	DefaultStatus  string `yaml:"default_status,omitempty" json:"default_status,omitempty"`
	DefaultSort    string `yaml:"default_sort,omitempty" json:"default_sort,omitempty"`
	DefaultFormat  string `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	DataDir        string `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	APIURL         string `yaml:"api_url,omitempty" json:"api_url,omitempty"`
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	return &Config{
		Author:         constants.DefaultAuthor,
		PageSize:       constants.DefaultPageSize,
		SearchPageSize: constants.DefaultSearchPageSize,
		DefaultStatus:  string(model.FilterAll),
		DefaultSort:    string(model.SortNewest),
		DefaultFormat:  "table",
	}
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".prdash"
	}
	return filepath.Join(configDir, "prdash")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".prdash.yaml"
}

// Load loads the configuration from disk.
// It starts from the defaults, merges the global config from the user config
// directory, then any local .prdash.yaml (local values take precedence), and
// finally applies the PRDASH_AUTHOR environment override.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath(), os.Getenv)
}

// LoadFrom is Load with explicit paths and environment lookup.
func LoadFrom(globalPath, localPath string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	for _, src := range []struct {
		path  string
		label string
	}{
		{globalPath, "global"},
		{localPath, "local"},
	} {
		fileCfg, err := readFile(src.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s config file: %w", src.label, err)
		}
		if fileCfg != nil {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	if getenv != nil {
		if author := strings.TrimSpace(getenv(AuthorEnv)); author != "" {
			cfg.Author = author
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile parses one config file. A missing file yields nil.
func readFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.Author != "" {
		result.Author = local.Author
	}
	if local.PageSize != 0 {
		result.PageSize = local.PageSize
	}
	if local.SearchPageSize != 0 {
		result.SearchPageSize = local.SearchPageSize
	}
	if local.DefaultStatus != "" {
		result.DefaultStatus = local.DefaultStatus
	}
	if local.DefaultSort != "" {
		result.DefaultSort = local.DefaultSort
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if local.DataDir != "" {
		result.DataDir = local.DataDir
	}
	if local.APIURL != "" {
		result.APIURL = local.APIURL
	}

	return &result
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Author) == "" {
		errs = append(errs, errors.New("author must not be empty"))
	}
	if c.PageSize < 1 || c.PageSize > constants.MaxPageSize {
		errs = append(errs, fmt.Errorf("page_size must be between 1 and %d, got %d", constants.MaxPageSize, c.PageSize))
	}
	if c.SearchPageSize < 1 || c.SearchPageSize > constants.MaxPageSize {
		errs = append(errs, fmt.Errorf("search_page_size must be between 1 and %d, got %d", constants.MaxPageSize, c.SearchPageSize))
	}
	if _, err := model.ParseStatusFilter(c.DefaultStatus); err != nil {
		errs = append(errs, fmt.Errorf("default_status: %w", err))
	}
	if _, err := model.ParseSortMode(c.DefaultSort); err != nil {
		errs = append(errs, fmt.Errorf("default_sort: %w", err))
	}
	if c.DefaultFormat != "" && c.DefaultFormat != "table" && c.DefaultFormat != "json" && c.DefaultFormat != "markdown" {
		errs = append(errs, fmt.Errorf("default_format must be table, json or markdown, got %q", c.DefaultFormat))
	}

	return errors.Join(errs...)
}

// StatusFilter returns the configured default status filter.
func (c *Config) StatusFilter() model.StatusFilter {
	f, err := model.ParseStatusFilter(c.DefaultStatus)
	if err != nil {
		return model.FilterAll
	}
	return f
}

// SortMode returns the configured default sort.
func (c *Config) SortMode() model.SortMode {
	m, err := model.ParseSortMode(c.DefaultSort)
	if err != nil {
		return model.SortNewest
	}
	return m
}

// Set updates one key from its string form and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c

	switch key {
	case "author":
		next.Author = value
	case "page_size", "search_page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", key, err)
		}
		if key == "page_size" {
			next.PageSize = n
		} else {
			next.SearchPageSize = n
		}
	case "default_status", "status":
		next.DefaultStatus = value
	case "default_sort", "sort":
		next.DefaultSort = value
	case "default_format", "format":
		next.DefaultFormat = value
	case "data_dir":
		next.DataDir = value
	case "api_url":
		next.APIURL = value
	case "token":
		return fmt.Errorf("prdash makes unauthenticated requests and has no token setting")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save saves the configuration to the global config file
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes the configuration to path, creating directories as needed.
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(path, string(data))
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# prdash configuration file
# See: prdash config defaults  (for all available options)

# GitHub login whose pull requests are listed (PRDASH_AUTHOR overrides)
author: ` + constants.DefaultAuthor + `

# Rows per page in the paged view
# page_size: 6

# Initial status filter (all, open, closed) and sort (newest, oldest, repo)
# default_status: all
# default_sort: newest

# Output format for non-interactive runs: table, json or markdown
# default_format: table

# Where the local todo, movie and problem lists are kept
# data_dir: ~/.config/prdash/data

# GitHub Enterprise API endpoint
# api_url: https://github.example.com/api/v3/
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
