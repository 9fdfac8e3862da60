// Package config provides configuration management for the fetch pipeline.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources             = errors.New("at least one data source is required")
	ErrSourceMissingAdapter  = errors.New("adapter is required")
	ErrSourceMissingURL      = errors.New("url is required")
	ErrInvalidSourceName     = errors.New("source name must start with a letter or digit and contain only letters, digits, '.', '_' or '-'")
	ErrDuplicateSourceName   = errors.New("source name is declared more than once")
	ErrUnsupportedParamValue = errors.New("params values must be strings, numbers or booleans")
	ErrNoEnabledSources      = errors.New("at least one source must be enabled")
	ErrInvalidOutputFormat   = errors.New("output.format must be 'csv' or 'markdown'")
	ErrInvalidTimeout        = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat      = errors.New("logging.format must be 'text' or 'json'")
)

// Output formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Defaults applied before validation.
const (
	DefaultOutputDir  = "."
	DefaultTimeoutSec = 30
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

var (
	sourceNamePattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	envReferencePattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)
)

// Config represents the complete fetcher configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Sources Sources       `yaml:"data_sources"`
}

// OutputConfig defines where and how normalized tables are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// HTTPConfig defines the outbound request behavior shared by all adapters.
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig represents one remote data feed.
type SourceConfig struct {
	Params  map[string]any `yaml:"params"`
	Enabled *bool          `yaml:"enabled"`
	// Name is the key under data_sources.
	Name       string `yaml:"-"`
	Adapter    string `yaml:"adapter"`
	URL        string `yaml:"url"`
	Credential string `yaml:"api_key"`
	// FetchFunction is the legacy spelling of Adapter.
	FetchFunction string `yaml:"fetch_function"`
}

// Sources keeps data sources in the order they are declared in the document.
type Sources []SourceConfig

// UnmarshalYAML decodes the data_sources mapping without losing key order.
func (s *Sources) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: data_sources must be a mapping of source name to settings", node.Line)
	}

	sources := make(Sources, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var src SourceConfig
		if err := value.Decode(&src); err != nil {
			return fmt.Errorf("data_sources.%s: %w", key.Value, err)
		}

		src.Name = key.Value
		sources = append(sources, src)
	}

	*s = sources

	return nil
}

// IsEnabled returns true unless the source is explicitly disabled.
func (s *SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// AdapterID returns the configured adapter, falling back to the legacy fetch_function key.
func (s *SourceConfig) AdapterID() string {
	if s.Adapter != "" {
		return s.Adapter
	}

	return s.FetchFunction
}

// QueryParams renders params as query string values. Null params are dropped.
// The result is a fresh map.
func (s *SourceConfig) QueryParams() map[string]string {
	out := make(map[string]string, len(s.Params))

	for key, value := range s.Params {
		if value == nil {
			continue
		}

		rendered, err := renderParam(value)
		if err != nil {
			continue
		}

		out[key] = rendered
	}

	return out
}

func renderParam(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrUnsupportedParamValue, value)
	}
}

// LoadConfig loads configuration from a YAML file. Environment variables from
// envFile (if it exists) are loaded before ${VAR} references in credentials are expanded.
func LoadConfig(path, envFile string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes, defaults, expands and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	for i := range cfg.Sources {
		cfg.Sources[i].Credential = expandCredential(cfg.Sources[i].Credential)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// expandCredential replaces ${VAR} references only. A bare $ is part of the key.
func expandCredential(credential string) string {
	return envReferencePattern.ReplaceAllStringFunc(credential, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}

	if c.Output.Format == "" {
		c.Output.Format = FormatCSV
	}

	if c.HTTP.TimeoutSec == 0 {
		c.HTTP.TimeoutSec = DefaultTimeoutSec
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Sources))
	enabledCount := 0

	for _, src := range c.Sources {
		if !sourceNamePattern.MatchString(src.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidSourceName, src.Name)
		}

		if seen[src.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSourceName, src.Name)
		}

		seen[src.Name] = true

		if strings.TrimSpace(src.AdapterID()) == "" {
			return fmt.Errorf("%w: data_sources.%s", ErrSourceMissingAdapter, src.Name)
		}

		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("%w: data_sources.%s", ErrSourceMissingURL, src.Name)
		}

		for _, key := range sortedKeys(src.Params) {
			if src.Params[key] == nil {
				continue
			}

			if _, err := renderParam(src.Params[key]); err != nil {
				return fmt.Errorf("data_sources.%s.params.%s: %w", src.Name, key, err)
			}
		}

		if src.IsEnabled() {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Output.Format != FormatCSV && c.Output.Format != FormatMarkdown {
		return ErrInvalidOutputFormat
	}

	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetEnabledSources returns only enabled sources, in declared order.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.IsEnabled() {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// SelectSources returns the enabled sources whose names are listed, in declared order.
// An empty list selects every enabled source.
func (c *Config) SelectSources(names []string) ([]SourceConfig, error) {
	enabled := c.GetEnabledSources()
	if len(names) == 0 {
		return enabled, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []SourceConfig

	for _, src := range enabled {
		if wanted[src.Name] {
			selected = append(selected, src)
			delete(wanted, src.Name)
		}
	}

	if len(wanted) > 0 {
		return nil, fmt.Errorf("unknown or disabled sources: %s", strings.Join(sortedKeys(wanted), ", "))
	}

	return selected, nil
}

// GetTimeout returns the per-request timeout.
func (h *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, Output: %s (%s), Timeout: %ds}",
		len(c.Sources),
		c.Output.Dir,
		c.Output.Format,
		c.HTTP.TimeoutSec,
	)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
