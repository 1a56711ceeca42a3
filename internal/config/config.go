package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"clinicbook/internal/eventbus"
	"clinicbook/internal/pagination"
)

// Config represents the application configuration
type Config struct {
	Version        int           `toml:"version"`
	APIBaseURL     string        `toml:"api_base_url"`
	ICHISearchURL  string        `toml:"ichi_search_url"` // prefix, the query is appended
	ICDSearchURL   string        `toml:"icd_search_url"`
	SearchLimit    int           `toml:"search_limit"`
	DebounceMS     int           `toml:"debounce_ms"`
	MinQueryLength int           `toml:"min_query_length"`
	ItemsPerPage   int           `toml:"items_per_page"`
	RequestTimeout Duration      `toml:"request_timeout"`
	LogFile        string        `toml:"log_file"`
	LogLevel       string        `toml:"log_level"`
	Cache          CacheSettings `toml:"cache"`
	UISettings     UISettings    `toml:"ui"`
}

// CacheSettings configures the terminology search cache
type CacheSettings struct {
	Size int      `toml:"size"` // 0 disables the cache
	TTL  Duration `toml:"ttl"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHelpBar   bool `toml:"show_help_bar"`
	ResetAfterMS  int  `toml:"reset_after_ms"` // delay before the booking form resets after success
	ResourcePager bool `toml:"resource_pager"`  // open booked FHIR resources in the pager
}

// Debounce returns the typeahead debounce interval
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ResetAfter returns the booking form reset delay
func (c *Config) ResetAfter() time.Duration {
	return time.Duration(c.UISettings.ResetAfterMS) * time.Millisecond
}

// Duration is a time.Duration stored as a Go duration string ("15s", "5m")
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "clinicbook", "config.toml")
}

// NewConfigService creates a config service reading the per-user config file
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service bound to path
func NewConfigServiceAt(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigServiceAt(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{APIBaseURL: cfg.APIBaseURL})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from the
// file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		APIBaseURL:     "http://localhost",
		ICHISearchURL:  "http://localhost/api/ichi/search?q=",
		SearchLimit:    100,
		DebounceMS:     300,
		MinQueryLength: 2,
		ItemsPerPage:   10,
		RequestTimeout: Duration(15 * time.Second),
		LogFile:        "clinicbook.log",
		LogLevel:       "info",
		Cache: CacheSettings{
			Size: 256,
			TTL:  Duration(5 * time.Minute),
		},
		UISettings: UISettings{
			ShowHelpBar:   true,
			ResetAfterMS:  3000,
			ResourcePager: true,
		},
	}
}

// Normalize replaces out-of-range values with defaults
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.SearchLimit <= 0 {
		c.SearchLimit = def.SearchLimit
	}
	if c.DebounceMS < 0 {
		c.DebounceMS = def.DebounceMS
	}
	if c.MinQueryLength <= 0 {
		c.MinQueryLength = def.MinQueryLength
	}
	if !pagination.ValidPageSize(c.ItemsPerPage) {
		c.ItemsPerPage = def.ItemsPerPage
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.UISettings.ResetAfterMS < 0 {
		c.UISettings.ResetAfterMS = def.UISettings.ResetAfterMS
	}
}
