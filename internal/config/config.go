package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ohmkit/resistor-search/pkg/eseries"
)

// EnvPrefix is the prefix of every environment variable read by Load.
// "server.listenAddress" becomes RESISTOR_SEARCH_SERVER_LISTENADDRESS.
const EnvPrefix = "RESISTOR_SEARCH"

// Defaults applied when no other source provides a value.
const (
	DefaultListenAddress    = ":8080"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultSeries           = string(eseries.E12)
	DefaultTolerancePercent = 5.0
	DefaultCacheSize        = 128
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// ListenAddress is the host:port the HTTP server binds to.
	ListenAddress string `mapstructure:"listenAddress"`

	// ReadTimeout bounds reading one request, header through body.
	ReadTimeout time.Duration `mapstructure:"readTimeout"`

	// WriteTimeout bounds writing one response.
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`

	// ShutdownTimeout bounds the drain of in-flight requests on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// SearchConfig selects the value tables and the search defaults.
type SearchConfig struct {
	// Series names the default value table: E6, E12, or E24.
	Series string `mapstructure:"series"`

	// MinDecade and MaxDecade bound the decade range of the standard
	// tables. The default 0..6 spans 1.0 Ω through 8.2 MΩ for E12.
	MinDecade int `mapstructure:"minDecade"`
	MaxDecade int `mapstructure:"maxDecade"`

	// DefaultTolerancePercent applies when a search request leaves the
	// tolerance unset.
	DefaultTolerancePercent float64 `mapstructure:"defaultTolerancePercent"`

	// CacheSize caps the number of completed searches kept for reuse.
	// Zero disables the cache; negative removes the bound.
	CacheSize int `mapstructure:"cacheSize"`

	// CatalogPath points at an optional YAML file of custom value tables.
	CatalogPath string `mapstructure:"catalogPath"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	// Verbosity raises the amount of detail logged: 0 info, 1 debug,
	// 2 trace.
	Verbosity int `mapstructure:"verbosity"`

	// Development switches to the human-readable console encoding.
	Development bool `mapstructure:"development"`
}

// Config is the root configuration of the service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   DefaultListenAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Search: SearchConfig{
			Series:                  DefaultSeries,
			MinDecade:               eseries.DefaultMinDecade,
			MaxDecade:               eseries.DefaultMaxDecade,
			DefaultTolerancePercent: DefaultTolerancePercent,
			CacheSize:               DefaultCacheSize,
		},
		Logging: LoggingConfig{},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and RESISTOR_SEARCH_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listenAddress", DefaultListenAddress)
	v.SetDefault("server.readTimeout", DefaultReadTimeout)
	v.SetDefault("server.writeTimeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdownTimeout", DefaultShutdownTimeout)
	v.SetDefault("search.series", DefaultSeries)
	v.SetDefault("search.minDecade", eseries.DefaultMinDecade)
	v.SetDefault("search.maxDecade", eseries.DefaultMaxDecade)
	v.SetDefault("search.defaultTolerancePercent", DefaultTolerancePercent)
	v.SetDefault("search.cacheSize", DefaultCacheSize)
	v.SetDefault("search.catalogPath", "")
	v.SetDefault("logging.verbosity", 0)
	v.SetDefault("logging.development", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate checks the listener settings.
func (c *ServerConfig) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("listenAddress must not be empty")
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("readTimeout must be >= 0, got %s", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("writeTimeout must be >= 0, got %s", c.WriteTimeout)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdownTimeout must be >= 0, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Validate checks the table selection and the search defaults. The series
// name and decade range are checked by building the table they describe.
func (c *SearchConfig) Validate() error {
	if _, err := eseries.Build(eseries.Series(c.Series), c.MinDecade, c.MaxDecade); err != nil {
		return err
	}
	if c.DefaultTolerancePercent <= 0 || c.DefaultTolerancePercent > 100 {
		return fmt.Errorf("defaultTolerancePercent must be between 0 and 100, got %v", c.DefaultTolerancePercent)
	}
	return nil
}

// Validate checks the logger settings.
func (c *LoggingConfig) Validate() error {
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must be >= 0, got %d", c.Verbosity)
	}
	return nil
}
