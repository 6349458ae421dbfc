package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the dashboard configuration loaded from secrets.toml.
type Config struct {
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Sessions SessionsConfig `toml:"sessions"`
	Cache    CacheConfig    `toml:"cache"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// AuthConfig holds the two portal secrets.
type AuthConfig struct {
	Password      string `toml:"password"`
	AdminPassword string `toml:"admin_password"`
}

// DatabaseConfig points at the hosted REST endpoint of the analysis database.
type DatabaseConfig struct {
	URL             string  `toml:"url"`
	Key             string  `toml:"key"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	RateLimit       float64 `toml:"rate_limit"`
	QueryCacheTTL   int     `toml:"query_cache_ttl"`
	OptionsCacheTTL int     `toml:"options_cache_ttl"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SessionsConfig contains the local session store settings.
type SessionsConfig struct {
	Path               string `toml:"path"`
	IdleTimeoutMinutes int    `toml:"idle_timeout_minutes"`
	MaxOpenConns       int    `toml:"max_open_conns"`
	MaxIdleConns       int    `toml:"max_idle_conns"`
}

// CacheConfig selects the cache backend. An empty RedisAddr keeps the cache in memory.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Timeout returns the per-request timeout for REST calls.
func (c DatabaseConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IdleTimeout returns how long a session may sit unused before it expires.
func (c SessionsConfig) IdleTimeout() time.Duration {
	if c.IdleTimeoutMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// Addr returns the host:port the dashboard listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a secrets.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads envFile (when present) into the process environment and overlays WB_* variables onto c.
//
// Variables already set in the environment win over values from envFile.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
		}
	}

	setString(&c.Auth.Password, "WB_AUTH_PASSWORD")
	setString(&c.Auth.AdminPassword, "WB_AUTH_ADMIN_PASSWORD")
	setString(&c.Database.URL, "WB_DATABASE_URL")
	setString(&c.Database.Key, "WB_DATABASE_KEY")
	setString(&c.Server.Host, "WB_SERVER_HOST")
	setString(&c.Cache.RedisAddr, "WB_REDIS_ADDR")

	if v := os.Getenv("WB_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WB_SERVER_PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate reports every required secret that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.Password == "" {
		missing = append(missing, "auth.password")
	}
	if c.Auth.AdminPassword == "" {
		missing = append(missing, "auth.admin_password")
	}
	if c.Database.URL == "" {
		missing = append(missing, "database.url")
	}
	if c.Database.Key == "" {
		missing = append(missing, "database.key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, c.Server.Port)
	}

	return nil
}
