package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// browsing sessions
	SessionStore      string `toml:"session_store"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	// records source
	Source                string `toml:"source"`
	SourceFilePath        string `toml:"source_file_path"`
	SourceURL             string `toml:"source_url"`
	SourceCacheTTLSeconds int    `toml:"source_cache_ttl_seconds"`
	PostgresHost          string `toml:"postgres_host"`
	PostgresPort          string `toml:"postgres_port"`
	PostgresDBName        string `toml:"postgres_db_name"`
	SQLitePath            string `toml:"sqlite_path"`
	// calendar
	TimeZone         string `toml:"time_zone"`
	FirstWeekday     string `toml:"first_weekday"`
	DefaultTimeFrame string `toml:"default_time_frame"`
	// admin routes
	AdminRateLimitAllowedPerMin int `toml:"admin_rate_limit_allowed_per_min"`
	// mcp
	MCPEnabled bool `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Docker      *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev", "docker":
		cfg = t.Docker
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env with
// defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return FromToml(&t, env)
}

// Parse is Load for in-memory TOML content.
func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return FromToml(&t, env)
}

func FromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9100
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "9101"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.SessionStore == "" {
		c.SessionStore = SessionStoreMemory
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 30
	}
	if c.Source == "" {
		c.Source = SourceFile
	}
	if c.SourceCacheTTLSeconds == 0 {
		c.SourceCacheTTLSeconds = 60
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.FirstWeekday == "" {
		c.FirstWeekday = "sunday"
	}
	if c.DefaultTimeFrame == "" {
		c.DefaultTimeFrame = "month"
	}
	if c.AdminRateLimitAllowedPerMin == 0 {
		c.AdminRateLimitAllowedPerMin = 10
	}
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceFile:
		if c.SourceFilePath == "" {
			return fmt.Errorf("source %q requires source_file_path", c.Source)
		}
	case SourceHTTP:
		if c.SourceURL == "" {
			return fmt.Errorf("source %q requires source_url", c.Source)
		}
	case SourcePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("source %q requires postgres_host and postgres_db_name", c.Source)
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("source %q requires sqlite_path", c.Source)
		}
	default:
		return fmt.Errorf("unknown source: %s", c.Source)
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("unknown session store: %s", c.SessionStore)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	return nil
}

// Location resolves time_zone; empty means the local time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %s: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) Weekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), c.FirstWeekday) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid first weekday: %s", c.FirstWeekday)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) SourceCacheTTL() time.Duration {
	return time.Duration(c.SourceCacheTTLSeconds) * time.Second
}
