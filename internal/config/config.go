package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"TradeView/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "configs/config.yaml"

	defaultHTTPHost        = "0.0.0.0"
	defaultHTTPPort        = 8080
	defaultDataURL         = "http://localhost:8080/dummy_historical_data.csv"
	defaultTimeoutSeconds  = 30
	defaultStorageDriver   = "sqlite"
	defaultSQLitePath      = "data/tradeview.db"
	defaultSettingsFile    = "data/settings.json"
	defaultRedisPrefix     = "tradeview:"
	defaultChartWidth      = 1200
	defaultChartHeight     = 600
	defaultCacheTTLSeconds = 30
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// Config holds all application configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Cache      CacheConfig      `yaml:"cache"`
	Chart      ChartConfig      `yaml:"chart"`
	Log        LogConfig        `yaml:"log"`
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// DataSourceConfig says where the historical CSV comes from. File wins over URL.
type DataSourceConfig struct {
	URL            string `yaml:"url" validate:"omitempty,url"`
	File           string `yaml:"file"`
	Proxy          string `yaml:"proxy" validate:"omitempty,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1"`
}

// Timeout returns the HTTP timeout as a duration.
func (d DataSourceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// ScheduleConfig controls periodic reloads. An empty ReloadCron disables them.
type ScheduleConfig struct {
	ReloadCron string `yaml:"reload_cron"`
}

// StorageConfig selects where settings are persisted.
type StorageConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=sqlite redis file memory"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	FilePath   string `yaml:"file_path" validate:"required_if=Driver file"`
}

// RedisConfig stores Redis connection parameters. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
	Prefix   string `yaml:"prefix"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// CacheConfig stores response cache behaviour.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" validate:"min=0"`
}

// TTL returns the cache lifetime. Zero disables the cache.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ChartConfig sets the rendered image size.
type ChartConfig struct {
	Width  int `yaml:"width" validate:"min=200,max=8000"`
	Height int `yaml:"height" validate:"min=150,max=8000"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load reads config from a YAML file, then .env, then environment variable
// overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "read config", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "parse config", err)
		}
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "load .env", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfiguration, "environment override", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString("DATA_URL", &c.DataSource.URL)
	setString("DATA_FILE", &c.DataSource.File)
	setString("HTTPS_PROXY", &c.DataSource.Proxy)
	setString("HTTP_HOST", &c.HTTP.Host)
	setString("RELOAD_CRON", &c.Schedule.ReloadCron)
	setString("STORAGE_DRIVER", &c.Storage.Driver)
	setString("SQLITE_PATH", &c.Storage.SQLitePath)
	setString("SETTINGS_FILE", &c.Storage.FilePath)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)

	if err := setInt("HTTP_PORT", &c.HTTP.Port); err != nil {
		return err
	}
	if err := setInt("REDIS_DB", &c.Redis.DB); err != nil {
		return err
	}
	if err := setInt("CACHE_TTL_SECONDS", &c.Cache.TTLSeconds); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = defaultHTTPHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}
	if c.DataSource.URL == "" && c.DataSource.File == "" {
		c.DataSource.URL = defaultDataURL
	}
	if c.DataSource.TimeoutSeconds == 0 {
		c.DataSource.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultStorageDriver
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = defaultSQLitePath
	}
	if c.Storage.FilePath == "" {
		c.Storage.FilePath = defaultSettingsFile
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = defaultRedisPrefix
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = defaultChartWidth
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = defaultChartHeight
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidConfiguration, "invalid config", err)
	}
	if c.DataSource.URL == "" && c.DataSource.File == "" {
		return apperrors.New(apperrors.CodeInvalidConfiguration, "data_source.url or data_source.file is required")
	}
	if c.Storage.Driver == "redis" && !c.Redis.Enabled() {
		return apperrors.New(apperrors.CodeInvalidConfiguration, "storage.driver redis requires redis.addr")
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("convert %s value %q to int: %w", key, v, err)
	}
	*dst = parsed
	return nil
}
