package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PADDOCK"

type Config struct {
	Server  ServerConfig
	Feeds   FeedsConfig
	Cache   CacheConfig
	Lookup  LookupConfig
	Display DisplayConfig
	Misc    MiscConfig
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// FeedConfig is one remote feed and its cache slot.
type FeedConfig struct {
	URL    string
	Slot   string
	Expiry time.Duration
}

type FeedsConfig struct {
	Schedule             FeedConfig
	DriverStandings      FeedConfig
	ConstructorStandings FeedConfig
	FetchTimeout         time.Duration
	UserAgent            string

	// WarmInterval refreshes every slot in the background. Zero disables it.
	WarmInterval time.Duration
}

type CacheConfig struct {
	Backend string
	Dir     string
}

// LookupConfig points to an optional override file for the built-in lookup table.
type LookupConfig struct {
	FilePath string
}

type DisplayConfig struct {
	Timezone      string
	AssetsBaseURL string
	IncludeFlag   bool
}

type MiscConfig struct {
	GinMode  string
	LogLevel string
}

// LoadConfig reads config.yaml from PADDOCK_CONFIG_PATH (default ./config), then applies
// PADDOCK_* environment overrides. A .env file in the working directory is loaded first.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithComponent("config").Warnf("cannot load .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault(envPrefix+"_CONFIG_PATH", "./config"))
	setDefaults(v)

	// PADDOCK_SERVER_PORT overrides server.port, PADDOCK_FEEDS_SCHEDULE_URL overrides feeds.schedule_url, ...
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Info("no config file found, using defaults and env vars")
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("feeds.schedule_url", "https://raw.githubusercontent.com/obegley95/Scriptable/refs/heads/main/_data/schedule/f1_schedule_2025.json")
	v.SetDefault("feeds.schedule_slot", "f1_schedule_cache.json")
	v.SetDefault("feeds.schedule_expiry", "12h")
	v.SetDefault("feeds.driver_standings_url", "https://api.jolpi.ca/ergast/f1/current/driverstandings.json")
	v.SetDefault("feeds.driver_standings_slot", "driver_standings_cache.json")
	v.SetDefault("feeds.driver_standings_expiry", "3h")
	v.SetDefault("feeds.constructor_standings_url", "https://api.jolpi.ca/ergast/f1/current/constructorstandings.json")
	v.SetDefault("feeds.constructor_standings_slot", "constructor_standings_cache.json")
	v.SetDefault("feeds.constructor_standings_expiry", "5h")
	v.SetDefault("feeds.fetch_timeout", "10s")
	v.SetDefault("feeds.user_agent", "paddock/1.0")
	v.SetDefault("feeds.warm_interval", "15m")

	v.SetDefault("cache.backend", store.BackendFile)
	v.SetDefault("cache.dir", "./data/cache")

	v.SetDefault("lookup.file_path", "")

	v.SetDefault("display.timezone", "Local")
	v.SetDefault("display.assets_base_url", "https://raw.githubusercontent.com/obegley95/Scriptable/refs/heads/main/_data")
	v.SetDefault("display.include_flag", true)

	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.log_level", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: v.GetString("server.cors_allowed_origins"),
		},
		Feeds: FeedsConfig{
			Schedule: FeedConfig{
				URL:    v.GetString("feeds.schedule_url"),
				Slot:   v.GetString("feeds.schedule_slot"),
				Expiry: v.GetDuration("feeds.schedule_expiry"),
			},
			DriverStandings: FeedConfig{
				URL:    v.GetString("feeds.driver_standings_url"),
				Slot:   v.GetString("feeds.driver_standings_slot"),
				Expiry: v.GetDuration("feeds.driver_standings_expiry"),
			},
			ConstructorStandings: FeedConfig{
				URL:    v.GetString("feeds.constructor_standings_url"),
				Slot:   v.GetString("feeds.constructor_standings_slot"),
				Expiry: v.GetDuration("feeds.constructor_standings_expiry"),
			},
			FetchTimeout: v.GetDuration("feeds.fetch_timeout"),
			UserAgent:    v.GetString("feeds.user_agent"),
			WarmInterval: v.GetDuration("feeds.warm_interval"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("cache.backend")),
			Dir:     v.GetString("cache.dir"),
		},
		Lookup: LookupConfig{
			FilePath: v.GetString("lookup.file_path"),
		},
		Display: DisplayConfig{
			Timezone:      v.GetString("display.timezone"),
			AssetsBaseURL: v.GetString("display.assets_base_url"),
			IncludeFlag:   v.GetBool("display.include_flag"),
		},
		Misc: MiscConfig{
			GinMode:  v.GetString("misc.gin_mode"),
			LogLevel: v.GetString("misc.log_level"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server read/write/idle timeouts must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server request timeout must be positive")
	}

	feeds := map[string]FeedConfig{
		"schedule":              c.Feeds.Schedule,
		"driver_standings":      c.Feeds.DriverStandings,
		"constructor_standings": c.Feeds.ConstructorStandings,
	}
	for name, f := range feeds {
		if err := validateFeed(name, f); err != nil {
			return err
		}
	}
	if c.Feeds.FetchTimeout <= 0 {
		return errors.New("feeds fetch timeout must be positive")
	}
	if c.Feeds.WarmInterval < 0 {
		return errors.New("feeds warm interval must not be negative")
	}

	switch c.Cache.Backend {
	case store.BackendFile, store.BackendBadger:
		if strings.TrimSpace(c.Cache.Dir) == "" {
			return fmt.Errorf("cache dir is required for backend %q", c.Cache.Backend)
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func validateFeed(name string, f FeedConfig) error {
	if f.URL == "" {
		return fmt.Errorf("feeds %s url is required", name)
	}
	u, err := url.Parse(f.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("feeds %s url is not a valid URL: %q", name, f.URL)
	}
	if strings.TrimSpace(f.Slot) == "" {
		return fmt.Errorf("feeds %s slot is required", name)
	}
	if f.Expiry <= 0 {
		return fmt.Errorf("feeds %s expiry must be positive", name)
	}
	return nil
}

// Location returns the display timezone. Empty and "Local" mean time.Local.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Display.Timezone
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", tz, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	if value := os.Getenv(envKey); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, value, err)
		}
		return port, nil
	}
	return v.GetInt(viperKey), nil
}
