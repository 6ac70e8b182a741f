package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	xutil "CoinPulse/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Provider struct {
		BaseURL    string        `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		APIKey     string        `yaml:"api_key"`
		VsCurrency string        `yaml:"vs_currency" default:"usd"`
		Timeout    time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"provider"`
	Market struct {
		TrackedSymbols           []string      `yaml:"tracked_symbols"`
		CacheTTL                 time.Duration `yaml:"cache_ttl" default:"60s"`
		BroadcastInterval        time.Duration `yaml:"broadcast_interval" default:"30s"`
		NotificationThresholdPct float64       `yaml:"notification_threshold_pct" default:"5"`
	} `yaml:"market"`
	Prediction struct {
		ShortWindow    int           `yaml:"short_window" default:"5"`
		LongWindow     int           `yaml:"long_window" default:"10"`
		HistoryDays    int           `yaml:"history_days" default:"10"`
		AccuracyWindow time.Duration `yaml:"accuracy_window" default:"168h"`
	} `yaml:"prediction"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity" default:"10"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"1"`
	} `yaml:"ratelimit"`
	Redis struct {
		Enabled     bool   `yaml:"enabled"`
		Addr        string `yaml:"addr" default:"localhost:6379"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		SnapshotKey string `yaml:"snapshot_key" default:"coinpulse:snapshot"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Market.TrackedSymbols) == 0 {
		c.Market.TrackedSymbols = []string{"bitcoin", "ethereum", "dogecoin"}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = xutil.SplitList(v)
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("TRACKED_SYMBOLS"); v != "" {
		c.Market.TrackedSymbols = xutil.SplitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REDIS_ENABLED: %w", err)
		}
		c.Redis.Enabled = enabled
	}

	return c.Validate()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	if len(c.Market.TrackedSymbols) == 0 {
		return fmt.Errorf("market.tracked_symbols cannot be empty")
	}
	if c.Market.CacheTTL <= 0 {
		return fmt.Errorf("market.cache_ttl must be positive")
	}
	if c.Market.BroadcastInterval <= 0 {
		return fmt.Errorf("market.broadcast_interval must be positive")
	}
	if c.Market.NotificationThresholdPct <= 0 {
		return fmt.Errorf("market.notification_threshold_pct must be positive")
	}
	if c.Prediction.ShortWindow <= 0 || c.Prediction.LongWindow <= 0 {
		return fmt.Errorf("prediction windows must be positive")
	}
	if c.Prediction.ShortWindow > c.Prediction.LongWindow {
		return fmt.Errorf("prediction.short_window (%d) must not exceed long_window (%d)", c.Prediction.ShortWindow, c.Prediction.LongWindow)
	}
	if c.Prediction.HistoryDays <= 0 {
		return fmt.Errorf("prediction.history_days must be positive")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	return nil
}
