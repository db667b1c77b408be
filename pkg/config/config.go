package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Cache struct {
		TTL        time.Duration `yaml:"ttl"`
		MaxEntries int           `yaml:"max_entries"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Insights struct {
		DurableFreshness time.Duration `yaml:"durable_freshness"`
		CompetitorRadius int           `yaml:"competitor_radius"`
	} `yaml:"insights"`
	Providers struct {
		Timeout  time.Duration `yaml:"timeout"`
		Economic struct {
			WorldBankURL string `yaml:"worldbank_url"`
			IMFURL       string `yaml:"imf_url"`
		} `yaml:"economic"`
		Countries struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"countries"`
		Geocode struct {
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"geocode"`
		Places struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"places"`
		News struct {
			FeedURL  string `yaml:"feed_url"`
			MaxItems int    `yaml:"max_items"`
		} `yaml:"news"`
		Reddit struct {
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
			MaxItems  int    `yaml:"max_items"`
		} `yaml:"reddit"`
		Firehose struct {
			Enabled        bool          `yaml:"enabled"`
			URL            string        `yaml:"url"`
			BufferSize     int           `yaml:"buffer_size"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
		} `yaml:"firehose"`
	} `yaml:"providers"`
	Scheduler struct {
		Enabled        bool          `yaml:"enabled"`
		ScanInterval   time.Duration `yaml:"scan_interval"`
		MaxPerRun      int           `yaml:"max_per_run"`
		BatchSize      int           `yaml:"batch_size"`
		BatchPause     time.Duration `yaml:"batch_pause"`
		ForceBatchSize int           `yaml:"force_batch_size"`
		ForcePause     time.Duration `yaml:"force_pause"`
	} `yaml:"scheduler"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

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

	if v := os.Getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("GEOCODE_URL"); v != "" {
		c.Providers.Geocode.BaseURL = v
	}
	if v := os.Getenv("PLACES_URL"); v != "" {
		c.Providers.Places.BaseURL = v
	}
	if v := os.Getenv("FIREHOSE_URL"); v != "" {
		c.Providers.Firehose.URL = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 1000
	}
	if c.Insights.DurableFreshness == 0 {
		c.Insights.DurableFreshness = 7 * 24 * time.Hour
	}
	if c.Insights.CompetitorRadius == 0 {
		c.Insights.CompetitorRadius = 5000
	}
	if c.Providers.Timeout == 0 {
		c.Providers.Timeout = 25 * time.Second
	}
	if c.Providers.News.MaxItems == 0 {
		c.Providers.News.MaxItems = 30
	}
	if c.Providers.Reddit.MaxItems == 0 {
		c.Providers.Reddit.MaxItems = 25
	}
	if c.Providers.Firehose.BufferSize == 0 {
		c.Providers.Firehose.BufferSize = 5000
	}
	if c.Providers.Firehose.ReconnectDelay == 0 {
		c.Providers.Firehose.ReconnectDelay = 5 * time.Second
	}
	if c.Providers.Firehose.PingInterval == 0 {
		c.Providers.Firehose.PingInterval = 30 * time.Second
	}
	if c.Scheduler.ScanInterval == 0 {
		c.Scheduler.ScanInterval = time.Hour
	}
	if c.Scheduler.MaxPerRun == 0 {
		c.Scheduler.MaxPerRun = 50
	}
	if c.Scheduler.BatchSize == 0 {
		c.Scheduler.BatchSize = 5
	}
	if c.Scheduler.BatchPause == 0 {
		c.Scheduler.BatchPause = 30 * time.Second
	}
	if c.Scheduler.ForceBatchSize == 0 {
		c.Scheduler.ForceBatchSize = 3
	}
	if c.Scheduler.ForcePause == 0 {
		c.Scheduler.ForcePause = 60 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Providers.Firehose.Enabled && c.Providers.Firehose.URL == "" {
		return fmt.Errorf("providers.firehose.url is required when firehose is enabled")
	}
	return nil
}
