package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the scraper knobs and the monitor watch list.
type Config struct {
	Scraper struct {
		PageDelaySeconds int `yaml:"page_delay_seconds"`
		Retries          int `yaml:"retries"`
		TimeoutSeconds   int `yaml:"timeout_seconds"`
	} `yaml:"scraper"`

	Database struct {
		// URL overrides the DATABASE_URL environment variable.
		URL string `yaml:"url"`
	} `yaml:"database"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Watches []WatchConfig `yaml:"watches"`
}

// WatchConfig is one recurring search the monitor keeps re-running.
type WatchConfig struct {
	Source          string   `yaml:"source"`
	Terms           []string `yaml:"terms"`
	Pages           int      `yaml:"pages"` // first N pages per term; 0 = all
	IntervalMinutes int      `yaml:"interval_minutes"`
	KeyColumn       string   `yaml:"key_column"` // record identity column; default "link"
}

// Interval returns the watch period.
func (w WatchConfig) Interval() time.Duration {
	if w.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(w.IntervalMinutes) * time.Minute
}

// Key returns the column identifying a record for new-row detection.
func (w WatchConfig) Key() string {
	if w.KeyColumn == "" {
		return "link"
	}
	return w.KeyColumn
}

// PageDelay returns the pause between page fetches.
func (c *Config) PageDelay() time.Duration {
	if c.Scraper.PageDelaySeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Scraper.PageDelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	if c.Scraper.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for i, w := range cfg.Watches {
		if w.Source == "" || len(w.Terms) == 0 {
			return nil, fmt.Errorf("watch %d: source and terms are required", i)
		}
	}
	return &cfg, nil
}

// GetDefaultConfig returns a configuration with the built-in defaults and no
// watches.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scraper.PageDelaySeconds = 2
	cfg.Scraper.Retries = 3
	cfg.Scraper.TimeoutSeconds = 30
	return cfg
}
