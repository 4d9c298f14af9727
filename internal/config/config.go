package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "OUTREACH_SCANNER_CONFIG"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	databaseDSNEnv  = "DATABASE_DSN"

	dateLayout = "2006-01-02"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig `yaml:"logging"`
	Feeds      []string      `yaml:"feeds"`
	CutoffDate string        `yaml:"cutoffDate"`
	Storage    StorageConfig `yaml:"storage"`
	OpenAI     OpenAIConfig  `yaml:"openai"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects where the article collection is persisted.
// Driver is "file" (JSON document at Path) or "postgres" (DSN).
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// OpenAIConfig defines how to contact the extraction service.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// Cutoff parses the configured cutoff date.
func (c Config) Cutoff() (time.Time, error) {
	cutoff, err := time.Parse(dateLayout, c.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoffDate %q: %w", c.CutoffDate, err)
	}
	return cutoff, nil
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	if override.CutoffDate != "" {
		base.CutoffDate = override.CutoffDate
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:    LoggingConfig{Level: "info"},
		CutoffDate: "2025-11-01",
		Storage: StorageConfig{
			Driver: "file",
			Path:   "data.json",
		},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Feeds: []string{
			"https://www.fooddive.com/rss/",
			"https://www.bevnet.com/feed",
			"https://www.nosh.com/feed",
			"https://www.prnewswire.com/rss/consumer-products-latest-news.rss",
			"https://www.globenewswire.com/RssFeed/subjectcode/8",
			"https://www.glossy.co/feed/",
			"https://www.beautymatter.com/feed",
			"https://www.marketingdive.com/feeds/news/",
			"https://adage.com/section/rss",
		},
	}
}
