package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"MarketPredictor/internal/model"
)

// Config holds all application configuration.
type Config struct {
	APIKeys struct {
		AlphaVantage string `yaml:"alpha_vantage"`
		News         string `yaml:"news"`
	} `yaml:"api_keys"`
	Indices  []model.TrackedIndex `yaml:"indices"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
	Prediction struct {
		TechnicalWeight   float64 `yaml:"technical_weight"`
		SentimentWeight   float64 `yaml:"sentiment_weight"`
		MaxMagnitude      float64 `yaml:"max_magnitude"`
		ConfidenceFloor   float64 `yaml:"confidence_floor"`
		ConfidenceCeiling float64 `yaml:"confidence_ceiling"`
		DeadBand          float64 `yaml:"dead_band"`
	} `yaml:"prediction"`
	Quota struct {
		AlphaVantageDaily int `yaml:"alpha_vantage_daily"`
		NewsDaily         int `yaml:"news_daily"`
	} `yaml:"quota"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.APIKeys.AlphaVantage = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.APIKeys.News = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_UPDATE"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Indices) == 0 {
		cfg.Indices = []model.TrackedIndex{
			{Name: "S&P 500", Symbol: "SPY"},
			{Name: "FTSE 100", Symbol: "ISF.L"},
		}
	}
	if cfg.Schedule.UpdateCron == "" {
		// Every 3 hours, on the hour.
		cfg.Schedule.UpdateCron = "0 0 */3 * * *"
	}
	if cfg.Quota.AlphaVantageDaily == 0 {
		cfg.Quota.AlphaVantageDaily = 500
	}
	if cfg.Quota.NewsDaily == 0 {
		cfg.Quota.NewsDaily = 250
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_predictor.db"
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}

	return cfg, nil
}

// Validate checks that all required fields are set. The news key and
// Telegram credentials are optional: missing ones disable their features.
func (c *Config) Validate() error {
	if c.APIKeys.AlphaVantage == "" {
		return fmt.Errorf("api_keys.alpha_vantage is required")
	}
	for i, idx := range c.Indices {
		if idx.Symbol == "" {
			return fmt.Errorf("indices[%d].symbol is required", i)
		}
		if idx.Name == "" {
			return fmt.Errorf("indices[%d].name is required", i)
		}
	}
	p := c.Prediction
	if p.TechnicalWeight < 0 || p.SentimentWeight < 0 {
		return fmt.Errorf("prediction weights must not be negative")
	}
	if p.ConfidenceFloor != 0 && p.ConfidenceCeiling != 0 && p.ConfidenceFloor > p.ConfidenceCeiling {
		return fmt.Errorf("prediction.confidence_floor must not exceed confidence_ceiling")
	}
	return nil
}
