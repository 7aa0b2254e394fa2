package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Storage     StorageConfig    `mapstructure:"storage"`
	MarketData  MarketDataConfig `mapstructure:"market_data"`
	Agent       AgentConfig      `mapstructure:"agent"`
	Export      ExportConfig     `mapstructure:"export"`
	Analysis    AnalysisConfig   `mapstructure:"analysis"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type CacheConfig struct {
	Dir        string `mapstructure:"dir"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type StorageConfig struct {
	DataDir           string `mapstructure:"data_dir"`
	MaxHistoryRecords int    `mapstructure:"max_history_records"`
}

type MarketDataConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type AgentConfig struct {
	APIKey         string `mapstructure:"api_key" json:"-" yaml:"-"`
	Model          string `mapstructure:"model"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type AnalysisConfig struct {
	DefaultType   string  `mapstructure:"default_type"`
	DefaultPeriod string  `mapstructure:"default_period"`
	RSIPeriod     int     `mapstructure:"rsi_period"`
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind API keys to their conventional environment variables
	if err := viper.BindEnv("agent.api_key", "ANTHROPIC_API_KEY"); err != nil {
		return nil, err
	}
	if err := viper.BindEnv("market_data.api_key", "MARKET_DATA_API_KEY"); err != nil {
		return nil, err
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if config.Cache.TTLSeconds <= 0 {
		return nil, errors.New("cache.ttl_seconds must be positive")
	}
	if config.Storage.MaxHistoryRecords <= 0 {
		return nil, errors.New("storage.max_history_records must be positive")
	}
	if config.Analysis.RSIPeriod < 2 {
		return nil, errors.New("analysis.rsi_period must be at least 2")
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)

	// Cache
	viper.SetDefault("cache.dir", "cache")
	viper.SetDefault("cache.ttl_seconds", 300)

	// Storage
	viper.SetDefault("storage.data_dir", "data")
	viper.SetDefault("storage.max_history_records", 50)

	// Market data
	viper.SetDefault("market_data.base_url", "https://www.alphavantage.co/query")
	viper.SetDefault("market_data.api_key", "")
	viper.SetDefault("market_data.timeout_seconds", 15)

	// Agent
	viper.SetDefault("agent.api_key", "")
	viper.SetDefault("agent.model", "claude-sonnet-4-20250514")
	viper.SetDefault("agent.max_tokens", 4096)
	viper.SetDefault("agent.timeout_seconds", 120)

	// Export
	viper.SetDefault("export.dir", "exports")

	// Analysis
	viper.SetDefault("analysis.default_type", "detailed")
	viper.SetDefault("analysis.default_period", "1Y")
	viper.SetDefault("analysis.rsi_period", 14)
	viper.SetDefault("analysis.risk_free_rate", 0.0)
}
