package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	N8N struct {
		BaseURL        string `mapstructure:"base_url"`
		APIKey         string `mapstructure:"api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"n8n"`
	Sync struct {
		Auto            bool `mapstructure:"auto"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"sync"`
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

// N8NTimeout returns the per-call timeout for the n8n client.
func (c *Config) N8NTimeout() time.Duration {
	return time.Duration(c.N8N.TimeoutSeconds) * time.Second
}

// SyncInterval returns the cadence of the background reconciliation job.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalMinutes) * time.Minute
}

// LoadConfig loads the configuration from a file and the environment. An
// optional .env file can seed the environment before viper reads it.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, err
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("n8n.base_url", "http://localhost:5678")
	viper.SetDefault("n8n.timeout_seconds", 30)
	viper.SetDefault("sync.auto", true)
	viper.SetDefault("sync.interval_minutes", 60)
	viper.SetDefault("server.addr", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		// missing config file is fine, env and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.N8N.BaseURL = normalizeBaseURL(config.N8N.BaseURL)

	return &config, nil
}

// normalizeBaseURL strips any trailing slash so endpoint paths can be
// appended without doubling.
func normalizeBaseURL(input string) string {
	return strings.TrimRight(strings.TrimSpace(input), "/")
}
