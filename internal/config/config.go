package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default locations of the published CSV snapshots.
const (
	DefaultPredictionsURL = "https://raw.githubusercontent.com/Alamyy/ProWorth/refs/heads/main/predicted_market_values_2026.csv"
	DefaultHistoryURL     = "https://raw.githubusercontent.com/Alamyy/ProWorth/refs/heads/main/merged_df_2026.csv"
	DefaultProfilesURL    = "https://raw.githubusercontent.com/Alamyy/ProWorth/refs/heads/main/players.csv"
)

// Config holds all configuration for the application.
type Config struct {
	Sources  Sources  `mapstructure:"sources"`
	Fetch    Fetch    `mapstructure:"fetch"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

// Sources holds the URLs of the three CSV datasets.
type Sources struct {
	Predictions string `mapstructure:"predictions"`
	History     string `mapstructure:"history"`
	Profiles    string `mapstructure:"profiles"`
}

// Fetch holds the configuration for downloading the sources.
type Fetch struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the snapshot catalog.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Metrics holds the naming and histogram buckets of the Prometheus collectors.
type Metrics struct {
	Namespace string    `mapstructure:"namespace"`
	Subsystem string    `mapstructure:"subsystem"`
	Buckets   []float64 `mapstructure:"buckets"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // stderr, stdout or a file path
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and env still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file, e.g. FETCH_TIMEOUT=5s
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.predictions", DefaultPredictionsURL)
	v.SetDefault("sources.history", DefaultHistoryURL)
	v.SetDefault("sources.profiles", DefaultProfilesURL)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_limit", 5) // requests per second
	v.SetDefault("fetch.rate_limit_burst", 1)
	v.SetDefault("fetch.user_agent", "market-value-dashboard/1.0")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")

	v.SetDefault("server.port", 8080)

	v.SetDefault("database.dsn", "file::memory:?cache=shared")

	v.SetDefault("metrics.namespace", "market_value")
	v.SetDefault("metrics.subsystem", "dashboard")
}
