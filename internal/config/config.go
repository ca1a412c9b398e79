package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rpggio/cadence/internal/domain/session"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "CADENCE_"

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Transport TransportConfig `yaml:"transport" envPrefix:"TRANSPORT_"`
	Store     StoreConfig     `yaml:"store" envPrefix:"STORE_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Metrics   MetricsConfig   `yaml:"metrics" envPrefix:"METRICS_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode" env:"MODE"`
}

type StoreConfig struct {
	// Driver is "sqlite" or "badger".
	Driver string `yaml:"driver" env:"DRIVER"`
	Path   string `yaml:"path" env:"PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	// Path sends logs to a size-capped file instead of the console.
	Path string `yaml:"path" env:"PATH"`
}

type MetricsConfig struct {
	Timezone        string         `yaml:"timezone" env:"TIMEZONE"`
	Session         session.Config `yaml:",inline"`
	TeamConcurrency int            `yaml:"team_concurrency" env:"TEAM_CONCURRENCY"`
	BatchSize       int            `yaml:"batch_size" env:"BATCH_SIZE"`
}

type TelemetryConfig struct {
	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string `yaml:"service_name" env:"SERVICE_NAME"`
}

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"

	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "cadence.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Timezone:        "UTC",
			Session:         session.DefaultConfig(),
			TeamConcurrency: 4,
			BatchSize:       500,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "cadence",
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. An empty path falls back to CADENCE_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		errs = append(errs, fmt.Errorf("unknown transport mode %q", c.Transport.Mode))
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverBadger:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store path is required"))
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Metrics.Session.Timeout < 0 || c.Metrics.Session.MinSession < 0 {
		errs = append(errs, errors.New("session thresholds must not be negative"))
	}

	return errors.Join(errs...)
}

// Location resolves the metrics timezone. Empty means UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Metrics.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Metrics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid metrics timezone %q: %w", c.Metrics.Timezone, err)
	}
	return loc, nil
}
