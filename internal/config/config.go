// Package config loads the bridge configuration and holds the runtime values the operator can change.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// Config is the root of the configuration file.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" json:"log" yaml:"log"`
	DataSource DataSourceConfig `mapstructure:"datasource" json:"datasource" yaml:"datasource"`
	Monitor    MonitorConfig    `mapstructure:"monitor" json:"monitor" yaml:"monitor"`
	Runtime    RuntimeConfig    `mapstructure:"runtime" json:"runtime" yaml:"runtime"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard" json:"dashboard" yaml:"dashboard"`
	Metrics    MetricsConfig    `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr" yaml:"addr" jsonschema:"description=Listen address host:port" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" json:"idle_timeout" yaml:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins" json:"cors_origins" yaml:"cors_origins"`
}

// LogConfig configures the activity log.
type LogConfig struct {
	File       string `mapstructure:"file" json:"file" yaml:"file" jsonschema:"description=Append-only activity log file"`
	Level      string `mapstructure:"level" json:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// DataSourceConfig selects and configures the trading-platform provider.
type DataSourceConfig struct {
	Provider    string        `mapstructure:"provider" json:"provider" yaml:"provider" jsonschema:"enum=fixture,enum=binance-futures,enum=binance-futures-testnet" validate:"required,oneof=fixture binance-futures binance-futures-testnet"`
	FixturePath string        `mapstructure:"fixture_path" json:"fixture_path" yaml:"fixture_path" validate:"required_if=Provider fixture"`
	Binance     BinanceConfig `mapstructure:"binance" json:"binance" yaml:"binance"`
	Breaker     BreakerConfig `mapstructure:"breaker" json:"breaker" yaml:"breaker"`
}

// BinanceConfig holds the futures account credentials.
type BinanceConfig struct {
	APIKey    string `mapstructure:"api_key" json:"api_key" yaml:"api_key"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key" yaml:"secret_key"`
	BaseURL   string `mapstructure:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// BreakerConfig configures the optional circuit breaker around the connect step.
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures" json:"max_failures" yaml:"max_failures" validate:"gte=1"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" json:"open_timeout" yaml:"open_timeout" validate:"gt=0"`
}

// MonitorConfig sizes the request monitor.
type MonitorConfig struct {
	LogCapacity   int           `mapstructure:"log_capacity" json:"log_capacity" yaml:"log_capacity" validate:"gte=1"`
	RecentEntries int           `mapstructure:"recent_entries" json:"recent_entries" yaml:"recent_entries" validate:"gte=1,ltefield=LogCapacity"`
	ResetInterval time.Duration `mapstructure:"reset_interval" json:"reset_interval" yaml:"reset_interval" validate:"gt=0"`
}

// RuntimeConfig seeds the Store. Both values can be changed while the server runs.
type RuntimeConfig struct {
	FilterWindowDays int      `mapstructure:"filter_window_days" json:"filter_window_days" yaml:"filter_window_days" jsonschema:"minimum=1" validate:"gte=1"`
	AllowList        []string `mapstructure:"allow_list" json:"allow_list" yaml:"allow_list" validate:"dive,ip"`
}

// DashboardConfig configures the status display.
type DashboardConfig struct {
	MonitorURL      string        `mapstructure:"monitor_url" json:"monitor_url" yaml:"monitor_url" validate:"omitempty,url"`
	PollInterval    time.Duration `mapstructure:"poll_interval" json:"poll_interval" yaml:"poll_interval" validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
	PublicIPURL     string        `mapstructure:"public_ip_url" json:"public_ip_url" yaml:"public_ip_url" validate:"omitempty,url"`
	PublicIPTimeout time.Duration `mapstructure:"public_ip_timeout" json:"public_ip_timeout" yaml:"public_ip_timeout" validate:"gt=0"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" json:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// MonitorURLFor derives the local /monitor URL for a listen address.
// Wildcard hosts are replaced by the loopback address.
func MonitorURLFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://127.0.0.1:5000/monitor"
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return fmt.Sprintf("http://%s/monitor", net.JoinHostPort(host, port))
}
