package config

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment override, e.g. ARGO_BRIDGE_SERVER_ADDR.
const EnvPrefix = "ARGO_BRIDGE"

// Loader reads the configuration file and environment overrides.
type Loader struct {
	v      *viper.Viper
	logger *logger.Logger
}

// NewLoader creates a Loader. An empty path searches for config.yaml in the working directory.
func NewLoader(path string, log *logger.Logger) *Loader {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Loader{
		v:      v,
		logger: log,
	}
}

// SetLogger replaces the logger, used once the configured logger has been built.
func (l *Loader) SetLogger(log *logger.Logger) {
	l.logger = log
}

// ConfigFile returns the file the configuration was read from, or "" when running on defaults.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Load reads, decodes and validates the configuration.
// A missing config.yaml is not an error; an explicit path that cannot be read is.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "error reading config file", err)
		}

		l.logger.Debug("No config file found, using defaults and environment")
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "unable to decode config", err)
	}

	if cfg.Dashboard.MonitorURL == "" {
		cfg.Dashboard.MonitorURL = MonitorURLFor(cfg.Server.Addr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WatchRuntime re-applies runtime.* to store whenever the config file changes.
// Invalid values are logged and the store keeps its previous values.
func (l *Loader) WatchRuntime(store *Store) {
	if l.v.ConfigFileUsed() == "" {
		l.logger.Debug("No config file to watch")

		return
	}

	l.v.OnConfigChange(func(event fsnotify.Event) {
		l.reloadRuntime(event, store)
	})
	l.v.WatchConfig()
}

func (l *Loader) reloadRuntime(event fsnotify.Event, store *Store) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	var runtime RuntimeConfig
	if err := l.v.UnmarshalKey("runtime", &runtime); err != nil {
		l.logger.Error("Could not decode reloaded runtime config", zap.String("file", event.Name), zap.Error(err))

		return
	}

	if err := store.Apply(runtime.FilterWindowDays, runtime.AllowList); err != nil {
		l.logger.Error("Rejected reloaded runtime config",
			zap.String("file", event.Name),
			zap.Int("code", int(errors.GetCode(err))),
			zap.Error(err),
		)

		return
	}

	l.logger.Info("Runtime config reloaded",
		zap.String("file", event.Name),
		zap.Int("filter_window_days", runtime.FilterWindowDays),
		zap.Strings("allow_list", runtime.AllowList),
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("log.file", logger.DefaultLogFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 0)
	v.SetDefault("log.max_age_days", 0)
	v.SetDefault("log.compress", false)

	v.SetDefault("datasource.provider", "fixture")
	v.SetDefault("datasource.fixture_path", "fixture.yaml")
	v.SetDefault("datasource.binance.api_key", "")
	v.SetDefault("datasource.binance.secret_key", "")
	v.SetDefault("datasource.binance.base_url", "")
	v.SetDefault("datasource.breaker.enabled", false)
	v.SetDefault("datasource.breaker.max_failures", 5)
	v.SetDefault("datasource.breaker.open_timeout", 30*time.Second)

	v.SetDefault("monitor.log_capacity", 500)
	v.SetDefault("monitor.recent_entries", 10)
	v.SetDefault("monitor.reset_interval", time.Minute)

	v.SetDefault("runtime.filter_window_days", DefaultFilterWindowDays)
	v.SetDefault("runtime.allow_list", []string{})

	v.SetDefault("dashboard.monitor_url", "")
	v.SetDefault("dashboard.poll_interval", 2*time.Second)
	v.SetDefault("dashboard.request_timeout", 2*time.Second)
	v.SetDefault("dashboard.public_ip_url", "https://api.ipify.org?format=json")
	v.SetDefault("dashboard.public_ip_timeout", 5*time.Second)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9090")
}
