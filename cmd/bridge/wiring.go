package main

import (
	"github.com/rxtech-lab/argo-bridge/internal/config"
	"github.com/rxtech-lab/argo-bridge/internal/datasource"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
)

// buildDataSource creates the configured provider, wrapped in a circuit breaker when enabled.
func buildDataSource(cfg config.DataSourceConfig, log *logger.Logger) (datasource.DataSource, error) {
	providerType := datasource.ProviderType(cfg.Provider)

	var providerConfig any

	switch providerType {
	case datasource.ProviderFixture:
		providerConfig = &datasource.FixtureConfig{Path: cfg.FixturePath}
	default:
		providerConfig = &datasource.BinanceConfig{
			APIKey:    cfg.Binance.APIKey,
			SecretKey: cfg.Binance.SecretKey,
			BaseURL:   cfg.Binance.BaseURL,
		}
	}

	source, err := datasource.NewDataSource(providerType, providerConfig, log)
	if err != nil {
		return nil, err
	}

	if !cfg.Breaker.Enabled {
		return source, nil
	}

	return datasource.NewBreakerDataSource(source, datasource.BreakerConfig{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}, log), nil
}

// loadConfig reads the configuration named by the global --config flag.
func loadConfig(path string) (*config.Config, *config.Loader, error) {
	loader := config.NewLoader(path, logger.NewNop())

	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	return cfg, loader, nil
}
