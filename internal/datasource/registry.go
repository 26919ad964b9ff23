package datasource

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

type ProviderType string

const (
	ProviderFixture               ProviderType = "fixture"
	ProviderBinanceFutures        ProviderType = "binance-futures"
	ProviderBinanceFuturesTestnet ProviderType = "binance-futures-testnet"
)

type ProviderInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	IsLive      bool   `json:"isLive"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderFixture: {
		Name:        string(ProviderFixture),
		DisplayName: "Fixture File",
		Description: "Deals, account and positions read from a local YAML file on every request",
		IsLive:      false,
	},
	ProviderBinanceFutures: {
		Name:        string(ProviderBinanceFutures),
		DisplayName: "Binance USD-M Futures",
		Description: "Binance futures account: realized PnL history, wallet balance and open positions",
		IsLive:      true,
	},
	ProviderBinanceFuturesTestnet: {
		Name:        string(ProviderBinanceFuturesTestnet),
		DisplayName: "Binance Futures Testnet",
		Description: "Binance futures testnet account without real funds",
		IsLive:      false,
	},
}

// GetSupportedProviders returns the provider names, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported data source provider: %s", providerName)
	}

	return info, nil
}

// GetProviderConfigSchema returns the JSON schema for a provider's configuration.
func GetProviderConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderBinanceFutures, ProviderBinanceFuturesTestnet:
		return toJSONSchema(BinanceConfig{})
	case ProviderFixture:
		return toJSONSchema(FixtureConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported data source provider: %s", providerName)
	}
}

// NewDataSource creates a data source for the provider type. config must be a *BinanceConfig or *FixtureConfig.
func NewDataSource(providerType ProviderType, config any, log *logger.Logger) (DataSource, error) {
	switch providerType {
	case ProviderBinanceFutures, ProviderBinanceFuturesTestnet:
		cfg, ok := config.(*BinanceConfig)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid config type for %s provider", providerType)
		}

		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		return NewBinanceDataSource(*cfg, providerType == ProviderBinanceFuturesTestnet, log), nil

	case ProviderFixture:
		cfg, ok := config.(*FixtureConfig)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid config type for %s provider", providerType)
		}

		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		return NewFixtureDataSource(*cfg, log), nil

	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported data source provider: %s", providerType)
	}
}

func toJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(schemaBytes), nil
}
