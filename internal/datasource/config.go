package datasource

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// BinanceConfig contains credentials for the Binance futures account.
type BinanceConfig struct {
	APIKey    string `json:"apiKey" jsonschema:"title=API Key,description=Binance API key" validate:"required"`
	SecretKey string `json:"secretKey" jsonschema:"title=Secret Key,description=Binance API secret key" validate:"required"`
	// BaseURL overrides the futures endpoint, mainly for tests.
	BaseURL string `json:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Override for the futures REST endpoint" validate:"omitempty,url"`
}

// Validate validates the BinanceConfig struct.
func (c *BinanceConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance data source config", err)
	}

	return nil
}

// FixtureConfig points at the YAML file served by the fixture provider.
type FixtureConfig struct {
	Path string `json:"path" jsonschema:"title=Path,description=YAML file with deals, account and positions" validate:"required"`
}

// Validate validates the FixtureConfig struct.
func (c *FixtureConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid fixture data source config", err)
	}

	return nil
}
