package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Config{})

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(schemaBytes), nil
}

// ToYAML renders cfg as YAML with the credentials masked.
func ToYAML(cfg *Config) (string, error) {
	masked := *cfg
	masked.DataSource.Binance.APIKey = mask(cfg.DataSource.Binance.APIKey)
	masked.DataSource.Binance.SecretKey = mask(cfg.DataSource.Binance.SecretKey)

	out, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	return string(out), nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}

		return "****"
	}

	return secret[:4] + "****"
}
