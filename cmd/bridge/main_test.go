package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-bridge/internal/config"
	"github.com/rxtech-lab/argo-bridge/internal/datasource"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out

	require.NoError(t, cmd.Run(context.Background(), append([]string{"bridge"}, args...)))

	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, version.GetVersion()+"\n", runCommand(t, "version"))
}

func TestProvidersCommand(t *testing.T) {
	out := runCommand(t, "providers")

	for _, name := range datasource.GetSupportedProviders() {
		assert.Contains(t, out, name)
	}

	assert.Contains(t, out, "Binance USD-M Futures (live)")
}

func TestProvidersSchemaFlag(t *testing.T) {
	out := runCommand(t, "providers", "--schema", "binance-futures")

	assert.Contains(t, out, "apiKey")
	assert.Contains(t, out, "secretKey")
	assert.NotContains(t, out, "Binance USD-M Futures (live)")

	cmd := newCommand()
	cmd.Writer = &bytes.Buffer{}

	err := cmd.Run(context.Background(), []string{"bridge", "providers", "--schema", "mt5"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidProvider, errors.GetCode(err))
}

func TestConfigSchemaCommand(t *testing.T) {
	out := runCommand(t, "config", "schema")

	assert.Contains(t, out, "filter_window_days")
	assert.Contains(t, out, "allow_list")
}

func TestConfigShowCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
datasource:
  provider: binance-futures
  binance:
    api_key: abcdefghijkl
    secret_key: supersecretvalue
runtime:
  filter_window_days: 7
  allow_list: ["10.0.0.2"]
`), 0o600))

	out := runCommand(t, "--config", path, "config", "show")

	assert.Contains(t, out, "# loaded from "+path)
	assert.Contains(t, out, "filter_window_days: 7")
	assert.Contains(t, out, "10.0.0.2")
	assert.NotContains(t, out, "supersecretvalue")
}

func TestConfigShowRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runtime:\n  filter_window_days: 0\n"), 0o600))

	cmd := newCommand()
	cmd.Writer = &bytes.Buffer{}

	err := cmd.Run(context.Background(), []string{"bridge", "--config", path, "config", "show"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestBuildDataSource(t *testing.T) {
	log := logger.NewNop()

	tests := []struct {
		name     string
		cfg      config.DataSourceConfig
		wantName string
		wantType any
		wantCode errors.ErrorCode
	}{
		{
			name:     "fixture",
			cfg:      config.DataSourceConfig{Provider: "fixture", FixturePath: "fixture.yaml"},
			wantName: "fixture",
			wantType: &datasource.FixtureDataSource{},
		},
		{
			name: "binance behind breaker",
			cfg: config.DataSourceConfig{
				Provider: "binance-futures",
				Binance:  config.BinanceConfig{APIKey: "key", SecretKey: "secret"},
				Breaker:  config.BreakerConfig{Enabled: true, MaxFailures: 3},
			},
			wantType: &datasource.BreakerDataSource{},
		},
		{
			name:     "binance without credentials",
			cfg:      config.DataSourceConfig{Provider: "binance-futures"},
			wantCode: errors.ErrCodeInvalidConfiguration,
		},
		{
			name:     "unknown provider",
			cfg:      config.DataSourceConfig{Provider: "mt5"},
			wantCode: errors.ErrCodeInvalidProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := buildDataSource(tt.cfg, log)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, source)

			if tt.wantName != "" {
				assert.Equal(t, tt.wantName, source.Name())
			}
		})
	}
}
