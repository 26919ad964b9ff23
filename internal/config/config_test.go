package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LoaderTestSuite struct {
	suite.Suite
	dir    string
	logger *logger.Logger
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (suite *LoaderTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.logger = logger.NewNop()
}

func (suite *LoaderTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

func (suite *LoaderTestSuite) TestDefaults() {
	path := suite.writeConfig("datasource:\n  provider: fixture\n")

	cfg, err := NewLoader(path, suite.logger).Load()
	suite.Require().NoError(err)

	suite.Equal("0.0.0.0:5000", cfg.Server.Addr)
	suite.Equal(15*time.Second, cfg.Server.ReadTimeout)
	suite.Equal([]string{"*"}, cfg.Server.CORSOrigins)
	suite.Equal("server.log", cfg.Log.File)
	suite.Equal("info", cfg.Log.Level)
	suite.Equal("fixture.yaml", cfg.DataSource.FixturePath)
	suite.Equal(uint32(5), cfg.DataSource.Breaker.MaxFailures)
	suite.Equal(500, cfg.Monitor.LogCapacity)
	suite.Equal(10, cfg.Monitor.RecentEntries)
	suite.Equal(time.Minute, cfg.Monitor.ResetInterval)
	suite.Equal(365, cfg.Runtime.FilterWindowDays)
	suite.Empty(cfg.Runtime.AllowList)
	suite.Equal("http://127.0.0.1:5000/monitor", cfg.Dashboard.MonitorURL)
	suite.Equal(2*time.Second, cfg.Dashboard.PollInterval)
	suite.Equal(2*time.Second, cfg.Dashboard.RequestTimeout)
	suite.Equal(5*time.Second, cfg.Dashboard.PublicIPTimeout)
	suite.False(cfg.Metrics.Enabled)
}

func (suite *LoaderTestSuite) TestFileValues() {
	path := suite.writeConfig(`
server:
  addr: 127.0.0.1:8080
  read_timeout: 3s
log:
  level: debug
datasource:
  provider: binance-futures
  binance:
    api_key: key
    secret_key: secret
runtime:
  filter_window_days: 30
  allow_list:
    - 10.0.0.1
    - 10.0.0.2
`)

	loader := NewLoader(path, suite.logger)
	cfg, err := loader.Load()
	suite.Require().NoError(err)

	suite.Equal(path, loader.ConfigFile())
	suite.Equal("127.0.0.1:8080", cfg.Server.Addr)
	suite.Equal(3*time.Second, cfg.Server.ReadTimeout)
	suite.Equal("debug", cfg.Log.Level)
	suite.Equal("binance-futures", cfg.DataSource.Provider)
	suite.Equal("key", cfg.DataSource.Binance.APIKey)
	suite.Equal(30, cfg.Runtime.FilterWindowDays)
	suite.Equal([]string{"10.0.0.1", "10.0.0.2"}, cfg.Runtime.AllowList)
	suite.Equal("http://127.0.0.1:8080/monitor", cfg.Dashboard.MonitorURL)
}

func (suite *LoaderTestSuite) TestEnvOverrides() {
	path := suite.writeConfig("runtime:\n  filter_window_days: 30\n")
	suite.T().Setenv("ARGO_BRIDGE_RUNTIME_FILTER_WINDOW_DAYS", "7")
	suite.T().Setenv("ARGO_BRIDGE_SERVER_ADDR", "0.0.0.0:6000")

	cfg, err := NewLoader(path, suite.logger).Load()
	suite.Require().NoError(err)

	suite.Equal(7, cfg.Runtime.FilterWindowDays)
	suite.Equal("0.0.0.0:6000", cfg.Server.Addr)
	suite.Equal("http://127.0.0.1:6000/monitor", cfg.Dashboard.MonitorURL)
}

func (suite *LoaderTestSuite) TestInvalidValues() {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero filter window", content: "runtime:\n  filter_window_days: 0\n"},
		{name: "allow list entry is not an ip", content: "runtime:\n  allow_list: [not-an-ip]\n"},
		{name: "unknown provider", content: "datasource:\n  provider: mt5\n"},
		{name: "unknown log level", content: "log:\n  level: loud\n"},
		{name: "recent entries above capacity", content: "monitor:\n  log_capacity: 5\n  recent_entries: 10\n"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			path := suite.writeConfig(tt.content)

			_, err := NewLoader(path, suite.logger).Load()
			suite.Error(err)
			suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
		})
	}
}

func (suite *LoaderTestSuite) TestMissingExplicitFile() {
	_, err := NewLoader(filepath.Join(suite.dir, "missing.yaml"), suite.logger).Load()
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *LoaderTestSuite) TestReloadRuntime() {
	path := suite.writeConfig("runtime:\n  filter_window_days: 30\n")
	loader := NewLoader(path, suite.logger)
	cfg, err := loader.Load()
	suite.Require().NoError(err)

	store, err := NewStore(cfg.Runtime, logger.NewNop())
	suite.Require().NoError(err)

	suite.writeConfig("runtime:\n  filter_window_days: 14\n  allow_list: [10.0.0.9]\n")
	suite.Require().NoError(loader.v.ReadInConfig())
	loader.reloadRuntime(fsnotify.Event{Name: path, Op: fsnotify.Write}, store)

	suite.Equal(14, store.FilterWindowDays())
	suite.Equal([]string{"10.0.0.9"}, store.AllowList())

	// an invalid reload keeps the previous values
	suite.writeConfig("runtime:\n  filter_window_days: -1\n")
	suite.Require().NoError(loader.v.ReadInConfig())
	loader.reloadRuntime(fsnotify.Event{Name: path, Op: fsnotify.Write}, store)

	suite.Equal(14, store.FilterWindowDays())
	suite.Equal([]string{"10.0.0.9"}, store.AllowList())

	// chmod events are ignored
	suite.writeConfig("runtime:\n  filter_window_days: 3\n")
	suite.Require().NoError(loader.v.ReadInConfig())
	loader.reloadRuntime(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, store)

	suite.Equal(14, store.FilterWindowDays())
}

func (suite *LoaderTestSuite) TestWatchRuntime() {
	path := suite.writeConfig("runtime:\n  filter_window_days: 30\n")
	loader := NewLoader(path, suite.logger)
	cfg, err := loader.Load()
	suite.Require().NoError(err)

	store, err := NewStore(cfg.Runtime, logger.NewNop())
	suite.Require().NoError(err)

	loader.WatchRuntime(store)
	suite.writeConfig("runtime:\n  filter_window_days: 45\n")

	suite.Eventually(func() bool {
		return store.FilterWindowDays() == 45
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMonitorURLFor(t *testing.T) {
	tests := map[string]string{
		"0.0.0.0:5000":   "http://127.0.0.1:5000/monitor",
		":5000":          "http://127.0.0.1:5000/monitor",
		"10.1.2.3:8080":  "http://10.1.2.3:8080/monitor",
		"localhost:9000": "http://localhost:9000/monitor",
		"garbage":        "http://127.0.0.1:5000/monitor",
	}

	for addr, expected := range tests {
		if got := MonitorURLFor(addr); got != expected {
			t.Errorf("MonitorURLFor(%q) = %q, want %q", addr, got, expected)
		}
	}
}
