package datasource

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FixtureFile is the YAML document served by FixtureDataSource.
//
//	account: {balance: 1000, equity: 1012.5, margin: 40}
//	deals:
//	  - {id: "1", time: 2025-01-02T10:00:00Z, type: sell, symbol: EURUSD, profit: 12.5}
//	positions:
//	  - {symbol: EURUSD, side: LONG, volume: 0.1, price_open: 1.08}
//	failures:
//	  history: "terminal not logged in"
type FixtureFile struct {
	Account   *types.AccountSnapshot `yaml:"account"`
	Deals     []types.Deal           `yaml:"deals"`
	Positions []types.OpenPosition   `yaml:"positions"`
	Failures  FixtureFailures        `yaml:"failures"`
}

// FixtureFailures makes individual session queries fail with the given message.
type FixtureFailures struct {
	Connect   string `yaml:"connect"`
	History   string `yaml:"history"`
	Account   string `yaml:"account"`
	Positions string `yaml:"positions"`
}

// FixtureDataSource serves platform data from a local YAML file.
// The file is read on every Connect so edits show up without a restart.
type FixtureDataSource struct {
	path   string
	logger *logger.Logger
}

// NewFixtureDataSource creates a new fixture data source.
func NewFixtureDataSource(config FixtureConfig, log *logger.Logger) *FixtureDataSource {
	return &FixtureDataSource{
		path:   config.Path,
		logger: log,
	}
}

// Name implements DataSource.
func (f *FixtureDataSource) Name() string {
	return string(ProviderFixture)
}

// Connect reads and validates the fixture file.
func (f *FixtureDataSource) Connect(_ context.Context) (Session, error) {
	data, err := LoadFixtureFile(f.path)
	if err != nil {
		return nil, err
	}

	if data.Failures.Connect != "" {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, data.Failures.Connect)
	}

	f.logger.Debug("Fixture loaded",
		zap.String("path", f.path),
		zap.Int("deals", len(data.Deals)),
		zap.Int("positions", len(data.Positions)),
	)

	return &fixtureSession{data: data}, nil
}

// LoadFixtureFile parses and validates a fixture file.
func LoadFixtureFile(path string) (FixtureFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FixtureFile{}, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read fixture %s", path)
	}

	var data FixtureFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return FixtureFile{}, errors.Wrapf(errors.ErrCodeFixtureParseFailed, err, "failed to parse fixture %s", path)
	}

	for _, deal := range data.Deals {
		if err := deal.Validate(); err != nil {
			return FixtureFile{}, errors.Wrapf(errors.ErrCodeFixtureParseFailed, err, "invalid deal in fixture %s", path)
		}
	}

	return data, nil
}

type fixtureSession struct {
	data FixtureFile
}

func (s *fixtureSession) HistoryDeals(_ context.Context, from, to time.Time) ([]types.Deal, error) {
	if s.data.Failures.History != "" {
		return nil, errors.New(errors.ErrCodeHistoryDealsFailed, s.data.Failures.History)
	}

	deals := make([]types.Deal, 0, len(s.data.Deals))

	for _, deal := range s.data.Deals {
		if deal.Time.Before(from) || deal.Time.After(to) {
			continue
		}

		deals = append(deals, deal)
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Time.Before(deals[j].Time)
	})

	return deals, nil
}

func (s *fixtureSession) AccountInfo(_ context.Context) (optional.Option[types.AccountSnapshot], error) {
	if s.data.Failures.Account != "" {
		return optional.None[types.AccountSnapshot](), errors.New(errors.ErrCodeAccountInfoFailed, s.data.Failures.Account)
	}

	if s.data.Account == nil {
		return optional.None[types.AccountSnapshot](), nil
	}

	return optional.Some(*s.data.Account), nil
}

func (s *fixtureSession) Positions(_ context.Context) ([]types.OpenPosition, error) {
	if s.data.Failures.Positions != "" {
		return nil, errors.New(errors.ErrCodePositionsFailed, s.data.Failures.Positions)
	}

	positions := make([]types.OpenPosition, len(s.data.Positions))
	copy(positions, s.data.Positions)

	return positions, nil
}

func (s *fixtureSession) Close() error {
	return nil
}

// Ensure FixtureDataSource implements DataSource.
var _ DataSource = (*FixtureDataSource)(nil)
