package datasource

import (
	"context"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

const (
	// incomePageSize is the page size Binance uses when no limit is sent.
	incomePageSize = 100
	// maxIncomePages bounds one history query.
	maxIncomePages = 500
)

// Service interfaces for mocking the Binance futures API

// PingService checks that the futures API answers.
type PingService interface {
	Do(ctx context.Context) error
}

// GetAccountService interface for getting the futures account.
type GetAccountService interface {
	Do(ctx context.Context) (*futures.Account, error)
}

// IncomeHistoryService interface for listing income records.
type IncomeHistoryService interface {
	StartTime(startTime int64) IncomeHistoryService
	EndTime(endTime int64) IncomeHistoryService
	Do(ctx context.Context) ([]*futures.IncomeHistory, error)
}

// PositionRiskService interface for listing positions.
type PositionRiskService interface {
	Do(ctx context.Context) ([]*futures.PositionRisk, error)
}

// BinanceClient interface abstracts the futures client for testing.
type BinanceClient interface {
	NewPingService() PingService
	NewGetAccountService() GetAccountService
	NewGetIncomeHistoryService() IncomeHistoryService
	NewGetPositionRiskService() PositionRiskService
}

// realBinanceClient wraps the actual futures.Client.
type realBinanceClient struct {
	client *futures.Client
}

func (r *realBinanceClient) NewPingService() PingService {
	return &realPingService{service: r.client.NewPingService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realBinanceClient) NewGetIncomeHistoryService() IncomeHistoryService {
	return &realIncomeHistoryService{service: r.client.NewGetIncomeHistoryService()}
}

func (r *realBinanceClient) NewGetPositionRiskService() PositionRiskService {
	return &realPositionRiskService{service: r.client.NewGetPositionRiskService()}
}

type realPingService struct {
	service *futures.PingService
}

func (s *realPingService) Do(ctx context.Context) error {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *futures.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*futures.Account, error) {
	return s.service.Do(ctx)
}

type realIncomeHistoryService struct {
	service *futures.GetIncomeHistoryService
}

func (s *realIncomeHistoryService) StartTime(startTime int64) IncomeHistoryService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *realIncomeHistoryService) EndTime(endTime int64) IncomeHistoryService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realIncomeHistoryService) Do(ctx context.Context) ([]*futures.IncomeHistory, error) {
	return s.service.Do(ctx)
}

type realPositionRiskService struct {
	service *futures.GetPositionRiskService
}

func (s *realPositionRiskService) Do(ctx context.Context) ([]*futures.PositionRisk, error) {
	return s.service.Do(ctx)
}

// BinanceDataSource reads a Binance USD-M futures account.
// It is stateless: every session talks to the API directly.
type BinanceDataSource struct {
	client BinanceClient
	name   string
	logger *logger.Logger
}

// NewBinanceDataSource creates a new Binance futures data source.
// If useTestnet is true, connects to the futures testnet. config.BaseURL takes precedence over useTestnet.
func NewBinanceDataSource(config BinanceConfig, useTestnet bool, log *logger.Logger) *BinanceDataSource {
	name := string(ProviderBinanceFutures)

	if useTestnet {
		futures.UseTestnet = true
		name = string(ProviderBinanceFuturesTestnet)
	}

	client := futures.NewClient(config.APIKey, config.SecretKey)

	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return &BinanceDataSource{
		client: &realBinanceClient{client: client},
		name:   name,
		logger: log,
	}
}

// newBinanceDataSourceWithClient is used for testing with mock clients.
func newBinanceDataSourceWithClient(client BinanceClient, log *logger.Logger) *BinanceDataSource {
	return &BinanceDataSource{
		client: client,
		name:   string(ProviderBinanceFutures),
		logger: log,
	}
}

// Name implements DataSource.
func (b *BinanceDataSource) Name() string {
	return b.name
}

// Connect pings the futures API.
func (b *BinanceDataSource) Connect(ctx context.Context) (Session, error) {
	if err := b.client.NewPingService().Do(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to connect to Binance futures API", err)
	}

	return &binanceSession{client: b.client, logger: b.logger}, nil
}

type binanceSession struct {
	client BinanceClient
	logger *logger.Logger
}

// HistoryDeals pages through the income history and keeps realized PnL and balance records.
// Commission and funding records are not operations and are skipped.
func (s *binanceSession) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	deals := make([]types.Deal, 0)
	seen := make(map[int64]struct{})
	start := from.UnixMilli()
	end := to.UnixMilli()

	for page := 0; page < maxIncomePages; page++ {
		records, err := s.client.NewGetIncomeHistoryService().StartTime(start).EndTime(end).Do(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryDealsFailed, "failed to get income history from Binance", err)
		}

		fresh := 0

		for _, record := range records {
			if _, dup := seen[record.TranID]; dup {
				continue
			}

			seen[record.TranID] = struct{}{}
			fresh++

			if deal, ok := convertIncomeToDeal(record); ok {
				deals = append(deals, deal)
			}
		}

		if len(records) < incomePageSize || fresh == 0 {
			return deals, nil
		}

		// records sharing the boundary millisecond are fetched again and skipped by TranID
		start = records[len(records)-1].Time
	}

	s.logger.Warn("Income history truncated", zap.Int("pages", maxIncomePages), zap.Int("deals", len(deals)))

	return deals, nil
}

// AccountInfo returns wallet balance, margin balance and initial margin.
func (s *binanceSession) AccountInfo(ctx context.Context) (optional.Option[types.AccountSnapshot], error) {
	account, err := s.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return optional.None[types.AccountSnapshot](), errors.Wrap(errors.ErrCodeAccountInfoFailed, "failed to get account info from Binance", err)
	}

	if account == nil {
		return optional.None[types.AccountSnapshot](), nil
	}

	return optional.Some(types.AccountSnapshot{
		Balance: parseFloat(account.TotalWalletBalance),
		Equity:  parseFloat(account.TotalMarginBalance),
		Margin:  parseFloat(account.TotalInitialMargin),
	}), nil
}

// Positions returns positions with a non-zero amount.
func (s *binanceSession) Positions(ctx context.Context) ([]types.OpenPosition, error) {
	risks, err := s.client.NewGetPositionRiskService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePositionsFailed, "failed to get positions from Binance", err)
	}

	positions := make([]types.OpenPosition, 0, len(risks))

	for _, risk := range risks {
		amount := parseFloat(risk.PositionAmt)
		if amount == 0 {
			continue
		}

		positions = append(positions, convertPositionRisk(risk, amount))
	}

	return positions, nil
}

// Close is a no-op; the REST client holds no per-session resources.
func (s *binanceSession) Close() error {
	return nil
}

// Helper functions

func convertIncomeToDeal(record *futures.IncomeHistory) (types.Deal, bool) {
	var dealType types.DealType

	switch string(record.IncomeType) {
	case "REALIZED_PNL":
		dealType = types.DealTypeTrade
	case "TRANSFER", "WELCOME_BONUS", "INTERNAL_TRANSFER", "CROSS_COLLATERAL_TRANSFER",
		"COIN_SWAP_DEPOSIT", "COIN_SWAP_WITHDRAW":
		dealType = types.DealTypeBalance
	default:
		return types.Deal{}, false
	}

	return types.Deal{
		ID:      strconv.FormatInt(record.TranID, 10),
		Time:    time.UnixMilli(record.Time),
		Type:    dealType,
		Symbol:  record.Symbol,
		Profit:  parseFloat(record.Income),
		Asset:   record.Asset,
		Comment: record.Info,
	}, true
}

func convertPositionRisk(risk *futures.PositionRisk, amount float64) types.OpenPosition {
	side := string(risk.PositionSide)
	if side == "" || side == "BOTH" {
		side = "LONG"
		if amount < 0 {
			side = "SHORT"
		}
	}

	if amount < 0 {
		amount = -amount
	}

	leverage, _ := strconv.Atoi(risk.Leverage)

	return types.OpenPosition{
		Symbol:       risk.Symbol,
		Side:         side,
		Volume:       amount,
		PriceOpen:    parseFloat(risk.EntryPrice),
		PriceCurrent: parseFloat(risk.MarkPrice),
		Profit:       parseFloat(risk.UnRealizedProfit),
		Leverage:     leverage,
	}
}

func parseFloat(value string) float64 {
	f, _ := strconv.ParseFloat(value, 64)

	return f
}

// Ensure BinanceDataSource implements DataSource.
var _ DataSource = (*BinanceDataSource)(nil)
