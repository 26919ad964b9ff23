package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// DealSource is the part of a data-source session the statistics need.
type DealSource interface {
	HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error)
	AccountInfo(ctx context.Context) (optional.Option[types.AccountSnapshot], error)
}

// WindowProvider supplies the current filter window in days.
type WindowProvider interface {
	FilterWindowDays() int
}

// Service queries a session over the configured window and aggregates the result.
type Service struct {
	window WindowProvider
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new statistics service.
func NewService(window WindowProvider, log *logger.Logger) *Service {
	return &Service{
		window: window,
		logger: log,
		now:    time.Now,
	}
}

// Compute always returns well-formed statistics. Upstream failures, including panics inside the
// source, come back as zeroed statistics with Error set.
func (s *Service) Compute(ctx context.Context, source DealSource) (result types.DailyStatistics) {
	days := s.window.FilterWindowDays()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Unexpected failure computing statistics", zap.Any("panic", r))
			result = types.NewFailedStatistics(days, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	from, to := Window(s.now(), days)

	deals, err := source.HistoryDeals(ctx, from, to)
	if err != nil {
		s.logger.Error("Could not fetch deals",
			zap.Int("window_days", days),
			zap.Int("code", int(errors.GetCode(err))),
			zap.Error(err),
		)

		return types.NewFailedStatistics(days, err.Error())
	}

	account, err := source.AccountInfo(ctx)
	if err != nil {
		s.logger.Warn("Account info unavailable, reporting zero balance", zap.Error(err))
		account = optional.None[types.AccountSnapshot]()
	}

	return Aggregate(deals, account, days)
}
