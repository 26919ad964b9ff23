package server

import (
	"net/http"

	"github.com/rxtech-lab/argo-bridge/internal/stats"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// handleBalance returns the statistics of the current filter window. Always 200: upstream failures
// come back as zeroed statistics with "error" set.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("GET /api/balance", zap.String("request_id", requestIDFrom(r.Context())))

	result := s.stats.Compute(r.Context(), sessionFrom(r.Context()))
	if result.Error != "" {
		s.metrics.ObserveUpstreamError("history")
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleOpenTrader returns the open positions, or an empty list when they cannot be read.
func (s *Server) handleOpenTrader(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("GET /api/opentrader", zap.String("request_id", requestIDFrom(r.Context())))

	positions, err := sessionFrom(r.Context()).Positions(r.Context())
	if err != nil {
		s.metrics.ObserveUpstreamError("positions")
		s.logger.Error("Could not fetch open positions", zap.Error(err))

		positions = nil
	}

	if positions == nil {
		positions = []types.OpenPosition{}
	}

	s.respondJSON(w, http.StatusOK, positions)
}

// handleDayTrade returns the deals of the filter window without balance adjustments.
func (s *Server) handleDayTrade(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("GET /api/daytrade", zap.String("request_id", requestIDFrom(r.Context())))

	days := s.runtime.FilterWindowDays()
	from, to := stats.Window(s.now(), days)

	deals, err := sessionFrom(r.Context()).HistoryDeals(r.Context(), from, to)
	if err != nil {
		code := errors.GetCode(err)
		if code == errors.ErrCodeUnknown {
			code = errors.ErrCodeHistoryDealsFailed
		}

		s.metrics.ObserveUpstreamError("history")
		s.logger.Error("Could not fetch deals", zap.Int("window_days", days), zap.Error(err))
		s.respondCodedError(w, http.StatusBadGateway, "could not fetch deals", code)

		return
	}

	trades := types.ExcludeBalanceAdjustments(deals)
	if trades == nil {
		trades = []types.Deal{}
	}

	s.respondJSON(w, http.StatusOK, trades)
}

// handleMonitor returns the request counters, the latest log entries and the runtime config.
func (s *Server) handleMonitor(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.monitorResponse())
}

func (s *Server) monitorResponse() types.MonitorResponse {
	return types.NewMonitorResponse(s.monitor.Snapshot(), s.runtime.FilterWindowDays(), s.runtime.AllowList())
}
