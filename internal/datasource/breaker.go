package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig configures the circuit breaker around Connect.
type BreakerConfig struct {
	// MaxFailures consecutive connect failures open the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting one trial connect through.
	OpenTimeout time.Duration
}

// BreakerDataSource fails Connect fast while the upstream keeps failing. It never retries.
type BreakerDataSource struct {
	next   DataSource
	cb     *gobreaker.CircuitBreaker
	logger *logger.Logger
}

// NewBreakerDataSource wraps next with a circuit breaker.
func NewBreakerDataSource(next DataSource, config BreakerConfig, log *logger.Logger) *BreakerDataSource {
	maxFailures := config.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Data source breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerDataSource{
		next:   next,
		cb:     cb,
		logger: log,
	}
}

// Name implements DataSource.
func (b *BreakerDataSource) Name() string {
	return b.next.Name()
}

// Connect delegates to the wrapped source unless the breaker is open.
func (b *BreakerDataSource) Connect(ctx context.Context) (Session, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Connect(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(errors.ErrCodeCircuitOpen, "data source circuit is open", err)
		}

		return nil, err
	}

	session, ok := result.(Session)
	if !ok {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source returned no session")
	}

	return session, nil
}

// State returns the breaker state name (closed, half-open, open).
func (b *BreakerDataSource) State() string {
	return b.cb.State().String()
}

// Ensure BreakerDataSource implements DataSource.
var _ DataSource = (*BreakerDataSource)(nil)
