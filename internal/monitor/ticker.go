package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// DefaultResetInterval is the period of the per-minute counter reset.
const DefaultResetInterval = time.Minute

// Ticker is the part of time.Ticker the MinuteTicker uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

// Resetter is reset on every tick.
type Resetter interface {
	ResetMinute()
}

type timeTicker struct {
	ticker *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.ticker.C }

func (t *timeTicker) Stop() { t.ticker.Stop() }

// NewTimeTicker is the TickerFactory backed by time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(d)}
}

// MinuteTicker periodically resets the per-minute request counter.
// It is a fixed-period reset, not a sliding window.
type MinuteTicker struct {
	target    Resetter
	period    time.Duration
	newTicker TickerFactory
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMinuteTicker creates a MinuteTicker. A non-positive period uses DefaultResetInterval and a nil
// factory uses NewTimeTicker.
func NewMinuteTicker(target Resetter, period time.Duration, factory TickerFactory, log *logger.Logger) *MinuteTicker {
	if period <= 0 {
		period = DefaultResetInterval
	}

	if factory == nil {
		factory = NewTimeTicker
	}

	return &MinuteTicker{
		target:    target,
		period:    period,
		newTicker: factory,
		logger:    log,
		mu:        sync.Mutex{},
		cancel:    nil,
		done:      nil,
	}
}

// Run resets the target on every tick until ctx is done.
func (t *MinuteTicker) Run(ctx context.Context) {
	ticker := t.newTicker(t.period)
	defer ticker.Stop()

	t.logger.Debug("Minute ticker started", zap.Duration("period", t.period))

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Minute ticker stopped")

			return
		case <-ticker.C():
			t.target.ResetMinute()
		}
	}
}

// Start runs the ticker in the background. It fails if the ticker is already running.
func (t *MinuteTicker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return errors.New(errors.ErrCodeTickerAlreadyRunning, "minute ticker is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go func() {
		defer close(done)
		t.Run(runCtx)
	}()

	return nil
}

// Stop cancels a started ticker and waits for it to exit. Safe to call more than once.
func (t *MinuteTicker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}
