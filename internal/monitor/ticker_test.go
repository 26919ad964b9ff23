package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped chan struct{}
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{
		ch:      make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() { close(f.stopped) }

type MinuteTickerTestSuite struct {
	suite.Suite
	monitor *RequestMonitor
	fake    *fakeTicker
	ticker  *MinuteTicker
	period  time.Duration
}

func TestMinuteTickerSuite(t *testing.T) {
	suite.Run(t, new(MinuteTickerTestSuite))
}

func (suite *MinuteTickerTestSuite) SetupTest() {
	log := logger.NewNop()
	suite.monitor = NewRequestMonitor(Options{}, nil, log)
	suite.fake = newFakeTicker()
	suite.ticker = NewMinuteTicker(suite.monitor, 0, func(d time.Duration) Ticker {
		suite.period = d

		return suite.fake
	}, log)
}

func (suite *MinuteTickerTestSuite) TearDownTest() {
	suite.ticker.Stop()
}

func (suite *MinuteTickerTestSuite) TestResetAfterSimulatedMinute() {
	for range 4 {
		suite.monitor.Record("/api/balance", "GET", "10.0.0.1", false)
	}

	suite.Require().NoError(suite.ticker.Start(context.Background()))

	// an unbuffered send only completes once the loop is receiving again,
	// so the second send guarantees the first reset has finished
	suite.fake.ch <- time.Now().Add(time.Minute)
	suite.fake.ch <- time.Now().Add(2 * time.Minute)

	snapshot := suite.monitor.Snapshot()
	suite.Equal(int64(0), snapshot.RequestsPerMinute)
	suite.Equal(int64(4), snapshot.TotalRequests)
	suite.Len(snapshot.RecentLog, 4)
	suite.Equal(DefaultResetInterval, suite.period)
}

func (suite *MinuteTickerTestSuite) TestStartTwiceFails() {
	suite.Require().NoError(suite.ticker.Start(context.Background()))

	err := suite.ticker.Start(context.Background())
	suite.Error(err)
	suite.Equal(errors.ErrCodeTickerAlreadyRunning, errors.GetCode(err))
}

func (suite *MinuteTickerTestSuite) TestStopReleasesTicker() {
	suite.Require().NoError(suite.ticker.Start(context.Background()))
	suite.ticker.Stop()

	select {
	case <-suite.fake.stopped:
	case <-time.After(time.Second):
		suite.Fail("ticker was not stopped")
	}

	// stopping again is a no-op
	suite.ticker.Stop()
}

func (suite *MinuteTickerTestSuite) TestCancelledContextEndsRun() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		suite.ticker.Run(ctx)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		suite.Fail("run did not return after cancel")
	}
}

func (suite *MinuteTickerTestSuite) TestRealTickerFactory() {
	m := NewRequestMonitor(Options{}, nil, logger.NewNop())
	m.Record("/api/balance", "GET", "10.0.0.1", false)

	ticker := NewMinuteTicker(m, 10*time.Millisecond, nil, logger.NewNop())
	suite.Require().NoError(ticker.Start(context.Background()))
	defer ticker.Stop()

	suite.Eventually(func() bool {
		return m.Snapshot().RequestsPerMinute == 0
	}, time.Second, 5*time.Millisecond)
	suite.Equal(int64(1), m.Snapshot().TotalRequests)
}
