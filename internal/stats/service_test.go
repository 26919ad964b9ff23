package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/mocks"
	bridgeerrors "github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type fixedWindow int

func (w fixedWindow) FilterWindowDays() int { return int(w) }

type ServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	session *mocks.MockSession
	service *Service
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.session = mocks.NewMockSession(suite.ctrl)
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.service = NewService(fixedWindow(7), logger.NewNop())
	suite.service.now = func() time.Time { return suite.now }
}

func (suite *ServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ServiceTestSuite) TestComputeQueriesConfiguredWindow() {
	from, to := Window(suite.now, 7)

	suite.session.EXPECT().
		HistoryDeals(gomock.Any(), from, to).
		Return(dealsWithProfits(10, -5, 0, 20, -3, 0, 0, 5, -1, 2), nil)
	suite.session.EXPECT().
		AccountInfo(gomock.Any()).
		Return(optional.Some(types.AccountSnapshot{Balance: 1000, Equity: 1010.5, Margin: 20}), nil)

	result := suite.service.Compute(context.Background(), suite.session)

	suite.Equal(10, result.TotalOperations)
	suite.Equal(4, result.Winners)
	suite.Equal(3, result.Losers)
	suite.Equal("40%", result.WinRatio)
	suite.InDelta(28.0, result.TotalProfit, 1e-9)
	suite.InDelta(2.8, result.AverageProfit, 1e-9)
	suite.InDelta(1000.0, result.Balance, 1e-9)
	suite.InDelta(1010.5, result.Equity, 1e-9)
	suite.InDelta(20.0, result.Margin, 1e-9)
	suite.Equal(7, result.FilterWindowDays)
	suite.Empty(result.Error)
}

func (suite *ServiceTestSuite) TestComputeHistoryFailure() {
	cause := bridgeerrors.Wrap(bridgeerrors.ErrCodeHistoryDealsFailed, "could not fetch deals", errors.New("timeout"))
	suite.session.EXPECT().HistoryDeals(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, cause)

	result := suite.service.Compute(context.Background(), suite.session)

	suite.Equal(0, result.TotalOperations)
	suite.Equal(types.ZeroWinRatio, result.WinRatio)
	suite.Zero(result.Balance)
	suite.Equal(7, result.FilterWindowDays)
	suite.Equal(cause.Error(), result.Error)
}

func (suite *ServiceTestSuite) TestComputeAccountFailureYieldsZeroBalance() {
	suite.session.EXPECT().
		HistoryDeals(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(dealsWithProfits(1.5, -0.5), nil)
	suite.session.EXPECT().
		AccountInfo(gomock.Any()).
		Return(optional.None[types.AccountSnapshot](), errors.New("account endpoint down"))

	result := suite.service.Compute(context.Background(), suite.session)

	suite.Equal(2, result.TotalOperations)
	suite.InDelta(1.0, result.TotalProfit, 1e-9)
	suite.Zero(result.Balance)
	suite.Zero(result.Equity)
	suite.Zero(result.Margin)
	suite.Empty(result.Error)
}

func (suite *ServiceTestSuite) TestComputeRecoversFromPanic() {
	suite.session.EXPECT().
		HistoryDeals(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time, time.Time) ([]types.Deal, error) {
			panic("boom")
		})

	result := suite.service.Compute(context.Background(), suite.session)

	suite.Equal(0, result.TotalOperations)
	suite.Equal(types.ZeroWinRatio, result.WinRatio)
	suite.Contains(result.Error, "boom")
}
