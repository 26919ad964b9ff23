package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DealTestSuite struct {
	suite.Suite
}

func TestDealSuite(t *testing.T) {
	suite.Run(t, new(DealTestSuite))
}

func (suite *DealTestSuite) TestIsAdministrative() {
	tests := []struct {
		name     string
		deal     Deal
		expected bool
	}{
		{"deposit without symbol", Deal{Type: DealTypeBalance, Symbol: ""}, true},
		{"balance with symbol", Deal{Type: DealTypeBalance, Symbol: "BTCUSDT"}, false},
		{"trade without symbol", Deal{Type: DealTypeTrade, Symbol: ""}, false},
		{"sell", Deal{Type: DealTypeSell, Symbol: "EURUSD"}, false},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, tt.deal.IsAdministrative())
		})
	}
}

func (suite *DealTestSuite) TestExcludeBalanceAdjustments() {
	deals := []Deal{
		{ID: "1", Type: DealTypeBuy},
		{ID: "2", Type: DealTypeBalance},
		{ID: "3", Type: DealTypeBalance, Symbol: "BTCUSDT"},
		{ID: "4", Type: DealTypeSell},
	}

	filtered := ExcludeBalanceAdjustments(deals)
	suite.Len(filtered, 2)
	suite.Equal("1", filtered[0].ID)
	suite.Equal("4", filtered[1].ID)
}

func (suite *DealTestSuite) TestValidate() {
	valid := Deal{ID: "1", Type: DealTypeTrade, Time: time.Now()}
	suite.NoError(valid.Validate())

	invalid := Deal{ID: "2", Type: DealType("swap"), Time: time.Now()}
	err := invalid.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	missingTime := Deal{ID: "3", Type: DealTypeBuy}
	suite.Error(missingTime.Validate())
}

func (suite *DealTestSuite) TestNewMonitorResponseNeverNull() {
	resp := NewMonitorResponse(MonitorSnapshot{TotalRequests: 3, RequestsPerMinute: 1}, 365, nil)
	suite.Equal(MonitorStateConnected, resp.State)
	suite.NotNil(resp.RecentLog)
	suite.NotNil(resp.AllowList)
	suite.Equal(int64(3), resp.TotalRequests)
	suite.Equal(365, resp.FilterWindowDays)
}

func (suite *DealTestSuite) TestNewFailedStatistics() {
	stats := NewFailedStatistics(30, "could not fetch deals")
	suite.Equal(ZeroWinRatio, stats.WinRatio)
	suite.Equal(30, stats.FilterWindowDays)
	suite.Equal("could not fetch deals", stats.Error)
	suite.Zero(stats.TotalOperations)
	suite.Zero(stats.Balance)
}
