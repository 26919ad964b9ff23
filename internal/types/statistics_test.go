package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestNewFailedStatistics() {
	stats := NewFailedStatistics(30, "terminal not logged in")

	suite.Equal(0, stats.TotalOperations)
	suite.Equal(ZeroWinRatio, stats.WinRatio)
	suite.Equal(30, stats.FilterWindowDays)
	suite.Equal("terminal not logged in", stats.Error)
}

func (suite *StatisticsTestSuite) TestWireKeys() {
	body, err := json.Marshal(DailyStatistics{
		TotalOperations:  3,
		Winners:          2,
		Losers:           1,
		WinRatio:         "66.67%",
		TotalProfit:      10.5,
		AverageProfit:    3.5,
		Balance:          1000,
		FilterWindowDays: 365,
	})
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(body, &decoded))

	for _, key := range []string{
		"total_operaciones", "ganadoras", "perdedoras", "ratio_ganadoras", "beneficio_total",
		"promedio_por_operacion", "balance", "equity", "margin", "dias_filtrado",
	} {
		suite.Contains(decoded, key)
	}

	suite.NotContains(decoded, "error")
	suite.Equal("66.67%", decoded["ratio_ganadoras"])
}
