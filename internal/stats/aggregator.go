// Package stats turns platform deal history into the statistics served by /api/balance.
//
// Rounding is half away from zero (shopspring/decimal Round) to two places, applied to the
// win ratio before the "%" suffix, to the average profit and to the total profit.
package stats

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/shopspring/decimal"
)

const roundPlaces = 2

var hundred = decimal.NewFromInt(100)

// Aggregate computes DailyStatistics from raw deals and an optional account snapshot.
// Administrative balance records (balance type, empty symbol) are not operations.
// Deals with zero profit count toward the total but are neither winners nor losers.
func Aggregate(deals []types.Deal, account optional.Option[types.AccountSnapshot], windowDays int) types.DailyStatistics {
	var total, winners, losers int

	profit := decimal.Zero

	for _, deal := range deals {
		if deal.IsAdministrative() {
			continue
		}

		total++

		p := decimal.NewFromFloat(deal.Profit)
		profit = profit.Add(p)

		switch p.Sign() {
		case 1:
			winners++
		case -1:
			losers++
		}
	}

	snapshot := types.AccountSnapshot{Balance: 0, Equity: 0, Margin: 0}
	if account.IsSome() {
		snapshot = account.Unwrap()
	}

	return types.DailyStatistics{
		TotalOperations:  total,
		Winners:          winners,
		Losers:           losers,
		WinRatio:         winRatio(winners, total),
		TotalProfit:      profit.Round(roundPlaces).InexactFloat64(),
		AverageProfit:    average(profit, total),
		Balance:          snapshot.Balance,
		Equity:           snapshot.Equity,
		Margin:           snapshot.Margin,
		FilterWindowDays: windowDays,
		Error:            "",
	}
}

// winRatio renders winners/total*100 as a percentage string, "0%" when total is zero.
func winRatio(winners, total int) string {
	if total == 0 {
		return types.ZeroWinRatio
	}

	ratio := decimal.NewFromInt(int64(winners)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(roundPlaces)

	return ratio.String() + "%"
}

func average(profit decimal.Decimal, total int) float64 {
	if total == 0 {
		return 0
	}

	return profit.Div(decimal.NewFromInt(int64(total))).Round(roundPlaces).InexactFloat64()
}

// Window returns the history range for a filter window: days back from now, plus one day ahead
// so deals stamped by a server in a later timezone are not cut off.
// Calendar arithmetic keeps windows of any size in the past; a Duration overflows past ~292 years.
func Window(now time.Time, days int) (time.Time, time.Time) {
	return now.AddDate(0, 0, -days), now.AddDate(0, 0, 1)
}
