package types

// DailyStatistics summarizes the deals inside the filter window.
// JSON keys keep the wire names existing clients already read.
type DailyStatistics struct {
	TotalOperations  int     `json:"total_operaciones" yaml:"total_operations"`
	Winners          int     `json:"ganadoras" yaml:"winners"`
	Losers           int     `json:"perdedoras" yaml:"losers"`
	WinRatio         string  `json:"ratio_ganadoras" yaml:"win_ratio"`
	TotalProfit      float64 `json:"beneficio_total" yaml:"total_profit"`
	AverageProfit    float64 `json:"promedio_por_operacion" yaml:"average_profit"`
	Balance          float64 `json:"balance" yaml:"balance"`
	Equity           float64 `json:"equity" yaml:"equity"`
	Margin           float64 `json:"margin" yaml:"margin"`
	FilterWindowDays int     `json:"dias_filtrado" yaml:"filter_window_days"`
	Error            string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// ZeroWinRatio is the ratio rendered when there are no operations.
const ZeroWinRatio = "0%"

// NewFailedStatistics returns zeroed statistics carrying the failure reason.
func NewFailedStatistics(filterWindowDays int, reason string) DailyStatistics {
	return DailyStatistics{
		TotalOperations:  0,
		Winners:          0,
		Losers:           0,
		WinRatio:         ZeroWinRatio,
		TotalProfit:      0,
		AverageProfit:    0,
		Balance:          0,
		Equity:           0,
		Margin:           0,
		FilterWindowDays: filterWindowDays,
		Error:            reason,
	}
}
