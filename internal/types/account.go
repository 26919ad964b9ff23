package types

// AccountSnapshot is the account state reported with the statistics.
type AccountSnapshot struct {
	// Balance is the wallet balance excluding unrealized P&L
	Balance float64 `json:"balance" yaml:"balance"`
	// Equity is balance plus unrealized P&L
	Equity float64 `json:"equity" yaml:"equity"`
	// Margin is the margin currently in use
	Margin float64 `json:"margin" yaml:"margin"`
}

// OpenPosition is a currently active, unclosed trade.
type OpenPosition struct {
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Side         string  `json:"side" yaml:"side"`
	Volume       float64 `json:"volume" yaml:"volume"`
	PriceOpen    float64 `json:"price_open" yaml:"price_open"`
	PriceCurrent float64 `json:"price_current" yaml:"price_current"`
	Profit       float64 `json:"profit" yaml:"profit"`
	Leverage     int     `json:"leverage" yaml:"leverage"`
}
