package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// DealType classifies a history record from the trading platform.
type DealType string

const (
	DealTypeBuy  DealType = "buy"
	DealTypeSell DealType = "sell"
	// DealTypeTrade is a realized-profit fill whose side is not reported by the platform.
	DealTypeTrade DealType = "trade"
	// DealTypeBalance is an administrative balance adjustment (deposit, withdrawal, transfer).
	DealTypeBalance DealType = "balance"
	DealTypeOther   DealType = "other"
)

// Deal is a single closed transaction from the platform history. It is read-only to the bridge.
type Deal struct {
	ID      string    `json:"ticket" yaml:"id"`
	Time    time.Time `json:"time" yaml:"time" validate:"required"`
	Type    DealType  `json:"type" yaml:"type" validate:"required,oneof=buy sell trade balance other"`
	Symbol  string    `json:"symbol" yaml:"symbol"`
	Profit  float64   `json:"profit" yaml:"profit"`
	Asset   string    `json:"asset,omitempty" yaml:"asset"`
	Comment string    `json:"comment,omitempty" yaml:"comment"`
}

// IsBalanceAdjustment reports whether the deal is a balance-type record.
func (d Deal) IsBalanceAdjustment() bool {
	return d.Type == DealTypeBalance
}

// IsAdministrative reports whether the deal is a balance adjustment not tied to any symbol.
// Such records are not trading operations.
func (d Deal) IsAdministrative() bool {
	return d.IsBalanceAdjustment() && d.Symbol == ""
}

// Validate validates the Deal struct.
func (d Deal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid deal %q", d.ID)
	}

	return nil
}

// ExcludeBalanceAdjustments returns the deals that are not balance-type records, keeping order.
func ExcludeBalanceAdjustments(deals []Deal) []Deal {
	out := make([]Deal, 0, len(deals))

	for _, d := range deals {
		if !d.IsBalanceAdjustment() {
			out = append(out, d)
		}
	}

	return out
}
