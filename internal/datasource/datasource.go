// Package datasource connects the bridge to the trading platform that owns deals, account state
// and open positions.
package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/types"
)

// DataSource opens per-request sessions against the trading platform.
type DataSource interface {
	// Name returns the provider name.
	Name() string
	// Connect makes sure the platform is reachable and returns a session scoped to one request.
	// The caller must Close the session on every exit path.
	Connect(ctx context.Context) (Session, error)
}

// Session is a live connection used while serving one request.
type Session interface {
	// HistoryDeals returns the deals with time in [from, to], oldest first.
	HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error)
	// AccountInfo returns the account snapshot, or None when the platform reports no account.
	AccountInfo(ctx context.Context) (optional.Option[types.AccountSnapshot], error)
	// Positions returns the currently open positions.
	Positions(ctx context.Context) ([]types.OpenPosition, error)
	// Close releases the session.
	Close() error
}
