// Package broker defines the execution boundary strategies trade against.
package broker

import (
	"context"

	"github.com/rustyeddy/renko/pricing"
)

// Broker is the execution collaborator. Strategies query account and position
// state through it and issue full-notional market entries and full
// liquidations; fills, cash accounting, and journaling live behind it.
type Broker interface {
	GetAccount(ctx context.Context) (Account, error)
	GetTick(ctx context.Context, instrument string) (pricing.Tick, error)

	// CreateMarketOrder opens a long position. Units must be positive.
	CreateMarketOrder(ctx context.Context, req MarketOrderRequest) (OrderFill, error)

	// ClosePosition liquidates everything open on the instrument. The reason
	// is recorded in the journal.
	ClosePosition(ctx context.Context, instrument, reason string) error

	// Position reports what is currently held on the instrument.
	Position(ctx context.Context, instrument string) (Position, error)
}

// Account is a cash account. Balance is uninvested cash; Equity adds the
// marked value of open positions.
type Account struct {
	ID       string
	Currency string
	Balance  float64
	Equity   float64
}

type MarketOrderRequest struct {
	Instrument string
	Units      float64
}

type OrderFill struct {
	TradeID    string
	Instrument string
	Units      float64
	Price      float64
}

// Position is the aggregate holding on one instrument.
type Position struct {
	Instrument string
	Units      float64
}

// Invested reports whether anything is currently held.
func (p Position) Invested() bool {
	return p.Units != 0
}
