// Package sim is an in-memory fill engine implementing broker.Broker for
// backtests: market entries at ask, full liquidations at bid, cash-account
// bookkeeping, and trade/equity journaling.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/renko/broker"
	"github.com/rustyeddy/renko/journal"
	"github.com/rustyeddy/renko/pkg/id"
	"github.com/rustyeddy/renko/pricing"
)

var (
	ErrNoPrice          = errors.New("no price for instrument")
	ErrInvalidUnits     = errors.New("order units must be positive")
	ErrInsufficientCash = errors.New("insufficient cash")
)

// Engine simulates a cash account: buying spends balance, closing returns it
// plus the realized P/L. There is no margin, no leverage, and no short side.
type Engine struct {
	mu      sync.Mutex
	acct    broker.Account
	ticks   *pricing.TickStore
	trades  map[string]*Trade
	journal journal.Journal
	log     *logrus.Logger
}

func NewEngine(acct broker.Account, j journal.Journal) *Engine {
	if j == nil {
		j = journal.Nop{}
	}
	if acct.Equity == 0 {
		acct.Equity = acct.Balance
	}
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &Engine{
		acct:    acct,
		ticks:   pricing.NewTickStore(),
		trades:  make(map[string]*Trade),
		journal: j,
		log:     log,
	}
}

// SetLogger replaces the engine's logger (default: warn-level stderr).
func (e *Engine) SetLogger(log *logrus.Logger) {
	if log != nil {
		e.log = log
	}
}

func (e *Engine) GetAccount(ctx context.Context) (broker.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct, nil
}

func (e *Engine) GetTick(ctx context.Context, instrument string) (pricing.Tick, error) {
	return e.ticks.Get(instrument)
}

func (e *Engine) Position(ctx context.Context, instrument string) (broker.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := broker.Position{Instrument: instrument}
	for _, t := range e.trades {
		if t.Open && t.Instrument == instrument {
			pos.Units += t.Units
		}
	}
	return pos, nil
}

// UpdateTick stores the latest price, revalues the account, and records an
// equity snapshot. The backtest runner calls this once per observation,
// before the strategy sees the tick.
func (e *Engine) UpdateTick(tk pricing.Tick) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ticks.Set(tk)
	e.revalueLocked()

	return e.journal.RecordEquity(journal.EquitySnapshot{
		Time:    tk.Time,
		Balance: e.acct.Balance,
		Equity:  e.acct.Equity,
	})
}

func (e *Engine) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.OrderFill, error) {
	if req.Units <= 0 {
		return broker.OrderFill{}, ErrInvalidUnits
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tk, err := e.ticks.Get(req.Instrument)
	if err != nil {
		return broker.OrderFill{}, fmt.Errorf("market order %s: %w", req.Instrument, ErrNoPrice)
	}

	fillPrice := fillSide(tk, true)
	cost := req.Units * fillPrice
	if cost > e.acct.Balance {
		return broker.OrderFill{}, fmt.Errorf("market order %s: need %.2f, have %.2f: %w",
			req.Instrument, cost, e.acct.Balance, ErrInsufficientCash)
	}

	trade := &Trade{
		ID:         id.New(),
		Instrument: req.Instrument,
		Units:      req.Units,
		EntryPrice: fillPrice,
		OpenTime:   tk.Time,
		Open:       true,
	}
	e.trades[trade.ID] = trade
	e.acct.Balance -= cost
	e.revalueLocked()

	e.log.WithFields(logrus.Fields{
		"trade":      trade.ID,
		"instrument": req.Instrument,
		"units":      req.Units,
		"price":      fillPrice,
	}).Debug("filled market order")

	return broker.OrderFill{
		TradeID:    trade.ID,
		Instrument: req.Instrument,
		Units:      req.Units,
		Price:      fillPrice,
	}, nil
}

// ClosePosition liquidates every open trade on the instrument at the current
// bid and records each as a TradeRecord plus one equity snapshot.
func (e *Engine) ClosePosition(ctx context.Context, instrument, reason string) error {
	if reason == "" {
		reason = "ManualClose"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var open []*Trade
	for _, t := range e.trades {
		if t.Open && t.Instrument == instrument {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}

	tk, err := e.ticks.Get(instrument)
	if err != nil {
		return fmt.Errorf("close %s: %w", instrument, ErrNoPrice)
	}

	closePrice := fillSide(tk, false)
	closeTime := tk.Time
	if closeTime.IsZero() {
		closeTime = time.Now()
	}

	for _, t := range open {
		if err := e.closeTradeLocked(t, closePrice, closeTime, reason); err != nil {
			return err
		}
	}

	e.revalueLocked()

	return e.journal.RecordEquity(journal.EquitySnapshot{
		Time:    closeTime,
		Balance: e.acct.Balance,
		Equity:  e.acct.Equity,
	})
}

// CloseAll liquidates every open trade on every instrument, typically at the
// end of a replay.
func (e *Engine) CloseAll(ctx context.Context, reason string) error {
	e.mu.Lock()
	instruments := map[string]struct{}{}
	for _, t := range e.trades {
		if t.Open {
			instruments[t.Instrument] = struct{}{}
		}
	}
	e.mu.Unlock()

	for instr := range instruments {
		if err := e.ClosePosition(ctx, instr, reason); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) closeTradeLocked(t *Trade, closePrice float64, closeTime time.Time, reason string) error {
	t.Open = false
	t.ClosePrice = closePrice
	t.CloseTime = closeTime
	t.RealizedPL = t.Units * (closePrice - t.EntryPrice)

	e.acct.Balance += t.Units * closePrice

	e.log.WithFields(logrus.Fields{
		"trade":      t.ID,
		"instrument": t.Instrument,
		"pl":         t.RealizedPL,
		"reason":     reason,
	}).Debug("closed trade")

	return e.journal.RecordTrade(journal.TradeRecord{
		TradeID:    t.ID,
		Instrument: t.Instrument,
		Units:      t.Units,
		EntryPrice: t.EntryPrice,
		ExitPrice:  closePrice,
		OpenTime:   t.OpenTime,
		CloseTime:  closeTime,
		RealizedPL: t.RealizedPL,
		Reason:     reason,
	})
}

func (e *Engine) revalueLocked() {
	equity := e.acct.Balance
	for _, t := range e.trades {
		if !t.Open {
			continue
		}
		tk, err := e.ticks.Get(t.Instrument)
		if err != nil {
			continue
		}
		equity += t.Units * fillSide(tk, false)
	}
	e.acct.Equity = equity
}

// fillSide picks the price an order fills at: buys at ask, sells at bid,
// falling back to the observation price for quote-less ticks.
func fillSide(tk pricing.Tick, buy bool) float64 {
	if buy && tk.Ask > 0 {
		return tk.Ask
	}
	if !buy && tk.Bid > 0 {
		return tk.Bid
	}
	return tk.Price()
}
