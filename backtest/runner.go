package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/renko/journal"
	"github.com/rustyeddy/renko/sim"
	"github.com/rustyeddy/renko/strategies"
)

// RunnerOptions controls how the backtest runner behaves.
type RunnerOptions struct {
	// If true, close all open positions at the end of the dataset.
	// Close reason will be CloseReason (or "EndOfReplay" if empty).
	CloseEnd    bool
	CloseReason string
}

// TradeLister is the journal query the runner needs for its summary.
type TradeLister interface {
	ListTradesClosedBetween(from, to time.Time) ([]journal.TradeRecord, error)
}

// Runner drives an engine forward using a feed and strategy.
type Runner struct {
	Engine   *sim.Engine
	Feed     TickFeed
	Strategy strategies.TickStrategy
	Options  RunnerOptions
	Logger   *logrus.Logger
}

// Result summarizes one backtest run.
type Result struct {
	Start        time.Time
	End          time.Time
	Ticks        int
	Trades       int
	Wins         int
	Losses       int
	FinalBalance float64
	FinalEquity  float64
}

// Run executes the backtest loop:
//  1. read next tick
//  2. engine.UpdateTick(tick)
//  3. strategy.OnTick(ctx, engine, tick)
//
// If j is not nil, a trades/wins/losses summary is computed from the journal
// over the observed dataset time range.
func (r *Runner) Run(ctx context.Context, j TradeLister) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	defer r.Feed.Close()

	log := r.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}

	var res Result

	for {
		tk, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}

		if res.Start.IsZero() || tk.Time.Before(res.Start) {
			res.Start = tk.Time
		}
		if res.End.IsZero() || tk.Time.After(res.End) {
			res.End = tk.Time
		}
		res.Ticks++

		if err := r.Engine.UpdateTick(tk); err != nil {
			return Result{}, err
		}
		if err := r.Strategy.OnTick(ctx, r.Engine, tk); err != nil {
			return Result{}, err
		}
	}

	if r.Options.CloseEnd {
		reason := r.Options.CloseReason
		if reason == "" {
			reason = "EndOfReplay"
		}
		if err := r.Engine.CloseAll(ctx, reason); err != nil {
			log.WithError(err).Warn("close at end of replay")
		}
	}

	acct, _ := r.Engine.GetAccount(ctx)
	res.FinalBalance = acct.Balance
	res.FinalEquity = acct.Equity

	if j != nil && !res.Start.IsZero() && res.Start.Before(res.End) {
		// Include trades that close exactly at the end by extending the
		// window slightly.
		recs, err := j.ListTradesClosedBetween(res.Start, res.End.Add(time.Nanosecond))
		if err == nil {
			res.Trades = len(recs)
			for _, rec := range recs {
				if rec.RealizedPL >= 0 {
					res.Wins++
				} else {
					res.Losses++
				}
			}
		}
	}

	log.WithFields(logrus.Fields{
		"ticks":   res.Ticks,
		"trades":  res.Trades,
		"wins":    res.Wins,
		"losses":  res.Losses,
		"balance": res.FinalBalance,
		"equity":  res.FinalEquity,
	}).Info("backtest complete")

	return res, nil
}
