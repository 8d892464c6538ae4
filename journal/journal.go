// Package journal records trades, equity snapshots, and emitted signals.
package journal

import "time"

type TradeRecord struct {
	TradeID    string
	Instrument string
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

type EquitySnapshot struct {
	Time    time.Time
	Balance float64
	Equity  float64
}

// SignalRecord captures one non-Hold engine decision together with the
// indicator snapshot that produced it.
type SignalRecord struct {
	Time       time.Time
	Instrument string
	Decision   string
	Price      float64
	Fast       float64
	Slow       float64
	Volatility float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	RecordSignal(SignalRecord) error
	Close() error
}

// SignalRecorder is the narrow slice of Journal the strategy driver needs.
type SignalRecorder interface {
	RecordSignal(SignalRecord) error
}

// Nop discards everything. Useful when a run does not need a journal.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) RecordSignal(SignalRecord) error   { return nil }
func (Nop) Close() error                      { return nil }
