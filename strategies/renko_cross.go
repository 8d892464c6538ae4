package strategies

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/renko/broker"
	"github.com/rustyeddy/renko/journal"
	"github.com/rustyeddy/renko/pricing"
	"github.com/rustyeddy/renko/signal"
)

// RenkoCross drives the crossover engine against a broker:
//   - each instrument gets its own signal.Engine, created on first tick
//   - EnterLong buys floor(available cash / price) units, only when flat
//   - ExitLong liquidates the full position, only when invested
//
// The engine itself is position-agnostic; all position awareness lives here,
// queried from the broker on every actionable decision.
type RenkoCross struct {
	*RenkoCrossConfig

	engines  map[string]*signal.Engine
	recorder journal.SignalRecorder
	log      *logrus.Logger
}

type RenkoCrossConfig struct {
	// Instrument restricts the strategy to one instrument. Empty trades
	// everything the feed delivers, one engine per instrument.
	Instrument string `json:"instrument" yaml:"instrument"`

	FastPeriod int     `json:"fast-period" yaml:"fast-period"`
	SlowPeriod int     `json:"slow-period" yaml:"slow-period"`
	BrickSize  float64 `json:"brick-size" yaml:"brick-size"`

	VolWindow    int     `json:"vol-window" yaml:"vol-window"`
	VolThreshold float64 `json:"vol-threshold" yaml:"vol-threshold"`
	Bias         float64 `json:"bias" yaml:"bias"`

	// Gate is resolved via signal.ParseGateMode at construction.
	Gate string `json:"gate" yaml:"gate"`
}

func RenkoCrossConfigDefaults() *RenkoCrossConfig {
	return &RenkoCrossConfig{
		Instrument: "EUR_USD",
		FastPeriod: 10,
		SlowPeriod: 50,
		BrickSize:  0,
		VolWindow:  30,
		Gate:       "off",
	}
}

func NewRenkoCross(cfg *RenkoCrossConfig) *RenkoCross {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &RenkoCross{
		RenkoCrossConfig: cfg,
		engines:          make(map[string]*signal.Engine),
		log:              log,
	}
}

// SetSignalRecorder journals every non-Hold decision. Optional.
func (s *RenkoCross) SetSignalRecorder(r journal.SignalRecorder) {
	s.recorder = r
}

// SetLogger replaces the strategy's logger (default: warn-level stderr).
func (s *RenkoCross) SetLogger(log *logrus.Logger) {
	if log != nil {
		s.log = log
	}
}

func (s *RenkoCross) engineFor(instrument string) (*signal.Engine, error) {
	if eng, ok := s.engines[instrument]; ok {
		return eng, nil
	}

	gate, err := signal.ParseGateMode(s.Gate)
	if err != nil {
		return nil, err
	}

	eng := signal.NewEngine(signal.Config{
		FastPeriod:   s.FastPeriod,
		SlowPeriod:   s.SlowPeriod,
		BrickSize:    s.BrickSize,
		VolWindow:    s.VolWindow,
		VolThreshold: s.VolThreshold,
		Bias:         s.Bias,
		Gate:         gate,
	})
	s.engines[instrument] = eng
	return eng, nil
}

func (s *RenkoCross) OnTick(ctx context.Context, b broker.Broker, tick pricing.Tick) error {
	if s.Instrument != "" && tick.Instrument != s.Instrument {
		return nil
	}

	price := tick.Price()
	if price <= 0 {
		return nil
	}

	eng, err := s.engineFor(tick.Instrument)
	if err != nil {
		return err
	}

	decision := eng.OnPrice(price, tick.Time)
	if decision == signal.Hold {
		return nil
	}

	if s.recorder != nil {
		if err := s.recorder.RecordSignal(journal.SignalRecord{
			Time:       tick.Time,
			Instrument: tick.Instrument,
			Decision:   decision.String(),
			Price:      price,
			Fast:       eng.Fast(),
			Slow:       eng.Slow(),
			Volatility: eng.Volatility(),
		}); err != nil {
			return fmt.Errorf("record signal: %w", err)
		}
	}

	switch decision {
	case signal.EnterLong:
		return s.enter(ctx, b, tick)
	case signal.ExitLong:
		return s.exit(ctx, b, tick)
	}
	return nil
}

func (s *RenkoCross) enter(ctx context.Context, b broker.Broker, tick pricing.Tick) error {
	pos, err := b.Position(ctx, tick.Instrument)
	if err != nil {
		return err
	}
	if pos.Invested() {
		return nil
	}

	acct, err := b.GetAccount(ctx)
	if err != nil {
		return err
	}

	// Size on the fill-side price so the whole order clears available cash.
	entryPrice := tick.Ask
	if entryPrice <= 0 {
		entryPrice = tick.Price()
	}

	units := math.Floor(acct.Balance / entryPrice)
	if units <= 0 {
		return nil
	}

	fill, err := b.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: tick.Instrument,
		Units:      units,
	})
	if err != nil {
		return fmt.Errorf("enter %s: %w", tick.Instrument, err)
	}

	s.log.WithFields(logrus.Fields{
		"instrument": tick.Instrument,
		"units":      fill.Units,
		"price":      fill.Price,
	}).Info("entered long")
	return nil
}

func (s *RenkoCross) exit(ctx context.Context, b broker.Broker, tick pricing.Tick) error {
	pos, err := b.Position(ctx, tick.Instrument)
	if err != nil {
		return err
	}
	if !pos.Invested() {
		return nil
	}

	if err := b.ClosePosition(ctx, tick.Instrument, "ExitSignal"); err != nil {
		return fmt.Errorf("exit %s: %w", tick.Instrument, err)
	}

	s.log.WithFields(logrus.Fields{
		"instrument": tick.Instrument,
		"units":      pos.Units,
	}).Info("exited long")
	return nil
}
