// Package signal derives trading decisions from a price stream using a dual
// EMA crossover, optionally driven by Renko bricks and gated by realized
// volatility.
package signal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/renko/bricks"
	"github.com/rustyeddy/renko/indicators"
)

// Decision is the engine's verdict for one observation.
type Decision int

const (
	Hold Decision = iota
	EnterLong
	ExitLong
)

func (d Decision) String() string {
	switch d {
	case EnterLong:
		return "EnterLong"
	case ExitLong:
		return "ExitLong"
	default:
		return "Hold"
	}
}

// GateMode selects how the crossover decision is filtered.
type GateMode int

const (
	// GateOff evaluates the plain crossover.
	GateOff GateMode = iota
	// GateVolatility suppresses new signals while the rolling stddev of the
	// raw price exceeds the configured threshold.
	GateVolatility
	// GateBias widens both crossover thresholds symmetrically by the
	// configured bias offset.
	GateBias
)

func (g GateMode) String() string {
	switch g {
	case GateVolatility:
		return "vol_gate"
	case GateBias:
		return "bias"
	default:
		return "off"
	}
}

// ParseGateMode resolves a gate-mode string to its variant once, at
// configuration time. Unknown or empty strings resolve to GateOff.
func ParseGateMode(s string) (GateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return GateOff, nil
	case "vol_gate", "vol-gate", "volatility":
		return GateVolatility, nil
	case "bias":
		return GateBias, nil
	default:
		return GateOff, fmt.Errorf("unknown gate mode %q (supported: off, vol_gate, bias)", s)
	}
}

// Crossover band: fast must clear slow by 0.1% (plus bias, if any) before a
// signal fires. Fixed constants of the decision rule, not configuration.
const (
	enterBand = 1.001
	exitBand  = 0.999
)

// Config holds the engine parameters. Out-of-range values are clamped by
// normalize so an engine is always constructible.
type Config struct {
	FastPeriod int
	SlowPeriod int

	// BrickSize > 0 drives the EMAs from Renko bricks instead of raw prices.
	// Zero (or negative) disables aggregation.
	BrickSize float64

	// Volatility gate parameters, used when Gate == GateVolatility.
	VolWindow    int
	VolThreshold float64

	// Bias widens the crossover band, used when Gate == GateBias.
	Bias float64

	Gate GateMode
}

func (c Config) normalize() Config {
	if c.FastPeriod < 1 {
		c.FastPeriod = 10
	}
	if c.SlowPeriod < 1 {
		c.SlowPeriod = 50
	}
	if c.BrickSize < 0 {
		c.BrickSize = 0
	}
	return c
}

// Engine is the per-instrument decision state machine. It owns a fast and a
// slow EMA, optionally a Renko aggregator feeding them, and optionally a
// rolling volatility estimator over the raw price.
//
// The engine is position-agnostic: it always evaluates the pure crossover
// rule. Translating EnterLong/ExitLong into orders, and checking whether a
// position is already open, is the driver's job.
//
// Not safe for concurrent use; feed it one observation at a time in
// non-decreasing time order.
type Engine struct {
	cfg  Config
	fast *indicators.ExponentialMA
	slow *indicators.ExponentialMA
	vol  *indicators.StdDev // nil unless Gate == GateVolatility
	agg  *bricks.Aggregator // nil when BrickSize == 0
}

// NewEngine builds an engine from cfg, clamping out-of-range parameters.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.normalize()

	e := &Engine{
		cfg:  cfg,
		fast: indicators.NewEMA(cfg.FastPeriod),
		slow: indicators.NewEMA(cfg.SlowPeriod),
	}
	if cfg.BrickSize > 0 {
		e.agg = bricks.New(cfg.BrickSize)
	}
	if cfg.Gate == GateVolatility {
		e.vol = indicators.NewStdDev(cfg.VolWindow)
	}
	return e
}

// Config returns the engine's effective (normalized) configuration.
func (e *Engine) Config() Config { return e.cfg }

// Ready reports whether both moving averages are warmed up.
func (e *Engine) Ready() bool {
	return e.fast.Ready() && e.slow.Ready()
}

// Fast returns the fast EMA value.
func (e *Engine) Fast() float64 { return e.fast.Value() }

// Slow returns the slow EMA value.
func (e *Engine) Slow() float64 { return e.slow.Value() }

// Volatility returns the current rolling stddev, or 0 when no volatility
// gate is configured.
func (e *Engine) Volatility() float64 {
	if e.vol == nil {
		return 0
	}
	return e.vol.Value()
}

// OnPrice consumes one observation and returns the decision for it.
//
// With aggregation enabled the EMAs advance only on completed bricks; an
// observation that completes no brick returns Hold without touching them.
// The volatility estimator always tracks the raw price, on both paths.
func (e *Engine) OnPrice(price float64, t time.Time) Decision {
	if e.vol != nil {
		e.vol.Update(price)
	}

	if e.agg != nil {
		completed := e.agg.OnPrice(price, t)
		if len(completed) == 0 {
			return Hold
		}
		for _, b := range completed {
			e.fast.Update(b.Close)
			e.slow.Update(b.Close)
		}
	} else {
		e.fast.Update(price)
		e.slow.Update(price)
	}

	return e.evaluate()
}

// evaluate applies the layered decision rule:
//  1. both EMAs must be ready
//  2. a configured volatility gate must be ready
//  3. high realized volatility suppresses signals (never forces an exit)
//  4. biased crossover thresholds decide
func (e *Engine) evaluate() Decision {
	if !e.Ready() {
		return Hold
	}

	if e.vol != nil {
		if !e.vol.Ready() {
			return Hold
		}
		if e.vol.Value() > math.Abs(e.cfg.VolThreshold) {
			return Hold
		}
	}

	bias := 0.0
	if e.cfg.Gate == GateBias {
		bias = e.cfg.Bias
	}

	fast, slow := e.fast.Value(), e.slow.Value()
	switch {
	case fast > slow*(enterBand+bias):
		return EnterLong
	case fast < slow*(exitBand-bias):
		return ExitLong
	default:
		return Hold
	}
}
