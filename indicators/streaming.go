package indicators

import (
	"fmt"
	"math"
)

// Window bounds for StdDev. Out-of-range windows are clamped, never rejected,
// so the estimator is always constructible.
const (
	MinStdDevWindow = 5
	MaxStdDevWindow = 500
)

// ExponentialMA is a streaming Exponential Moving Average.
//
// The first update seeds the average with the raw value; every later update
// applies value*alpha + ema*(1-alpha) with alpha = 2/(period+1). The average
// is considered warmed up once it has seen period updates.
type ExponentialMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
}

// NewEMA creates a streaming EMA with the given period. Non-positive periods
// are clamped to 1.
func NewEMA(period int) *ExponentialMA {
	if period < 1 {
		period = 1
	}
	return &ExponentialMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int {
	return e.period
}

func (e *ExponentialMA) Reset() {
	e.ema = 0
	e.count = 0
}

func (e *ExponentialMA) Update(v float64) {
	if e.count == 0 {
		e.ema = v
	} else {
		e.ema = v*e.multiplier + e.ema*(1-e.multiplier)
	}
	e.count++
}

func (e *ExponentialMA) Ready() bool {
	return e.count >= e.period
}

func (e *ExponentialMA) Value() float64 {
	return e.ema
}

// StdDev is a streaming sample standard deviation over a fixed trailing
// window. Updates append to the window and evict the oldest value once full.
type StdDev struct {
	window int
	values []float64
}

// NewStdDev creates a streaming standard deviation estimator. The window is
// clamped to [MinStdDevWindow, MaxStdDevWindow].
func NewStdDev(window int) *StdDev {
	if window < MinStdDevWindow {
		window = MinStdDevWindow
	}
	if window > MaxStdDevWindow {
		window = MaxStdDevWindow
	}
	return &StdDev{
		window: window,
		values: make([]float64, 0, window),
	}
}

func (s *StdDev) Name() string {
	return fmt.Sprintf("StdDev(%d)", s.window)
}

func (s *StdDev) Warmup() int {
	return s.window
}

// Window returns the effective (clamped) window size.
func (s *StdDev) Window() int {
	return s.window
}

func (s *StdDev) Reset() {
	s.values = s.values[:0]
}

func (s *StdDev) Update(v float64) {
	s.values = append(s.values, v)
	if len(s.values) > s.window {
		s.values = s.values[1:]
	}
}

func (s *StdDev) Ready() bool {
	return len(s.values) >= s.window
}

// Value recomputes the sample standard deviation of the current window
// contents. With fewer than two values it returns 0.
func (s *StdDev) Value() float64 {
	n := len(s.values)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range s.values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range s.values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n - 1)

	return math.Sqrt(variance)
}
