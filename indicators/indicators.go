// Package indicators provides streaming estimators over scalar price series.
package indicators

// Indicator computes a single streaming value from price updates.
// It is deterministic and safe to use in live, replay, and backtests.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "StdDev(30)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next value and updates internal state.
	Update(v float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current estimate. Before Ready() it returns the
	// partially warmed value, so callers should check Ready() first.
	Value() float64
}
