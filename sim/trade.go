package sim

import "time"

type Trade struct {
	ID         string
	Instrument string
	Units      float64
	EntryPrice float64
	OpenTime   time.Time

	// Realized
	ClosePrice float64
	CloseTime  time.Time
	RealizedPL float64
	Open       bool
}

func (t *Trade) UnrealizedPL(mark float64) float64 {
	return t.Units * (mark - t.EntryPrice)
}
