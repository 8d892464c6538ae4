// Package bricks converts a raw price stream into fixed-size Renko bricks.
package bricks

import (
	"math"
	"time"
)

// Direction is the side of the most recently completed brick.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// Brick is one completed fixed-size price movement. Close is always exactly
// one brick size away from the previous brick's close.
type Brick struct {
	Time  time.Time
	Close float64
}

// Aggregator builds bricks from a stream of (price, time) observations.
//
// The first observation anchors the origin and emits nothing. Each later
// observation emits one brick per full brick size the price has moved away
// from the origin, advancing the origin with every brick, so a single gap
// observation spanning k brick widths yields k bricks. This is simplified
// Renko: pure magnitude, no reversal threshold.
//
// Observations must arrive in non-decreasing time order; the aggregator does
// not reorder or buffer.
type Aggregator struct {
	size      float64
	origin    float64
	seeded    bool
	direction Direction
}

// New creates an aggregator with the given brick size. Size must be positive;
// callers disable aggregation entirely for size <= 0 rather than construct one.
func New(size float64) *Aggregator {
	return &Aggregator{size: size}
}

// Size returns the configured brick size.
func (a *Aggregator) Size() float64 { return a.size }

// Direction returns the side of the last completed brick.
func (a *Aggregator) Direction() Direction { return a.direction }

// Origin returns the current anchor price (last brick close, or the first
// observed price before any brick has completed).
func (a *Aggregator) Origin() float64 { return a.origin }

// OnPrice consumes one observation and returns the bricks it completed, in
// order, each stamped with the observation time. Most observations complete
// none.
func (a *Aggregator) OnPrice(price float64, t time.Time) []Brick {
	if !a.seeded {
		a.origin = price
		a.seeded = true
		return nil
	}

	var out []Brick

	for delta := price - a.origin; math.Abs(delta) >= a.size; delta = price - a.origin {
		if delta > 0 {
			a.origin += a.size
			a.direction = DirectionUp
		} else {
			a.origin -= a.size
			a.direction = DirectionDown
		}
		out = append(out, Brick{Time: t, Close: a.origin})
	}

	return out
}
