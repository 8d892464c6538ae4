package strategies

import (
	"context"

	"github.com/rustyeddy/renko/broker"
	"github.com/rustyeddy/renko/pricing"
)

// NoopStrategy does nothing. Useful as a baseline for feed and engine tests.
type NoopStrategy struct{}

func (NoopStrategy) OnTick(ctx context.Context, b broker.Broker, tick pricing.Tick) error {
	return nil
}
