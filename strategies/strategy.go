package strategies

import (
	"context"
	"fmt"
	"strings"

	"github.com/rustyeddy/renko/broker"
	"github.com/rustyeddy/renko/pricing"
)

// TickStrategy is the minimal interface a strategy must implement.
// It is called once per observation, after the engine has seen the tick.
type TickStrategy interface {
	OnTick(ctx context.Context, b broker.Broker, tick pricing.Tick) error
}

var registry = make(map[string]TickStrategy)

func Register(name string, strat TickStrategy) {
	registry[name] = strat
}

func GetStrategy(name string) (strat TickStrategy) {
	var ok bool
	if strat, ok = registry[name]; !ok {
		return nil
	}
	return strat
}

// StrategyByName constructs a strategy from its CLI/config name.
func StrategyByName(name string, cfg *RenkoCrossConfig) (TickStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return NoopStrategy{}, nil

	case "renko-cross", "renko", "cross":
		if cfg == nil {
			cfg = RenkoCrossConfigDefaults()
		}
		return NewRenkoCross(cfg), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, renko-cross)", name)
	}
}
