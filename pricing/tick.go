package pricing

import (
	"context"
	"errors"
	"sync"
	"time"
)

type TickSource interface {
	GetTick(ctx context.Context, instrument string) (Tick, error)
}

// Tick is one market observation: a bid/ask quote with an optional last
// traded price. Last is zero when the source carries quotes only.
type Tick struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
	Last       float64
}

func (t Tick) Mid() float64 {
	if t.Bid == 0 && t.Ask == 0 {
		return 0
	}
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// Price is the observation price fed to indicators: the last traded price
// when available, otherwise the quote mid.
func (t Tick) Price() float64 {
	if t.Last > 0 {
		return t.Last
	}
	return t.Mid()
}

type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewTickStore() *TickStore {
	return &TickStore{ticks: make(map[string]Tick)}
}

func (ps *TickStore) Set(p Tick) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.ticks[p.Instrument] = p
}

func (ps *TickStore) Get(instr string) (Tick, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.ticks[instr]
	if !ok {
		return Tick{}, errors.New("price not found")
	}
	return p, nil
}
