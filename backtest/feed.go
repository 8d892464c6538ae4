package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/renko/pricing"
)

// TickFeed yields ticks one at a time. Implementations should be
// deterministic and return (ok=false, err=nil) at EOF.
type TickFeed interface {
	Next() (tk pricing.Tick, ok bool, err error)
	Close() error
}

// CSVTicksFeed reads canonical tick CSV rows:
//
//	time,instrument,bid,ask[,last]
//
// where time is RFC3339 or RFC3339Nano.
//
// It optionally filters ticks to [From, To) if provided.
// Header row ("time,...") is allowed.
// Empty/short rows are skipped.
type CSVTicksFeed struct {
	f    *os.File
	r    *csv.Reader
	from time.Time
	to   time.Time

	sawFirst bool
}

func NewCSVTicksFeed(path string, from, to time.Time) (*CSVTicksFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	return &CSVTicksFeed{f: f, r: r, from: from, to: to}, nil
}

func (f *CSVTicksFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *CSVTicksFeed) Next() (pricing.Tick, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return pricing.Tick{}, false, nil
		}
		if err != nil {
			return pricing.Tick{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		tk, ok, err := parseTickRow(row)
		if err != nil {
			return pricing.Tick{}, false, err
		}
		if !ok {
			continue
		}
		if !inRange(tk.Time, f.from, f.to) {
			continue
		}
		return tk, true, nil
	}
}

func parseTickRow(row []string) (pricing.Tick, bool, error) {
	// Need at least: time,instrument,bid,ask
	if len(row) < 4 {
		return pricing.Tick{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return pricing.Tick{}, false, nil
	}
	// Accept RFC3339 or RFC3339Nano.
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return pricing.Tick{}, false, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	inst := strings.TrimSpace(row[1])
	if inst == "" {
		return pricing.Tick{}, false, nil
	}

	bid, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return pricing.Tick{}, false, fmt.Errorf("bad bid %q: %w", row[2], err)
	}
	ask, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return pricing.Tick{}, false, fmt.Errorf("bad ask %q: %w", row[3], err)
	}

	tk := pricing.Tick{Time: t, Instrument: inst, Bid: bid, Ask: ask}

	if len(row) >= 5 {
		// Optional last traded price; blank or bad values stay zero.
		if last, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64); err == nil {
			tk.Last = last
		}
	}

	return tk, true, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
