package backtest

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/renko/pricing"
)

// QuoteTimeLayout is the fixed fractional-second timestamp used by
// quote-tick files.
const QuoteTimeLayout = "20060102 15:04:05.000"

// QuoteTickFeed reads single-instrument quote-tick files:
//
//	time,bid,ask,last
//
// with a header row beginning "time" and timestamps in QuoteTimeLayout.
// The instrument is supplied at construction since the rows carry none.
//
// Rows that cannot be parsed are dropped silently and unparsable decimals
// default to zero rather than failing the run, so header rows and partial
// files replay cleanly.
type QuoteTickFeed struct {
	f          *os.File
	scanner    *bufio.Scanner
	instrument string
}

func NewQuoteTickFeed(path, instrument string) (*QuoteTickFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &QuoteTickFeed{
		f:          f,
		scanner:    bufio.NewScanner(f),
		instrument: instrument,
	}, nil
}

func (f *QuoteTickFeed) Close() error {
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

func (f *QuoteTickFeed) Next() (pricing.Tick, bool, error) {
	for f.scanner.Scan() {
		tk, ok := f.parseLine(f.scanner.Text())
		if !ok {
			continue
		}
		return tk, true, nil
	}
	return pricing.Tick{}, false, f.scanner.Err()
}

func (f *QuoteTickFeed) parseLine(line string) (pricing.Tick, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(strings.ToLower(line), "time") {
		return pricing.Tick{}, false
	}

	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return pricing.Tick{}, false
	}

	t, err := time.Parse(QuoteTimeLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return pricing.Tick{}, false
	}

	return pricing.Tick{
		Instrument: f.instrument,
		Time:       t,
		Bid:        floatOrZero(fields[1]),
		Ask:        floatOrZero(fields[2]),
		Last:       floatOrZero(fields[3]),
	}, true
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
