// Package marketdata converts Dukascopy .bi5 tick archives into quote-tick
// CSV files the backtest feeds can replay.
package marketdata

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz/lzma"

	"github.com/rustyeddy/renko/backtest"
)

// DefaultBase is the public Dukascopy datafeed root.
const DefaultBase = "https://datafeed.dukascopy.com/datafeed"

// DefaultPoint converts integer prices to decimals for 5-digit FX pairs.
// JPY-quoted pairs use 1e-3.
const DefaultPoint = 1e-5

// QuoteTick is one decoded archive record.
type QuoteTick struct {
	Time      time.Time
	Bid       float64
	Ask       float64
	BidVolume float64
	AskVolume float64
}

// TickURL returns the archive URL for one hour of ticks. Dukascopy uses a
// zero-based month in the path: Jan=00 ... Dec=11.
func TickURL(base, symbol string, t time.Time) string {
	month0 := int(t.Month()) - 1
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		strings.TrimRight(base, "/"),
		strings.ToUpper(symbol),
		t.Year(), month0, t.Day(), t.Hour())
}

// bi5Record is the 20-byte big-endian wire format: millisecond offset from
// the start of the hour, ask and bid as point-scaled integers, and two
// float32 volumes.
type bi5Record struct {
	MsOffset uint32
	Ask      uint32
	Bid      uint32
	AskVol   float32
	BidVol   float32
}

// DecodeBI5 reads an LZMA-compressed .bi5 stream and returns its ticks.
// hour anchors the per-record millisecond offsets; point scales the integer
// prices (DefaultPoint for most FX pairs).
func DecodeBI5(r io.Reader, hour time.Time, point float64) ([]QuoteTick, error) {
	if point <= 0 {
		point = DefaultPoint
	}

	lr, err := lzma.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("lzma: %w", err)
	}

	var out []QuoteTick
	for {
		var rec bi5Record
		if err := binary.Read(lr, binary.BigEndian, &rec); err != nil {
			if err == io.EOF {
				return out, nil
			}
			if err == io.ErrUnexpectedEOF {
				// Truncated trailing record: keep what decoded cleanly.
				return out, nil
			}
			return nil, fmt.Errorf("decode record %d: %w", len(out), err)
		}

		out = append(out, QuoteTick{
			Time:      hour.Add(time.Duration(rec.MsOffset) * time.Millisecond),
			Bid:       float64(rec.Bid) * point,
			Ask:       float64(rec.Ask) * point,
			BidVolume: float64(rec.BidVol),
			AskVolume: float64(rec.AskVol),
		})
	}
}

// DecodeBI5File decodes one archive file.
func DecodeBI5File(path string, hour time.Time, point float64) ([]QuoteTick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeBI5(f, hour, point)
}

// WriteQuoteCSV writes ticks in the quote-tick file format:
//
//	time,bid,ask,last
//
// Archive records are quotes only, so the last column is left empty and
// replays fall back to the quote mid.
func WriteQuoteCSV(w io.Writer, ticks []QuoteTick) error {
	if _, err := fmt.Fprintln(w, "time,bid,ask,last"); err != nil {
		return err
	}
	for _, tk := range ticks {
		_, err := fmt.Fprintf(w, "%s,%.5f,%.5f,\n",
			tk.Time.UTC().Format(backtest.QuoteTimeLayout), tk.Bid, tk.Ask)
		if err != nil {
			return err
		}
	}
	return nil
}
