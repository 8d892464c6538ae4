package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal appends trades, equity snapshots, and signals to three CSV
// files, flushing after every record so partial runs are still readable.
type CSVJournal struct {
	trades  *csv.Writer
	equity  *csv.Writer
	signals *csv.Writer
	files   []*os.File
}

func NewCSV(tradesPath, equityPath, signalsPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	j.files = append(j.files, tf)

	ef, err := os.Create(equityPath)
	if err != nil {
		j.Close()
		return nil, err
	}
	j.files = append(j.files, ef)

	sf, err := os.Create(signalsPath)
	if err != nil {
		j.Close()
		return nil, err
	}
	j.files = append(j.files, sf)

	j.trades = csv.NewWriter(tf)
	j.equity = csv.NewWriter(ef)
	j.signals = csv.NewWriter(sf)

	headers := []struct {
		w   *csv.Writer
		row []string
	}{
		{j.trades, []string{"trade_id", "instrument", "units", "entry_price", "exit_price", "open_time", "close_time", "realized_pl", "reason"}},
		{j.equity, []string{"time", "balance", "equity"}},
		{j.signals, []string{"time", "instrument", "decision", "price", "fast", "slow", "volatility"}},
	}
	for _, h := range headers {
		if err := h.w.Write(h.row); err != nil {
			j.Close()
			return nil, err
		}
		h.w.Flush()
		if err := h.w.Error(); err != nil {
			j.Close()
			return nil, err
		}
	}

	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if err := j.trades.Write([]string{
		t.TradeID,
		t.Instrument,
		f(t.Units),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.RealizedPL),
		t.Reason,
	}); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	if err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Balance),
		f(e.Equity),
	}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) RecordSignal(s SignalRecord) error {
	if err := j.signals.Write([]string{
		s.Time.Format(time.RFC3339),
		s.Instrument,
		s.Decision,
		f(s.Price),
		f(s.Fast),
		f(s.Slow),
		f(s.Volatility),
	}); err != nil {
		return err
	}
	j.signals.Flush()
	return j.signals.Error()
}

func (j *CSVJournal) Close() error {
	var first error
	for _, fl := range j.files {
		if err := fl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
