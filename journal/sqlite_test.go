package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteJournalRoundTrip(t *testing.T) {
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	open := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	closeT := open.Add(2 * time.Hour)

	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:    "01TRADE",
		Instrument: "EUR_USD",
		Units:      10_000,
		EntryPrice: 1.0850,
		ExitPrice:  1.0900,
		OpenTime:   open,
		CloseTime:  closeT,
		RealizedPL: 50,
		Reason:     "ExitSignal",
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: closeT, Balance: 100_050, Equity: 100_050}))

	trades, err := j.ListTradesClosedBetween(open, closeT.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "01TRADE", trades[0].TradeID)
	assert.Equal(t, "ExitSignal", trades[0].Reason)
	assert.InDelta(t, 50.0, trades[0].RealizedPL, 1e-9)

	// Window excludes trades closed outside [from, to).
	trades, err = j.ListTradesClosedBetween(open, closeT)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSQLiteJournalSignals(t *testing.T) {
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordSignal(SignalRecord{
		Time: base, Instrument: "EUR_USD", Decision: "EnterLong",
		Price: 1.085, Fast: 1.086, Slow: 1.084, Volatility: 0.0002,
	}))
	require.NoError(t, j.RecordSignal(SignalRecord{
		Time: base.Add(time.Hour), Instrument: "EUR_USD", Decision: "ExitLong",
		Price: 1.080, Fast: 1.081, Slow: 1.083,
	}))
	require.NoError(t, j.RecordSignal(SignalRecord{
		Time: base, Instrument: "USD_JPY", Decision: "EnterLong", Price: 151.2,
	}))

	sigs, err := j.ListSignals("EUR_USD")
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "EnterLong", sigs[0].Decision)
	assert.Equal(t, "ExitLong", sigs[1].Decision)
	assert.InDelta(t, 1.086, sigs[0].Fast, 1e-9)
}
