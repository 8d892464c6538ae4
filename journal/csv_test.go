package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fl, err := os.Open(path)
	require.NoError(t, err)
	defer fl.Close()
	rows, err := csv.NewReader(fl).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")
	signalsPath := filepath.Join(dir, "signals.csv")

	j, err := NewCSV(tradesPath, equityPath, signalsPath)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID: "01T", Instrument: "EUR_USD", Units: 100,
		EntryPrice: 1.08, ExitPrice: 1.09,
		OpenTime: now, CloseTime: now.Add(time.Hour),
		RealizedPL: 1, Reason: "ExitSignal",
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: now, Balance: 1000, Equity: 1001}))
	require.NoError(t, j.RecordSignal(SignalRecord{
		Time: now, Instrument: "EUR_USD", Decision: "EnterLong", Price: 1.08,
	}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2) // header + one record
	assert.Equal(t, "trade_id", trades[0][0])
	assert.Equal(t, []string{"01T", "EUR_USD", "100", "1.08", "1.09",
		"2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z", "1", "ExitSignal"}, trades[1])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{"2024-01-01T09:00:00Z", "1000", "1001"}, equity[1])

	signals := readCSV(t, signalsPath)
	require.Len(t, signals, 2)
	assert.Equal(t, "EnterLong", signals[1][2])
}
