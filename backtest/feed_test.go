package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func drain(t *testing.T, f TickFeed) []string {
	t.Helper()
	var out []string
	for {
		tk, ok, err := f.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, tk.Time.Format(time.RFC3339))
	}
}

func TestCSVTicksFeed(t *testing.T) {
	path := writeFile(t, "ticks.csv", `time,instrument,bid,ask
2024-01-01T09:00:00Z,EUR_USD,1.0848,1.0852
2024-01-01T09:00:01Z,EUR_USD,1.0849,1.0853,1.0851
short,row
2024-01-01T09:00:02Z,EUR_USD,1.0850,1.0854
`)

	f, err := NewCSVTicksFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer f.Close()

	tk, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EUR_USD", tk.Instrument)
	assert.Equal(t, 1.0848, tk.Bid)
	assert.Equal(t, 0.0, tk.Last)

	tk, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0851, tk.Last)
	assert.Equal(t, 1.0851, tk.Price())

	// Short rows are skipped entirely, so the next tick is the 09:00:02 row.
	tk, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0850, tk.Bid)

	_, ok, err = f.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVTicksFeedRangeFilter(t *testing.T) {
	path := writeFile(t, "ticks.csv", `2024-01-01T09:00:00Z,EUR_USD,1,2
2024-01-01T10:00:00Z,EUR_USD,1,2
2024-01-01T11:00:00Z,EUR_USD,1,2
`)

	from := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)

	f, err := NewCSVTicksFeed(path, from, to)
	require.NoError(t, err)
	defer f.Close()

	// [from, to): only the 10:00 row survives.
	times := drain(t, f)
	assert.Equal(t, []string{"2024-01-01T10:00:00Z"}, times)
}

func TestQuoteTickFeed(t *testing.T) {
	path := writeFile(t, "quotes.csv", `time,bid,ask,last
20240101 09:00:00.000,1.0848,1.0852,1.0850
20240101 09:00:00.250,1.0849,,1.0851
garbage line
20240101 09:00:00.500,1.0850,1.0854,
not-a-time,1,2,3
20240101 09:00:00.750,1.0851,1.0855,1.0853
`)

	f, err := NewQuoteTickFeed(path, "EUR_USD")
	require.NoError(t, err)
	defer f.Close()

	tk, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EUR_USD", tk.Instrument)
	assert.Equal(t, 1.0850, tk.Last)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), tk.Time)

	// Blank ask defaults to zero instead of failing the row.
	tk, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, tk.Ask)
	assert.Equal(t, 1.0851, tk.Last)

	// Blank last falls back to mid for the observation price.
	tk, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.0, tk.Last)
	assert.InDelta(t, 1.0852, tk.Price(), 1e-9)

	// Garbage and unparsable-time rows were dropped silently.
	tk, ok, err = f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0853, tk.Last)

	_, ok, err = f.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuoteTickFeedFractionalSeconds(t *testing.T) {
	path := writeFile(t, "quotes.csv", "20240101 09:00:01.123,1.0,2.0,1.5\n")

	f, err := NewQuoteTickFeed(path, "EUR_USD")
	require.NoError(t, err)
	defer f.Close()

	tk, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 123*time.Millisecond, time.Duration(tk.Time.Nanosecond()))
}
