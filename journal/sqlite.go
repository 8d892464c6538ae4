package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, instrument, units, entry_price, exit_price, open_time, close_time, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, t.Units, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.RealizedPL, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, balance, equity)
		VALUES (?, ?, ?)`,
		e.Time, e.Balance, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) RecordSignal(s SignalRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO signals (time, instrument, decision, price, fast, slow, volatility)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Time, s.Instrument, s.Decision, s.Price, s.Fast, s.Slow, s.Volatility,
	)
	return err
}

// ListTradesClosedBetween returns trades with close_time in [from, to),
// oldest first. The backtest runner uses this for its win/loss summary.
func (j *SQLiteJournal) ListTradesClosedBetween(from, to time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, instrument, units, entry_price, exit_price, open_time, close_time, realized_pl, reason
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.TradeID, &t.Instrument, &t.Units, &t.EntryPrice, &t.ExitPrice,
			&t.OpenTime, &t.CloseTime, &t.RealizedPL, &t.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// ListSignals returns every journaled signal for the instrument, oldest first.
func (j *SQLiteJournal) ListSignals(instrument string) ([]SignalRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, instrument, decision, price, fast, slow, volatility
		FROM signals
		WHERE instrument = ?
		ORDER BY time ASC`,
		instrument,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var s SignalRecord
		if err := rows.Scan(
			&s.Time, &s.Instrument, &s.Decision, &s.Price, &s.Fast, &s.Slow, &s.Volatility,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
