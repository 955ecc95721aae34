package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run and prediction history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the dashboard API can read while a run is being recorded.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			duration_s REAL,
			status     TEXT NOT NULL,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			market          TEXT NOT NULL,
			direction       TEXT NOT NULL,
			magnitude       REAL,
			confidence      REAL,
			technical_score REAL,
			sentiment_score REAL,
			combined_score  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs (started_at, duration_s, status, error) VALUES (?,?,?,?)`,
		rec.StartedAt.Unix(), rec.Duration.Seconds(), rec.Status, rec.Error)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	for _, p := range rec.Predictions {
		if _, err := r.db.Exec(`INSERT INTO predictions
			(timestamp, symbol, market, direction, magnitude, confidence,
			 technical_score, sentiment_score, combined_score)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			now, p.Symbol, p.Market, string(p.Direction), p.Magnitude, p.Confidence,
			p.TechnicalScore, p.SentimentScore, p.CombinedScore,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecentPredictions(hours int) ([]PredictionRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Now().Add(-time.Duration(hours) * time.Hour).Unix()
	rows, err := r.db.Query(`SELECT timestamp, symbol, market, direction, magnitude, confidence,
		technical_score, sentiment_score, combined_score
		FROM predictions WHERE timestamp > ? ORDER BY timestamp DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []PredictionRow{}
	for rows.Next() {
		var row PredictionRow
		var ts int64
		if err := rows.Scan(&ts, &row.Symbol, &row.Market, &row.Direction, &row.Magnitude,
			&row.Confidence, &row.TechnicalScore, &row.SentimentScore, &row.CombinedScore); err != nil {
			return nil, err
		}
		row.Timestamp = time.Unix(ts, 0)
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
