package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the journal to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	now    func() time.Time
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			source      TEXT,
			attempts    INTEGER,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_symbol ON fetch_events(symbol)`,

		`CREATE TABLE IF NOT EXISTS analysis_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			sentiment   TEXT,
			score       INTEGER,
			confidence  INTEGER,
			risk_level  TEXT,
			factors     TEXT,
			demo_mode   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_ts ON analysis_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS chat_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			request_id    TEXT,
			message       TEXT,
			stock_context TEXT,
			route         TEXT,
			source        TEXT,
			reply_len     INTEGER,
			duration_ms   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_ts ON chat_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_events
		(timestamp, symbol, source, attempts, error, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Symbol, evt.Source, evt.Attempts, evt.Error,
		evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordAnalysis(res *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_events
		(timestamp, symbol, sentiment, score, confidence, risk_level, factors, demo_mode)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.now().Unix(), res.Symbol, res.Sentiment, res.Score, res.Confidence,
		string(res.RiskTier), strings.Join(res.Factors, "; "), res.IsFallback,
	)
	return err
}

func (r *SQLiteRecorder) RecordChat(turn *model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chat_events
		(timestamp, request_id, message, stock_context, route, source, reply_len, duration_ms)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.now().Unix(), turn.RequestID, turn.Message, turn.StockContext,
		string(turn.Route), turn.Source, len(turn.Reply), turn.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
