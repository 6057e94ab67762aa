package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/decide-lab/launch-interceptor/internal/cmv"
	"github.com/decide-lab/launch-interceptor/internal/decide"
	"github.com/decide-lab/launch-interceptor/internal/input"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decision_log (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	numpoints   INTEGER NOT NULL,
	cmv         TEXT NOT NULL,
	fuv         TEXT NOT NULL,
	launch      INTEGER NOT NULL,
	input_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decision_log_created ON decision_log(created_at);
`

// #endregion schema

// #region store-struct
// Store is the append-only decision log in SQLite. Nothing read from it
// feeds back into an evaluation.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region record
// NewEntry builds the log row for one evaluated input.
func NewEntry(source string, in decide.Input, res decide.Result) (Entry, error) {
	doc, err := input.Encode(in, input.JSON)
	if err != nil {
		return Entry{}, fmt.Errorf("encode input: %w", err)
	}
	return Entry{
		Source:    source,
		NumPoints: len(in.Points),
		CMV:       bits(res.CMV),
		FUV:       bits(res.FUV),
		Launch:    res.Launch,
		InputJSON: string(doc),
	}, nil
}

// Record inserts e, assigning a fresh run id and timestamp when unset, and
// returns the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.RunID == "" {
		e.RunID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decision_log (run_id, source, numpoints, cmv, fuv, launch, input_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Source, e.NumPoints, e.CMV, e.FUV, boolToInt(e.Launch), e.InputJSON,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record decision: %w", err)
	}
	return e, nil
}

// #endregion record

// #region read
const selectColumns = `SELECT run_id, source, numpoints, cmv, fuv, launch, input_json, created_at FROM decision_log`

// Get returns the entry for runID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, runID string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE run_id = ?`, runID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", runID, err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := selectColumns + ` ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e         Entry
		launch    int
		createdAt string
	)
	if err := sc.Scan(&e.RunID, &e.Source, &e.NumPoints, &e.CMV, &e.FUV, &launch, &e.InputJSON, &createdAt); err != nil {
		return Entry{}, err
	}
	e.Launch = launch != 0
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = t
	return e, nil
}

// #endregion read

// #region helpers
func bits(v [cmv.Count]bool) string {
	var sb strings.Builder
	sb.Grow(cmv.Count)
	for _, b := range v {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
