// Package history persists detections in a local SQLite database so that
// past recommendations can be listed and counted per level.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pthm/scalecheck/internal/level"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeLayout is fixed width so that stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one recorded detection
type Entry struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Module        string    `json:"module"`
	Description   string    `json:"description"`
	EstimatedSize *int      `json:"estimated_stories,omitempty"`
	Level         int       `json:"level"`
	Confidence    float64   `json:"confidence"`
	Fallback      bool      `json:"fallback"`
	Reasoning     []string  `json:"reasoning"`
}

// LevelCount is the number of detections that recommended a level
type LevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

// Store manages recorded detections in SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS detections (
			id             TEXT PRIMARY KEY,
			created_at     TEXT NOT NULL,
			module         TEXT NOT NULL,
			description    TEXT NOT NULL,
			estimated_size INTEGER,
			level          INTEGER NOT NULL,
			confidence     REAL NOT NULL,
			fallback       INTEGER NOT NULL DEFAULT 0,
			reasoning      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_detections_created ON detections(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a classification result. The description is stored verbatim.
func (s *Store) Record(module string, in level.Input, res *level.Result) (Entry, error) {
	e := Entry{
		ID:            uuid.New().String(),
		CreatedAt:     s.now().UTC(),
		Module:        module,
		Description:   in.Description,
		EstimatedSize: in.EstimatedSize,
		Level:         res.RecommendedLevel,
		Confidence:    res.Confidence,
		Fallback:      res.Fallback,
		Reasoning:     res.Reasoning,
	}

	reasoning, err := json.Marshal(e.Reasoning)
	if err != nil {
		return Entry{}, fmt.Errorf("history: marshal reasoning: %w", err)
	}

	var size sql.NullInt64
	if e.EstimatedSize != nil {
		size = sql.NullInt64{Int64: int64(*e.EstimatedSize), Valid: true}
	}

	_, err = s.db.Exec(
		`INSERT INTO detections (id, created_at, module, description, estimated_size, level, confidence, fallback, reasoning)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(timeLayout), e.Module, e.Description, size,
		e.Level, e.Confidence, e.Fallback, string(reasoning),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("history: insert detection: %w", err)
	}
	return e, nil
}

// List returns the most recent detections, newest first. A limit of zero
// or less returns every detection.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT id, created_at, module, description, estimated_size, level, confidence, fallback, reasoning
		FROM detections ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			createdAt string
			size      sql.NullInt64
			reasoning string
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.Module, &e.Description, &size,
			&e.Level, &e.Confidence, &e.Fallback, &reasoning); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}

		e.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("history: parse time %q: %w", createdAt, err)
		}
		if size.Valid {
			n := int(size.Int64)
			e.EstimatedSize = &n
		}
		if err := json.Unmarshal([]byte(reasoning), &e.Reasoning); err != nil {
			return nil, fmt.Errorf("history: unmarshal reasoning: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns the number of detections per recommended level, ascending by level.
func (s *Store) Stats() ([]LevelCount, error) {
	rows, err := s.db.Query(`SELECT level, COUNT(*) FROM detections GROUP BY level ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	defer rows.Close()

	counts := []LevelCount{}
	for rows.Next() {
		var c LevelCount
		if err := rows.Scan(&c.Level, &c.Count); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
