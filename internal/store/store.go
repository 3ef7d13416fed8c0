// Package store persists analysis results to SQLite. It is a collaborator:
// the core pipeline never touches it. The batch command writes one row per
// analysed paper, keyed by ULID, and skips re-analysis when an input's
// content hash is already stored.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"kokugo/pkg/models"
)

// Entry is one persisted analysis.
type Entry struct {
	ID          string
	School      string
	Year        int
	Path        string
	ContentHash string
	Record      *models.ExamRecord
	CreatedAt   time.Time
}

// Store persists ExamRecords.
type Store struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates the SQLite database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id               TEXT PRIMARY KEY,
		school           TEXT NOT NULL DEFAULT '',
		year             INTEGER NOT NULL DEFAULT 0,
		path             TEXT NOT NULL,
		content_hash     TEXT NOT NULL,
		total_characters INTEGER NOT NULL,
		total_questions  INTEGER NOT NULL,
		record_json      TEXT NOT NULL,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_school ON analyses(school, year);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(content_hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Put stores one analysis, replacing any previous row for the same content
// hash. Returns the entry ID.
func (s *Store) Put(ctx context.Context, path, contentHash string, record *models.ExamRecord) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	id := s.newID()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, school, year, path, content_hash, total_characters, total_questions, record_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			school = excluded.school,
			year = excluded.year,
			path = excluded.path,
			total_characters = excluded.total_characters,
			total_questions = excluded.total_questions,
			record_json = excluded.record_json,
			created_at = excluded.created_at`,
		id, record.School, record.Year, path, contentHash,
		record.TotalCharacters, record.TotalQuestions, string(raw),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// GetByHash returns the stored analysis for a content hash, or nil when none
// exists.
func (s *Store) GetByHash(ctx context.Context, contentHash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, school, year, path, content_hash, record_json, created_at
		FROM analyses WHERE content_hash = ?`, contentHash)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// List returns stored analyses, newest first, optionally filtered by school.
func (s *Store) List(ctx context.Context, school string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, school, year, path, content_hash, record_json, created_at
		FROM analyses`
	args := []interface{}{}
	if school != "" {
		query += ` WHERE school = ?`
		args = append(args, school)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scannable) (*Entry, error) {
	var e Entry
	var recordJSON, createdAt string
	if err := row.Scan(&e.ID, &e.School, &e.Year, &e.Path, &e.ContentHash, &recordJSON, &createdAt); err != nil {
		return nil, err
	}
	e.Record = &models.ExamRecord{}
	if err := json.Unmarshal([]byte(recordJSON), e.Record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = t
	}
	return &e, nil
}
