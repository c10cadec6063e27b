// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted paper metadata in a SQLite index.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const dbFile = "jmlr.db"

// Store manages the metadata SQLite database.
type Store struct {
	db       *sql.DB
	indexDir string
}

// Open opens or creates the metadata database at indexDir/jmlr.db,
// creating the schema if it does not exist.
func Open(indexDir string) (*Store, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, indexDir: indexDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			volume INTEGER,
			year INTEGER,
			track TEXT,
			n_pages INTEGER,
			submitted TEXT,
			revised TEXT,
			published TEXT,
			editor TEXT,
			keywords TEXT,
			authors TEXT,
			institution TEXT,
			region TEXT,
			pdf_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
		`CREATE TABLE IF NOT EXISTS failures (
			title TEXT PRIMARY KEY,
			reason TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// UpsertPaper inserts or replaces a paper record keyed by its ID.
func (s *Store) UpsertPaper(ctx context.Context, p *types.Paper) error {
	if p.ID == "" {
		return fmt.Errorf("paper %q has no ID", p.Title)
	}
	keywords, err := json.Marshal(p.Keywords)
	if err != nil {
		return fmt.Errorf("marshaling keywords: %w", err)
	}
	authors, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO papers (id, title, volume, year, track, n_pages,
			submitted, revised, published, editor, keywords, authors,
			institution, region, pdf_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			volume = excluded.volume,
			year = excluded.year,
			track = excluded.track,
			n_pages = excluded.n_pages,
			submitted = excluded.submitted,
			revised = excluded.revised,
			published = excluded.published,
			editor = excluded.editor,
			keywords = excluded.keywords,
			authors = excluded.authors,
			institution = excluded.institution,
			region = excluded.region,
			pdf_path = excluded.pdf_path`,
		p.ID, p.Title, p.Volume, p.Year, p.Track, p.NumPages,
		p.Submitted, p.Revised, p.Published, p.Editor,
		string(keywords), string(authors), p.Institution, p.Region, p.PDFPath)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

// SetNormalization records the normalized institution and region for a
// stored paper.
func (s *Store) SetNormalization(ctx context.Context, id, institution, region string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE papers SET institution = ?, region = ? WHERE id = ?`,
		institution, region, id)
	if err != nil {
		return fmt.Errorf("updating normalization for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no paper with ID %s", id)
	}
	return nil
}

// RecordFailure stores a rejected paper with its rejection reason. A repeat
// failure for the same title replaces the earlier reason.
func (s *Store) RecordFailure(ctx context.Context, title, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO failures (title, reason) VALUES (?, ?)`,
		title, reason)
	if err != nil {
		return fmt.Errorf("recording failure for %q: %w", title, err)
	}
	return nil
}

// Failure is a paper that could not be parsed.
type Failure struct {
	Title  string
	Reason string
}

// Failures returns all recorded parse failures ordered by title.
func (s *Store) Failures(ctx context.Context) ([]Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, reason FROM failures ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Title, &f.Reason); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Papers returns stored papers, filtered by year when year is non-zero,
// ordered by ID.
func (s *Store) Papers(ctx context.Context, year int) ([]types.Paper, error) {
	query := `SELECT id, title, volume, year, track, n_pages,
		submitted, revised, published, editor, keywords, authors,
		institution, region, pdf_path
		FROM papers`
	var args []any
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []types.Paper
	for rows.Next() {
		var p types.Paper
		var keywords, authors string
		if err := rows.Scan(&p.ID, &p.Title, &p.Volume, &p.Year, &p.Track,
			&p.NumPages, &p.Submitted, &p.Revised, &p.Published, &p.Editor,
			&keywords, &authors, &p.Institution, &p.Region, &p.PDFPath); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &p.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(authors), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Counts summarizes stored papers by track.
type Counts struct {
	Total    int
	Main     int
	Software int
}

// Counts tallies stored papers, filtered by year when year is non-zero.
// Papers whose track is "software_track" count as Software, everything
// else as Main.
func (s *Store) Counts(ctx context.Context, year int) (Counts, error) {
	query := `SELECT track, COUNT(*) FROM papers`
	var args []any
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` GROUP BY track`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Counts{}, fmt.Errorf("counting papers: %w", err)
	}
	defer rows.Close()

	var c Counts
	for rows.Next() {
		var track string
		var n int
		if err := rows.Scan(&track, &n); err != nil {
			return Counts{}, fmt.Errorf("scanning count: %w", err)
		}
		c.Total += n
		if track == "software_track" {
			c.Software += n
		} else {
			c.Main += n
		}
	}
	return c, rows.Err()
}
