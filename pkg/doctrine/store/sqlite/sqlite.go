// Package sqlite implements store.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/torpcore/doctrine/pkg/doctrine/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS doctrine_sources (
	source_id TEXT PRIMARY KEY,
	name TEXT,
	source_type TEXT,
	authority_level INTEGER,
	legal_weight INTEGER,
	enforceable INTEGER,
	sector_tags TEXT,
	issuing_authority TEXT,
	valid_from TEXT,
	valid_until TEXT,
	filename TEXT,
	uploaded_by TEXT,
	uploaded_at TEXT
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	source_id TEXT NOT NULL,
	title TEXT,
	category TEXT,
	file_size INTEGER,
	created_by TEXT,
	created_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_id);

CREATE TABLE IF NOT EXISTS document_contents (
	document_id TEXT PRIMARY KEY,
	source_id TEXT NOT NULL,
	summary TEXT,
	sectors TEXT,
	confidence REAL,
	obligations INTEGER,
	thresholds INTEGER,
	sanctions INTEGER,
	key_terms INTEGER,
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertSource inserts or updates a source reference, keyed by source_id.
func (s *sqliteStore) UpsertSource(ctx context.Context, rec store.SourceRecord) error {
	tags, err := json.Marshal(rec.SectorTags)
	if err != nil {
		return fmt.Errorf("marshal sector tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO doctrine_sources
	(source_id, name, source_type, authority_level, legal_weight, enforceable,
	 sector_tags, issuing_authority, valid_from, valid_until, filename, uploaded_by, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source_id) DO UPDATE SET
	name=excluded.name,
	source_type=excluded.source_type,
	authority_level=excluded.authority_level,
	legal_weight=excluded.legal_weight,
	enforceable=excluded.enforceable,
	sector_tags=excluded.sector_tags,
	issuing_authority=excluded.issuing_authority,
	valid_from=excluded.valid_from,
	valid_until=excluded.valid_until,
	filename=excluded.filename,
	uploaded_by=excluded.uploaded_by,
	uploaded_at=excluded.uploaded_at`,
		rec.SourceID, rec.Name, rec.SourceType, rec.AuthorityLevel, rec.LegalWeight,
		boolToInt(rec.Enforceable), string(tags), rec.IssuingAuthority,
		timeToText(rec.ValidFrom), timeToText(rec.ValidUntil),
		rec.Filename, rec.UploadedBy, timeToText(rec.UploadedAt))
	return err
}

// CountSources returns the number of stored source references.
func (s *sqliteStore) CountSources(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM doctrine_sources`).Scan(&n)
	return n, err
}

// InsertDocument stores one ingested document record.
func (s *sqliteStore) InsertDocument(ctx context.Context, d store.DocumentRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (id, source_id, title, category, file_size, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SourceID, d.Title, d.Category, d.FileSize, d.CreatedBy, timeToText(d.CreatedAt))
	return err
}

// InsertContent stores the normalization summary for a document.
func (s *sqliteStore) InsertContent(ctx context.Context, c store.ContentRecord) error {
	sectors, err := json.Marshal(c.Sectors)
	if err != nil {
		return fmt.Errorf("marshal sectors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO document_contents
	(document_id, source_id, summary, sectors, confidence, obligations, thresholds, sanctions, key_terms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.DocumentID, c.SourceID, c.Summary, string(sectors), c.Confidence,
		c.Obligations, c.Thresholds, c.Sanctions, c.KeyTerms)
	return err
}

// GetDocument returns a document record by id.
func (s *sqliteStore) GetDocument(ctx context.Context, id string) (store.DocumentRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, source_id, title, category, file_size, created_by, created_at
FROM documents WHERE id = ?`, id)

	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return store.DocumentRecord{}, false, nil
	}
	if err != nil {
		return store.DocumentRecord{}, false, err
	}
	return d, true, nil
}

// ListDocumentsBySource returns documents for a source, oldest first.
func (s *sqliteStore) ListDocumentsBySource(ctx context.Context, sourceID string) ([]store.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source_id, title, category, file_size, created_by, created_at
FROM documents WHERE source_id = ? ORDER BY created_at, id`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.DocumentRecord
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of stored documents.
func (s *sqliteStore) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// ArtifactTotals sums artifact counts across all content records.
func (s *sqliteStore) ArtifactTotals(ctx context.Context) (store.Totals, error) {
	var t store.Totals
	err := s.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(obligations), 0), COALESCE(SUM(thresholds), 0), COALESCE(SUM(sanctions), 0)
FROM document_contents`).Scan(&t.Obligations, &t.Thresholds, &t.Sanctions)
	return t, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (store.DocumentRecord, error) {
	var d store.DocumentRecord
	var createdAt string
	if err := row.Scan(&d.ID, &d.SourceID, &d.Title, &d.Category, &d.FileSize, &d.CreatedBy, &createdAt); err != nil {
		return store.DocumentRecord{}, err
	}
	d.CreatedAt = textToTime(createdAt)
	return d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeToText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func textToTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
