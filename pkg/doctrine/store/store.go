package store

import (
	"context"
	"time"
)

// Store is the persistence boundary of the ingestion pipeline. The core
// only needs keyed upsert and insert semantics with per-write failure
// reporting; the storage technology behind it is an implementation detail
// (see the sqlite and memstore packages).
type Store interface {
	Close() error

	// Sources
	UpsertSource(ctx context.Context, s SourceRecord) error
	CountSources(ctx context.Context) (int64, error)

	// Documents
	InsertDocument(ctx context.Context, d DocumentRecord) error
	InsertContent(ctx context.Context, c ContentRecord) error
	GetDocument(ctx context.Context, id string) (DocumentRecord, bool, error)
	ListDocumentsBySource(ctx context.Context, sourceID string) ([]DocumentRecord, error)
	CountDocuments(ctx context.Context) (int64, error)

	// ArtifactTotals sums the per-document artifact counts across all
	// stored content records.
	ArtifactTotals(ctx context.Context) (Totals, error)
}

// SourceRecord is the stored reference for a doctrine source, combining
// registry metadata with the file metadata of its latest upload. Upserts
// are keyed by SourceID.
type SourceRecord struct {
	SourceID         string
	Name             string
	SourceType       string
	AuthorityLevel   int
	LegalWeight      int
	Enforceable      bool
	SectorTags       []string
	IssuingAuthority string
	ValidFrom        time.Time
	ValidUntil       time.Time
	Filename         string
	UploadedBy       string
	UploadedAt       time.Time
}

// DocumentRecord is one ingested doctrine document.
type DocumentRecord struct {
	ID        string // ULID minted at ingestion time
	SourceID  string
	Title     string
	Category  string
	FileSize  int64
	CreatedBy string
	CreatedAt time.Time
}

// ContentRecord summarizes the normalization result of one document.
type ContentRecord struct {
	DocumentID  string
	SourceID    string
	Summary     string
	Sectors     []string
	Confidence  float64
	Obligations int
	Thresholds  int
	Sanctions   int
	KeyTerms    int
}

// Totals aggregates artifact counts across stored documents.
type Totals struct {
	Obligations int64
	Thresholds  int64
	Sanctions   int64
}
