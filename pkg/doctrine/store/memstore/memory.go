// Package memstore provides an in-memory store.Store for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/torpcore/doctrine/pkg/doctrine/internalerr"
	"github.com/torpcore/doctrine/pkg/doctrine/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	sources  map[string]store.SourceRecord
	docs     map[string]store.DocumentRecord
	contents map[string]store.ContentRecord

	// FailUpsertSource and FailInsertDocument simulate persistence
	// failures in orchestrator tests.
	FailUpsertSource   bool
	FailInsertDocument bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		sources:  make(map[string]store.SourceRecord),
		docs:     make(map[string]store.DocumentRecord),
		contents: make(map[string]store.ContentRecord),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertSource inserts or replaces a source record, keyed by SourceID.
func (s *Store) UpsertSource(ctx context.Context, rec store.SourceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpsertSource {
		return fmt.Errorf("upsert source %s: %w", rec.SourceID, internalerr.ErrStoreUnavailable)
	}
	s.sources[rec.SourceID] = rec
	return nil
}

// CountSources returns the number of stored source records.
func (s *Store) CountSources(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.sources)), nil
}

// InsertDocument stores a document record.
func (s *Store) InsertDocument(ctx context.Context, d store.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsertDocument {
		return fmt.Errorf("insert document %s: %w", d.ID, internalerr.ErrStoreUnavailable)
	}
	if _, ok := s.docs[d.ID]; ok {
		return fmt.Errorf("document %s: %w", d.ID, internalerr.ErrDuplicate)
	}
	s.docs[d.ID] = d
	return nil
}

// InsertContent stores a content summary record.
func (s *Store) InsertContent(ctx context.Context, c store.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[c.DocumentID]; !ok {
		return fmt.Errorf("content for unknown document %s: %w", c.DocumentID, internalerr.ErrNotFound)
	}
	s.contents[c.DocumentID] = c
	return nil
}

// GetDocument returns a document record by id.
func (s *Store) GetDocument(ctx context.Context, id string) (store.DocumentRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	return d, ok, nil
}

// ListDocumentsBySource returns documents for a source, oldest first.
func (s *Store) ListDocumentsBySource(ctx context.Context, sourceID string) ([]store.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []store.DocumentRecord
	for _, d := range s.docs {
		if d.SourceID == sourceID {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// CountDocuments returns the number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// ArtifactTotals sums artifact counts across stored content records.
func (s *Store) ArtifactTotals(ctx context.Context) (store.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t store.Totals
	for _, c := range s.contents {
		t.Obligations += int64(c.Obligations)
		t.Thresholds += int64(c.Thresholds)
		t.Sanctions += int64(c.Sanctions)
	}
	return t, nil
}

// Content returns the stored content record for a document, for test
// assertions.
func (s *Store) Content(documentID string) (store.ContentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contents[documentID]
	return c, ok
}
