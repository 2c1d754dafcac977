// Package doctrine is the ingestion and classification engine for
// authoritative construction doctrine documents (DTU standards, NF norms,
// professional guides, case law, manufacturer sheets).
//
// The Engine facade drives the whole pipeline for one uploaded file:
// resolve the source in the registry, extract text, validate it against
// the source's expected vocabulary, normalize it into structured
// compliance facts and persist the result. The extraction and scoring
// components underneath (normalize, classify, registry) are pure and can
// also be called directly by callers that already hold extracted text.
package doctrine

import (
	"context"
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/torpcore/doctrine/internal/htmltext"
	"github.com/torpcore/doctrine/pkg/doctrine/classify"
	"github.com/torpcore/doctrine/pkg/doctrine/normalize"
	"github.com/torpcore/doctrine/pkg/doctrine/registry"
	"github.com/torpcore/doctrine/pkg/doctrine/store"
)

// Engine is the main doctrine ingestion facade.
type Engine struct {
	registry   *registry.Registry
	normalizer *normalize.Normalizer
	store      store.Store
	entropy    *ulid.MonotonicEntropy
	now        func() time.Time
}

// Options configures an Engine.
type Options struct {
	Registry   *registry.Registry
	Normalizer *normalize.Normalizer // built with defaults when nil
	Store      store.Store
	Now        func() time.Time // defaults to time.Now, overridable in tests
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	e := &Engine{
		registry:   opts.Registry,
		normalizer: opts.Normalizer,
		store:      opts.Store,
		entropy:    ulid.Monotonic(rand.Reader, 0),
		now:        opts.Now,
	}
	if e.normalizer == nil {
		e.normalizer = normalize.New()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Close cleanly shuts down the Engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Registry returns the engine's source registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// File is one uploaded document to ingest.
type File struct {
	Data     []byte
	Filename string
	SourceID string
}

// IngestResult reports the outcome of ingesting one file. Artifact counts
// are populated as soon as normalization has run, so a late persistence
// failure still shows what extraction found.
type IngestResult struct {
	Success     bool
	DocumentID  string
	SourceID    string
	Normalized  normalize.Document
	Errors      []string
	Warnings    []string
	Obligations int
	Thresholds  int
	Sanctions   int
}

// Failure reason prefixes used in IngestResult.Errors.
const (
	ReasonSourceNotFound      = "source-not-found"
	ReasonExtractionFailed    = "extraction-failed"
	ReasonSourcePersistFailed = "source-persist-failed"
	ReasonDocumentPersistFail = "document-persist-failed"
)

// Ingest runs the full pipeline for one file. Steps are strictly
// sequential and a failed step short-circuits the rest; the returned
// result always carries a human-readable reason, never an error value.
// Validation issues are warnings only and do not stop normalization.
func (e *Engine) Ingest(ctx context.Context, file File, userID string) IngestResult {
	res := IngestResult{SourceID: file.SourceID}

	src, ok := e.registry.Get(file.SourceID)
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", ReasonSourceNotFound, file.SourceID))
		return res
	}

	text, warnings := extractText(file.Data, file.Filename)
	res.Warnings = append(res.Warnings, warnings...)
	if text == "" {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: no text extracted from %s", ReasonExtractionFailed, file.Filename))
		return res
	}

	res.Warnings = append(res.Warnings, validateAgainstSource(text, src)...)

	res.Normalized = e.normalizer.Normalize(src.ID, text)
	res.Obligations = len(res.Normalized.Obligations)
	res.Thresholds = len(res.Normalized.Thresholds)
	res.Sanctions = len(res.Normalized.Sanctions)

	uploadedAt := e.now().UTC()
	if err := e.store.UpsertSource(ctx, sourceRecord(src, file.Filename, userID, uploadedAt)); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", ReasonSourcePersistFailed, err))
		return res
	}

	docID := ulid.MustNew(ulid.Timestamp(uploadedAt), e.entropy).String()
	doc := store.DocumentRecord{
		ID:        docID,
		SourceID:  src.ID,
		Title:     file.Filename,
		Category:  "doctrine",
		FileSize:  int64(len(file.Data)),
		CreatedBy: userID,
		CreatedAt: uploadedAt,
	}
	if err := e.store.InsertDocument(ctx, doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", ReasonDocumentPersistFail, err))
		return res
	}
	if err := e.store.InsertContent(ctx, contentRecord(docID, res.Normalized)); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", ReasonDocumentPersistFail, err))
		return res
	}

	res.Success = true
	res.DocumentID = docID
	return res
}

// BatchIngest processes files one at a time in submission order. One
// file's failure never aborts the batch; the result list is ordered like
// the input.
func (e *Engine) BatchIngest(ctx context.Context, files []File, userID string) []IngestResult {
	results := make([]IngestResult, 0, len(files))
	for _, f := range files {
		results = append(results, e.Ingest(ctx, f, userID))
	}
	return results
}

// Normalize extracts structured facts from already-extracted text,
// bypassing the persistence pipeline.
func (e *Engine) Normalize(sourceID, text string) normalize.Document {
	return e.normalizer.Normalize(sourceID, text)
}

// Classify scores a normalized document using its source's authority
// attributes from the registry. An unknown source yields a zero-valued
// reference-level result, mirroring the classifier's degraded mode.
func (e *Engine) Classify(documentID string, doc normalize.Document) classify.Result {
	src, ok := e.registry.Get(doc.SourceID)
	if !ok {
		return classify.Result{DocumentID: documentID, Enforceability: classify.LevelReference}
	}
	return classify.Classify(documentID, doc, src.AuthorityLevel, src.LegalWeight, src.Enforceable)
}

// Stats reports ingestion statistics: registered source references and
// stored documents, plus artifact totals summed from the persisted
// content summaries.
type Stats struct {
	Sources     int64
	Documents   int64
	Obligations int64
	Thresholds  int64
	Sanctions   int64
}

// Stats returns ingestion statistics from the store.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	sources, err := e.store.CountSources(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count sources: %w", err)
	}
	docs, err := e.store.CountDocuments(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count documents: %w", err)
	}
	totals, err := e.store.ArtifactTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("artifact totals: %w", err)
	}
	return Stats{
		Sources:     sources,
		Documents:   docs,
		Obligations: totals.Obligations,
		Thresholds:  totals.Thresholds,
		Sanctions:   totals.Sanctions,
	}, nil
}

// extractText decodes the uploaded bytes. Plain text and HTML are handled
// directly; binary formats (PDF, Word) are not parsed by this engine and
// yield empty text plus a warning; they are expected to be pre-extracted
// upstream.
func extractText(data []byte, filename string) (string, []string) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "", []string{fmt.Sprintf("%s: PDF parsing is not supported, upload extracted text", filename)}
	case ".doc", ".docx":
		return "", []string{fmt.Sprintf("%s: Word parsing is not supported, upload extracted text", filename)}
	case ".html", ".htm":
		return htmltext.Extract(decodeUTF8(data)), nil
	default:
		return decodeUTF8(data), nil
	}
}

func decodeUTF8(data []byte) string {
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.TrimSpace(s)
}

const (
	minTextLen = 100
	maxTextLen = 10_000_000
)

// expectedVocabulary lists the terms a document of each source type is
// expected to contain. Checked only for enforceable sources; a miss is a
// warning, not a failure, because partial or noisy documents still yield
// useful structured signal.
var expectedVocabulary = map[registry.SourceType][]string{
	registry.TypeDTU:           {"DTU", "travaux", "exécution", "bâtiment"},
	registry.TypeNorme:         {"NF", "norme", "standard"},
	registry.TypeGuide:         {"guide", "bonnes pratiques", "recommandation"},
	registry.TypeJurisprudence: {"jugement", "cour", "jurisprudence", "arrêt"},
	registry.TypeTechnique:     {"fiche technique", "produit", "spécification"},
	registry.TypeGuideADEME:    {"ADEME", "guide", "environnemental"},
}

func validateAgainstSource(text string, src registry.Source) []string {
	var issues []string

	if len(text) < minTextLen {
		issues = append(issues, fmt.Sprintf("document too short (%d characters, minimum %d)", len(text), minTextLen))
	}
	if len(text) > maxTextLen {
		issues = append(issues, fmt.Sprintf("document too long (%d characters, maximum %d)", len(text), maxTextLen))
	}

	if src.Enforceable {
		found := false
		for _, kw := range expectedVocabulary[src.SourceType] {
			if normalize.ContainsWord(text, kw) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, fmt.Sprintf("missing expected keywords for source type %s", src.SourceType))
		}
	}

	return issues
}

func sourceRecord(src registry.Source, filename, userID string, uploadedAt time.Time) store.SourceRecord {
	return store.SourceRecord{
		SourceID:         src.ID,
		Name:             src.Name,
		SourceType:       string(src.SourceType),
		AuthorityLevel:   src.AuthorityLevel,
		LegalWeight:      src.LegalWeight,
		Enforceable:      src.Enforceable,
		SectorTags:       src.SectorTags,
		IssuingAuthority: src.IssuingAuthority,
		ValidFrom:        src.ValidFrom,
		ValidUntil:       src.ValidUntil,
		Filename:         filename,
		UploadedBy:       userID,
		UploadedAt:       uploadedAt,
	}
}

func contentRecord(docID string, doc normalize.Document) store.ContentRecord {
	return store.ContentRecord{
		DocumentID:  docID,
		SourceID:    doc.SourceID,
		Summary:     "Doctrine: " + strings.Join(doc.KeyTerms, ", "),
		Sectors:     doc.Sectors,
		Confidence:  doc.Confidence,
		Obligations: len(doc.Obligations),
		Thresholds:  len(doc.Thresholds),
		Sanctions:   len(doc.Sanctions),
		KeyTerms:    len(doc.KeyTerms),
	}
}
