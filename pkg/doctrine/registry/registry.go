package registry

import (
	"fmt"
	"time"

	"github.com/torpcore/doctrine/pkg/doctrine/internalerr"
)

// SourceType identifies the kind of authoritative document a source publishes.
type SourceType string

const (
	TypeDTU           SourceType = "DTU"           // unified technical standard documents
	TypeNorme         SourceType = "NORME"         // NF / EN norms
	TypeGuide         SourceType = "GUIDE"         // professional best-practice guides
	TypeJurisprudence SourceType = "JURISPRUDENCE" // case law
	TypeTechnique     SourceType = "TECHNIQUE"     // manufacturer technical sheets
	TypeGuideADEME    SourceType = "GUIDE_ADEME"   // environmental agency guides
)

// Source describes one authoritative doctrine source.
//
// AuthorityLevel and LegalWeight are both on a 1-5 scale where 5 means
// highest authority / legally binding. ValidFrom and ValidUntil bound the
// validity window at calendar-date granularity; a zero ValidUntil means
// the source is valid indefinitely.
type Source struct {
	ID               string
	Name             string
	SourceType       SourceType
	AuthorityLevel   int
	LegalWeight      int
	Enforceable      bool
	SectorTags       []string
	IssuingAuthority string
	ValidFrom        time.Time
	ValidUntil       time.Time
}

// AuthorityScore maps the combined authority and legal weight to 0-100.
func (s Source) AuthorityScore() float64 {
	return float64(s.AuthorityLevel+s.LegalWeight) / 10.0 * 100.0
}

// ValidOn reports whether the source is valid on the given calendar date.
// Time-of-day is ignored; boundary dates are valid.
func (s Source) ValidOn(date time.Time) bool {
	d := dateOnly(date)
	if !s.ValidFrom.IsZero() && d.Before(dateOnly(s.ValidFrom)) {
		return false
	}
	if !s.ValidUntil.IsZero() && d.After(dateOnly(s.ValidUntil)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Registry is an immutable catalogue of doctrine sources. It is populated
// once at construction and is safe for concurrent readers.
type Registry struct {
	byID  map[string]Source
	order []string
}

// New builds a registry from the given sources. Every source is validated;
// a single invalid entry fails the whole construction so configuration
// mistakes surface at startup rather than at lookup time.
func New(sources []Source) (*Registry, error) {
	r := &Registry{byID: make(map[string]Source, len(sources))}
	for _, src := range sources {
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.ID, err)
		}
		if _, dup := r.byID[src.ID]; dup {
			return nil, fmt.Errorf("source %q: duplicate id: %w", src.ID, internalerr.ErrInvalidSource)
		}
		r.byID[src.ID] = copySource(src)
		r.order = append(r.order, src.ID)
	}
	return r, nil
}

func validate(s Source) error {
	if s.ID == "" {
		return fmt.Errorf("missing id: %w", internalerr.ErrInvalidSource)
	}
	if s.AuthorityLevel < 1 || s.AuthorityLevel > 5 {
		return fmt.Errorf("authority level %d out of range [1,5]: %w", s.AuthorityLevel, internalerr.ErrInvalidSource)
	}
	if s.LegalWeight < 1 || s.LegalWeight > 5 {
		return fmt.Errorf("legal weight %d out of range [1,5]: %w", s.LegalWeight, internalerr.ErrInvalidSource)
	}
	if !s.ValidFrom.IsZero() && !s.ValidUntil.IsZero() && s.ValidUntil.Before(s.ValidFrom) {
		return fmt.Errorf("validUntil precedes validFrom: %w", internalerr.ErrInvalidSource)
	}
	return nil
}

// Get returns the source with the given id.
func (r *Registry) Get(id string) (Source, bool) {
	src, ok := r.byID[id]
	if !ok {
		return Source{}, false
	}
	return copySource(src), true
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every registered source in registration order.
func (r *Registry) All() []Source {
	return r.filter(func(Source) bool { return true })
}

// ListBySector returns sources tagged with the given sector.
func (r *Registry) ListBySector(sector string) []Source {
	return r.filter(func(s Source) bool {
		for _, tag := range s.SectorTags {
			if tag == sector {
				return true
			}
		}
		return false
	})
}

// ListByType returns sources of the given type.
func (r *Registry) ListByType(st SourceType) []Source {
	return r.filter(func(s Source) bool { return s.SourceType == st })
}

// ListEnforceable returns all legally enforceable sources.
func (r *Registry) ListEnforceable() []Source {
	return r.filter(func(s Source) bool { return s.Enforceable })
}

// ListValidForSector returns sources tagged with the sector that are valid
// on the given date.
func (r *Registry) ListValidForSector(sector string, date time.Time) []Source {
	var out []Source
	for _, s := range r.ListBySector(sector) {
		if s.ValidOn(date) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) filter(keep func(Source) bool) []Source {
	var out []Source
	for _, id := range r.order {
		if s := r.byID[id]; keep(s) {
			out = append(out, copySource(s))
		}
	}
	return out
}

// copySource deep-copies the slice field so callers cannot mutate the
// registry's snapshot through a returned value.
func copySource(s Source) Source {
	if len(s.SectorTags) > 0 {
		tags := make([]string, len(s.SectorTags))
		copy(tags, s.SectorTags)
		s.SectorTags = tags
	}
	return s
}
