package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torpcore/doctrine/pkg/doctrine/registry"
)

// Sources is the YAML representation of a source catalogue.
type Sources struct {
	Sources []SourceEntry `yaml:"sources"`
}

// SourceEntry is one catalogue entry. Dates use the 2006-01-02 layout.
type SourceEntry struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Type             string   `yaml:"type"`
	AuthorityLevel   int      `yaml:"authority_level"`
	LegalWeight      int      `yaml:"legal_weight"`
	Enforceable      bool     `yaml:"enforceable"`
	Sectors          []string `yaml:"sectors"`
	IssuingAuthority string   `yaml:"issuing_authority"`
	ValidFrom        string   `yaml:"valid_from"`
	ValidUntil       string   `yaml:"valid_until"`
}

// LoadSources loads a source catalogue from a YAML file.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var src Sources
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, err
	}

	return &src, nil
}

// Registry converts the catalogue into registry sources. Date parse
// failures are reported here so they surface at startup.
func (s *Sources) Registry() ([]registry.Source, error) {
	out := make([]registry.Source, 0, len(s.Sources))
	for _, e := range s.Sources {
		validFrom, err := parseDate(e.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("source %q: valid_from: %w", e.ID, err)
		}
		validUntil, err := parseDate(e.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("source %q: valid_until: %w", e.ID, err)
		}
		out = append(out, registry.Source{
			ID:               e.ID,
			Name:             e.Name,
			SourceType:       registry.SourceType(e.Type),
			AuthorityLevel:   e.AuthorityLevel,
			LegalWeight:      e.LegalWeight,
			Enforceable:      e.Enforceable,
			SectorTags:       e.Sectors,
			IssuingAuthority: e.IssuingAuthority,
			ValidFrom:        validFrom,
			ValidUntil:       validUntil,
		})
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// Vocabulary is the YAML representation of extraction vocabulary
// overrides. Sector entries are a list, not a map, so rule order (and
// therefore extraction output order) follows the file.
type Vocabulary struct {
	TechnicalTerms []string      `yaml:"technical_terms"`
	Sectors        []SectorEntry `yaml:"sectors"`
}

// SectorEntry maps a sector label to its keyword family.
type SectorEntry struct {
	Sector   string   `yaml:"sector"`
	Keywords []string `yaml:"keywords"`
}

// LoadVocabulary loads extraction vocabulary from a YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return &v, nil
}
