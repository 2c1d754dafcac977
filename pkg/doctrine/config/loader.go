package config

import (
	"fmt"

	"github.com/torpcore/doctrine/pkg/doctrine/normalize"
	"github.com/torpcore/doctrine/pkg/doctrine/registry"
)

// Loader loads configuration files and constructs engine components.
// Empty paths fall back to the built-in defaults.
type Loader struct {
	SourcesPath    string
	VocabularyPath string
}

// Components holds the loaded configuration components.
type Components struct {
	Registry   *registry.Registry
	Normalizer *normalize.Normalizer
}

// Load reads the configuration files and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	// Source catalogue
	entries := registry.DefaultSources()
	if l.SourcesPath != "" {
		sources, err := LoadSources(l.SourcesPath)
		if err != nil {
			return nil, fmt.Errorf("load sources: %w", err)
		}
		entries, err = sources.Registry()
		if err != nil {
			return nil, fmt.Errorf("load sources: %w", err)
		}
	}
	reg, err := registry.New(entries)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	comp.Registry = reg

	// Extraction vocabulary
	var opts []normalize.Option
	if l.VocabularyPath != "" {
		vocab, err := LoadVocabulary(l.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		if len(vocab.TechnicalTerms) > 0 {
			opts = append(opts, normalize.WithTechnicalTerms(vocab.TechnicalTerms))
		}
		if len(vocab.Sectors) > 0 {
			sectors := make(map[string][]string, len(vocab.Sectors))
			order := make([]string, 0, len(vocab.Sectors))
			for _, e := range vocab.Sectors {
				sectors[e.Sector] = e.Keywords
				order = append(order, e.Sector)
			}
			opts = append(opts, normalize.WithSectorKeywords(sectors, order))
		}
	}
	comp.Normalizer = normalize.New(opts...)

	return comp, nil
}
