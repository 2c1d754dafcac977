package registry

import "time"

// DefaultSources is the built-in curated catalogue of French construction
// doctrine sources. It covers the main DTU execution standards, NF norms,
// environmental guides and the case law most often cited in renovation
// disputes. Deployments with their own catalogue load it from YAML instead
// (see the config package); both paths go through New and its validation.
func DefaultSources() []Source {
	return []Source{
		{
			ID:               "dtu-60-11",
			Name:             "NF DTU 60.11 - Plomberie sanitaire",
			SourceType:       TypeDTU,
			AuthorityLevel:   5,
			LegalWeight:      4,
			Enforceable:      true,
			SectorTags:       []string{"plomberie"},
			IssuingAuthority: "AFNOR",
			ValidFrom:        date(2013, 8, 1),
		},
		{
			ID:               "dtu-40-11",
			Name:             "NF DTU 40.11 - Couvertures en ardoises",
			SourceType:       TypeDTU,
			AuthorityLevel:   5,
			LegalWeight:      4,
			Enforceable:      true,
			SectorTags:       []string{"toiture"},
			IssuingAuthority: "AFNOR",
			ValidFrom:        date(2014, 5, 1),
		},
		{
			ID:               "dtu-20-1",
			Name:             "NF DTU 20.1 - Ouvrages en maçonnerie",
			SourceType:       TypeDTU,
			AuthorityLevel:   5,
			LegalWeight:      4,
			Enforceable:      true,
			SectorTags:       []string{"batiment", "facade"},
			IssuingAuthority: "AFNOR",
			ValidFrom:        date(2008, 10, 1),
		},
		{
			ID:               "dtu-45-10",
			Name:             "NF DTU 45.10 - Isolation par laine minérale",
			SourceType:       TypeDTU,
			AuthorityLevel:   5,
			LegalWeight:      4,
			Enforceable:      true,
			SectorTags:       []string{"isolation", "interieur"},
			IssuingAuthority: "AFNOR",
			ValidFrom:        date(2020, 7, 1),
		},
		{
			ID:               "nfc-15-100",
			Name:             "NF C 15-100 - Installations électriques basse tension",
			SourceType:       TypeNorme,
			AuthorityLevel:   5,
			LegalWeight:      5,
			Enforceable:      true,
			SectorTags:       []string{"electricite"},
			IssuingAuthority: "AFNOR / UTE",
			ValidFrom:        date(2015, 11, 27),
		},
		{
			ID:               "re-2020",
			Name:             "Réglementation environnementale RE2020",
			SourceType:       TypeNorme,
			AuthorityLevel:   5,
			LegalWeight:      5,
			Enforceable:      true,
			SectorTags:       []string{"chauffage_clim", "isolation", "menuiserie"},
			IssuingAuthority: "Ministère de la Transition écologique",
			ValidFrom:        date(2022, 1, 1),
		},
		{
			ID:               "rt-2012",
			Name:             "Réglementation thermique RT2012",
			SourceType:       TypeNorme,
			AuthorityLevel:   5,
			LegalWeight:      5,
			Enforceable:      true,
			SectorTags:       []string{"chauffage_clim", "isolation"},
			IssuingAuthority: "Ministère de la Transition écologique",
			ValidFrom:        date(2013, 1, 1),
			ValidUntil:       date(2021, 12, 31),
		},
		{
			ID:               "guide-rage-ventilation",
			Name:             "Guide RAGE - Ventilation mécanique contrôlée",
			SourceType:       TypeGuide,
			AuthorityLevel:   3,
			LegalWeight:      2,
			Enforceable:      false,
			SectorTags:       []string{"chauffage_clim", "interieur"},
			IssuingAuthority: "Programme RAGE",
			ValidFrom:        date(2015, 6, 1),
		},
		{
			ID:               "ademe-renovation",
			Name:             "Guide ADEME - Rénovation énergétique performante",
			SourceType:       TypeGuideADEME,
			AuthorityLevel:   3,
			LegalWeight:      2,
			Enforceable:      false,
			SectorTags:       []string{"isolation", "chauffage_clim"},
			IssuingAuthority: "ADEME",
			ValidFrom:        date(2021, 9, 1),
		},
		{
			ID:               "cass-decennale-1792",
			Name:             "Cour de cassation - Garantie décennale (art. 1792 CC)",
			SourceType:       TypeJurisprudence,
			AuthorityLevel:   4,
			LegalWeight:      5,
			Enforceable:      true,
			SectorTags:       []string{"batiment", "toiture"},
			IssuingAuthority: "Cour de cassation, 3e chambre civile",
			ValidFrom:        date(2015, 3, 15),
		},
		{
			ID:               "ft-placo-ba13",
			Name:             "Fiche technique - Plaque de plâtre BA13",
			SourceType:       TypeTechnique,
			AuthorityLevel:   2,
			LegalWeight:      1,
			Enforceable:      false,
			SectorTags:       []string{"interieur"},
			IssuingAuthority: "Placoplatre",
			ValidFrom:        date(2019, 1, 1),
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
