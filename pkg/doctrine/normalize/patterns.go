package normalize

import (
	"regexp"
	"strings"
)

// obligationRule pairs a language pattern with the category and severity
// assigned to every match. The four families run independently over the
// whole text; a sentence can legitimately produce more than one obligation.
type obligationRule struct {
	re       *regexp.Regexp
	category ObligationCategory
	severity Severity
}

func defaultObligationRules() []obligationRule {
	return []obligationRule{
		{
			re:       regexp.MustCompile(`(?i)(?:doit|doivent|obligation de|être obligatoirement|l'ouvrage doit)([^.]*)`),
			category: CategoryRequirement,
			severity: SeverityHigh,
		},
		{
			re:       regexp.MustCompile(`(?i)(?:ne doit pas|ne peuvent pas|interdit|prohibé|interdiction)([^.]*)`),
			category: CategoryProhibition,
			severity: SeverityHigh,
		},
		{
			re:       regexp.MustCompile(`(?i)(?:devrait|il est recommandé|recommandation|préconisé)([^.]*)`),
			category: CategoryRecommendation,
			severity: SeverityMedium,
		},
		{
			re:       regexp.MustCompile(`(?i)(?:sauf|excepté|exception|exemption|pas applicable)([^.]*)`),
			category: CategoryExemption,
			severity: SeverityLow,
		},
	}
}

// sectorRule maps a keyword family to a work sector label. Rules are kept
// in a slice, not a map, so extraction output order is deterministic.
type sectorRule struct {
	sector string
	re     *regexp.Regexp
}

func defaultSectorRules() []sectorRule {
	return []sectorRule{
		{"batiment", regexp.MustCompile(`(?i)bâtiment|batiment|immeuble|résidentiel|logement|habitation`)},
		{"facade", regexp.MustCompile(`(?i)façades?|facades?|revêtement`)},
		{"toiture", regexp.MustCompile(`(?i)toitures?|couverture`)},
		{"electricite", regexp.MustCompile(`(?i)électricit|câblage|installation électrique`)},
		{"chauffage_clim", regexp.MustCompile(`(?i)chauffage|radiateur|climatisation`)},
		{"plomberie", regexp.MustCompile(`(?i)plomberie|eau|sanitaire`)},
		{"interieur", regexp.MustCompile(`(?i)cloison|plâtre|intérieur`)},
		{"isolation", regexp.MustCompile(`(?i)isolation|thermique`)},
		{"menuiserie", regexp.MustCompile(`(?i)menuiserie|fenêtre|porte`)},
	}
}

// thresholdRe matches a number immediately followed by a unit token.
// Multi-character units come first: Go's regexp picks the first matching
// alternative, not the longest, so "kg/m²" must precede "kg" and "m²"
// must precede "m".
var thresholdRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg/m²|m²|m³|mm|cm|kg|°c|kw|db|w|a|m|%)`)

// operatorRule infers a comparison operator from qualifier words near the
// matched value. First match wins, so the more specific qualifiers come
// first and simple equality phrasing is checked late.
type operatorRule struct {
	re *regexp.Regexp
	op CompareOp
}

func defaultOperatorRules() []operatorRule {
	return []operatorRule{
		{regexp.MustCompile(`(?i)minimum|minimale?s?|au moins|≥|>=`), OpGTE},
		{regexp.MustCompile(`(?i)maximum|maximale?s?|au plus|≤|<=`), OpLTE},
		{regexp.MustCompile(`(?i)supérieur à|>`), OpGT},
		{regexp.MustCompile(`(?i)inférieur à|<`), OpLT},
		{regexp.MustCompile(`(?i)entre|compris`), OpBetween},
		{regexp.MustCompile(`(?i)égale? à|=`), OpEQ},
		{regexp.MustCompile(`(?i)différente? de|!=|≠`), OpNEQ},
	}
}

// betweenLowerRe extracts the lower bound of a "entre X et Y" range.
var betweenLowerRe = regexp.MustCompile(`(?i)entre\s+(\d+(?:[.,]\d+)?)\s+et`)

// sanctionRule pairs a sanction language pattern with its type and a fixed
// severity on the 1-10 scale.
type sanctionRule struct {
	re       *regexp.Regexp
	kind     SanctionType
	severity int
}

func defaultSanctionRules() []sanctionRule {
	return []sanctionRule{
		{
			re:       regexp.MustCompile(`(?i)(?:amende|pénalité|sanction|pénale)([^.]*?)(?:\d+|€)`),
			kind:     SanctionPenalty,
			severity: 8,
		},
		{
			re:       regexp.MustCompile(`(?i)(?:responsabilité civile|responsable de|garantie décennale)([^.]*)`),
			kind:     SanctionLiability,
			severity: 9,
		},
		{
			re:       regexp.MustCompile(`(?i)(?:non-conformité|non-respect|infraction)([^.]*)`),
			kind:     SanctionNonCompliance,
			severity: 6,
		},
	}
}

// partyRule maps role keywords to the responsible party labels stored on
// extracted sanctions.
type partyRule struct {
	party string
	re    *regexp.Regexp
}

func defaultPartyRules() []partyRule {
	return []partyRule{
		{"contractor", regexp.MustCompile(`(?i)entrepreneur|artisan|entreprise`)},
		{"owner", regexp.MustCompile(`(?i)maître d'ouvrage|propriétaire|client`)},
		{"designer", regexp.MustCompile(`(?i)architecte|maître d'œuvre|concepteur`)},
		{"engineer", regexp.MustCompile(`(?i)bureau d'études|ingénieur`)},
	}
}

// buildSectorRules compiles a sector→keywords dictionary into ordered
// rules. Keywords are quoted literally and joined into one alternation.
func buildSectorRules(sectors map[string][]string, order []string) []sectorRule {
	var rules []sectorRule
	for _, name := range order {
		keywords := sectors[name]
		if len(keywords) == 0 {
			continue
		}
		quoted := make([]string, len(keywords))
		for i, kw := range keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		re, err := regexp.Compile(`(?i)` + strings.Join(quoted, "|"))
		if err != nil {
			continue
		}
		rules = append(rules, sectorRule{sector: name, re: re})
	}
	return rules
}

// defaultTechnicalTerms is the ranked-vocabulary list used by key-term
// extraction. Order matters: ties on occurrence count keep vocabulary order.
func defaultTechnicalTerms() []string {
	return []string{
		"DTU",
		"NF",
		"AFNOR",
		"RGE",
		"QAI",
		"BBC",
		"RE2020",
		"étanchéité",
		"isolation thermique",
		"isolation phonique",
		"humidité",
		"condensation",
		"ventilation",
		"pont thermique",
		"pare-vapeur",
		"pare-pluie",
		"membrane",
		"béton",
		"acier",
		"brique",
		"tuile",
		"enduit",
	}
}
