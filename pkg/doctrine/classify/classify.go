// Package classify scores normalized doctrine documents for relevance and
// enforceability, and matches them against project profiles.
//
// Like the normalization engine, everything here is pure and deterministic:
// fixed lookup tables drive the sector→lot expansion and the risk keyword
// families, and scoring is a closed formula over the document's structure
// and its source's authority attributes.
package classify

import (
	"math"
	"regexp"
	"strings"

	"github.com/torpcore/doctrine/pkg/doctrine/normalize"
)

// Level grades how binding a document's content is.
type Level string

const (
	LevelCritical  Level = "critical"
	LevelImportant Level = "important"
	LevelAdvisory  Level = "advisory"
	LevelReference Level = "reference"
)

// Levels lists all enforceability levels in decreasing order of weight.
func Levels() []Level {
	return []Level{LevelCritical, LevelImportant, LevelAdvisory, LevelReference}
}

// Result is the classification of one normalized document.
type Result struct {
	DocumentID         string
	Sectors            []string
	LotTypes           []string
	Risks              []string
	RelevanceScore     int // 0-100
	Enforceability     Level
	KeyObligations     int // obligations with critical or high severity
	CriticalThresholds int // thresholds with a minimum/mandatory qualifier
	AllProjects        bool
}

// sectorLots expands a work sector into the lot types it covers. Unmapped
// sectors contribute nothing.
var sectorLots = map[string][]string{
	"batiment":       {"gros_oeuvre", "demolition"},
	"facade":         {"ravalement_facade", "peinture"},
	"toiture":        {"toiture", "charpente"},
	"electricite":    {"electricite", "domotique"},
	"chauffage_clim": {"chauffage", "climatisation"},
	"plomberie":      {"plomberie", "sanitaire"},
	"interieur":      {"platrerie", "peinture"},
	"isolation":      {"isolation"},
	"menuiserie":     {"menuiserie", "fenetre", "portes"},
}

// riskRule maps a keyword family to a risk category label. A family counts
// as applicable when its pattern matches anywhere in the concatenated
// obligation text. Slice order keeps output deterministic.
type riskRule struct {
	risk string
	re   *regexp.Regexp
}

var riskRules = []riskRule{
	{"humidite", regexp.MustCompile(`(?i)humidité|infiltration|condensation|moisissure|dégât des eaux`)},
	{"thermique", regexp.MustCompile(`(?i)thermique|isolation|déperdition`)},
	{"acoustique", regexp.MustCompile(`(?i)acoustique|phonique|bruit|décibel`)},
	{"incendie", regexp.MustCompile(`(?i)incendie|feu|inflammable|coupe-feu|désenfumage`)},
	{"structurel", regexp.MustCompile(`(?i)structure|porteur|fissure|effondrement|fondation`)},
	{"ventilation", regexp.MustCompile(`(?i)ventilation|vmc|aération|renouvellement d'air`)},
	{"electrique", regexp.MustCompile(`(?i)électrique|électrocution|court-circuit|surtension`)},
	{"gaz", regexp.MustCompile(`(?i)gaz|monoxyde|combustion`)},
	{"contamination", regexp.MustCompile(`(?i)amiante|plomb|pollution|contamination`)},
}

// criticalQualifierRe marks a threshold as critical when its context
// carries a minimum/mandatory qualifier. Coarse by design; thresholds
// phrased differently are not counted.
var criticalQualifierRe = regexp.MustCompile(`(?i)minimum|minimale?s?|obligatoire|impératif`)

// Classify derives a Result from a normalized document plus its source's
// authority attributes. It never fails: an internal panic degrades to a
// zero-valued reference-level result.
func Classify(documentID string, doc normalize.Document, authorityLevel, legalWeight int, enforceable bool) (res Result) {
	res = Result{DocumentID: documentID, Enforceability: LevelReference}

	defer func() {
		if r := recover(); r != nil {
			res = Result{DocumentID: documentID, Enforceability: LevelReference}
		}
	}()

	res.Sectors = append(res.Sectors, doc.Sectors...)
	res.LotTypes = expandLots(doc.Sectors)
	res.Risks = detectRisks(doc.Obligations)
	res.KeyObligations = countKeyObligations(doc.Obligations)
	res.CriticalThresholds = countCriticalThresholds(doc.Thresholds)
	res.RelevanceScore = relevanceScore(authorityLevel, legalWeight, doc.Confidence, len(doc.Obligations))
	res.Enforceability = enforceabilityLevel(authorityLevel, legalWeight, enforceable)
	res.AllProjects = enforceable && authorityLevel >= 4

	return res
}

func expandLots(sectors []string) []string {
	seen := make(map[string]struct{})
	var lots []string
	for _, sector := range sectors {
		for _, lot := range sectorLots[sector] {
			if _, ok := seen[lot]; ok {
				continue
			}
			seen[lot] = struct{}{}
			lots = append(lots, lot)
		}
	}
	return lots
}

func detectRisks(obligations []normalize.Obligation) []string {
	var sb strings.Builder
	for _, o := range obligations {
		sb.WriteString(o.Text)
		sb.WriteByte(' ')
	}
	text := sb.String()

	var risks []string
	for _, rule := range riskRules {
		if rule.re.MatchString(text) {
			risks = append(risks, rule.risk)
		}
	}
	return risks
}

func countKeyObligations(obligations []normalize.Obligation) int {
	count := 0
	for _, o := range obligations {
		if o.Severity == normalize.SeverityCritical || o.Severity == normalize.SeverityHigh {
			count++
		}
	}
	return count
}

func countCriticalThresholds(thresholds []normalize.Threshold) int {
	count := 0
	for _, t := range thresholds {
		if criticalQualifierRe.MatchString(t.Context) {
			count++
		}
	}
	return count
}

// relevanceScore combines authority (up to 50 points), extraction
// confidence (up to 30) and obligation volume (up to 20), clamped to
// [0,100].
func relevanceScore(authorityLevel, legalWeight int, confidence float64, obligationCount int) int {
	authority := float64(authorityLevel+legalWeight) / 10.0 * 50.0
	density := math.Min(float64(obligationCount)/10.0, 1.0) * 20.0
	score := int(math.Round(authority + confidence*30.0 + density))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func enforceabilityLevel(authorityLevel, legalWeight int, enforceable bool) Level {
	switch {
	case enforceable && legalWeight >= 4:
		return LevelCritical
	case legalWeight >= 3 || authorityLevel >= 4:
		return LevelImportant
	case authorityLevel >= 2:
		return LevelAdvisory
	default:
		return LevelReference
	}
}
