// Package normalize turns raw doctrine text into structured compliance
// facts: obligations, numerical thresholds, sanctions and key terms.
//
// Extraction is deliberately heuristic and deterministic. All rule sets are
// plain data tables (see patterns.go) so the vocabulary can be audited and
// extended without touching control flow.
package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ObligationCategory classifies the language family an obligation was
// extracted from.
type ObligationCategory string

const (
	CategoryRequirement    ObligationCategory = "requirement"
	CategoryProhibition    ObligationCategory = "prohibition"
	CategoryRecommendation ObligationCategory = "recommendation"
	CategoryExemption      ObligationCategory = "exemption"
)

// Severity grades how serious an obligation is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CompareOp is the comparison operator attached to a numerical threshold.
type CompareOp string

const (
	OpLT      CompareOp = "<"
	OpLTE     CompareOp = "<="
	OpGT      CompareOp = ">"
	OpGTE     CompareOp = ">="
	OpEQ      CompareOp = "="
	OpNEQ     CompareOp = "!="
	OpBetween CompareOp = "between"
)

// SanctionType classifies an extracted sanction.
type SanctionType string

const (
	SanctionPenalty       SanctionType = "penalty"
	SanctionFine          SanctionType = "fine"
	SanctionLiability     SanctionType = "liability"
	SanctionNonCompliance SanctionType = "non-compliance"
)

// Obligation is one extracted requirement, prohibition, recommendation or
// exemption statement.
type Obligation struct {
	ID        string
	Text      string // snippet, capped at obligationSnippetLen
	Category  ObligationCategory
	Severity  Severity
	Sectors   []string // never empty; falls back to ["general"]
	Condition string   // optional free-text condition
}

// Threshold is one extracted numerical limit.
type Threshold struct {
	ID          string
	Description string
	Value       float64
	Unit        string // normalized lower-case unit token
	Context     string
	Operator    CompareOp
	SecondValue float64 // only meaningful when Operator == OpBetween
	HasSecond   bool
}

// Sanction is one extracted penalty, liability or non-compliance clause.
type Sanction struct {
	ID           string
	Type         SanctionType
	Description  string
	Severity     int      // 1-10
	ApplicableTo []string // never empty; falls back to ["contractor"]
}

// Document is the structured result of normalizing one doctrine text.
// It is the single artifact handed to classification and storage, and it
// is never nil: failed normalization yields an empty document with
// Confidence 0.
type Document struct {
	SourceID    string
	Obligations []Obligation
	Thresholds  []Threshold
	Sanctions   []Sanction
	KeyTerms    []string
	Sectors     []string // union of obligation sectors, "general" excluded
	Confidence  float64  // 0-1, saturating density heuristic
}

const (
	obligationSnippetLen = 200
	sanctionSnippetLen   = 150
	thresholdContextLen  = 100
	operatorWindow       = 40 // chars before a value inspected for qualifiers
	defaultKeyTermLimit  = 20
	confidenceSaturation = 10 // artifact count at which confidence reaches 1
)

// Normalizer runs the pattern families. The zero value is not usable;
// construct with New.
type Normalizer struct {
	obligations []obligationRule
	sectors     []sectorRule
	operators   []operatorRule
	sanctions   []sanctionRule
	parties     []partyRule
	terms       []string
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithTechnicalTerms replaces the key-term vocabulary.
func WithTechnicalTerms(terms []string) Option {
	return func(n *Normalizer) {
		if len(terms) > 0 {
			n.terms = terms
		}
	}
}

// WithSectorKeywords replaces the sector keyword dictionary. Keywords for
// one sector are joined into a single alternation pattern.
func WithSectorKeywords(sectors map[string][]string, order []string) Option {
	return func(n *Normalizer) {
		rules := buildSectorRules(sectors, order)
		if len(rules) > 0 {
			n.sectors = rules
		}
	}
}

// New creates a Normalizer with the built-in French construction doctrine
// vocabulary, then applies options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		obligations: defaultObligationRules(),
		sectors:     defaultSectorRules(),
		operators:   defaultOperatorRules(),
		sanctions:   defaultSanctionRules(),
		parties:     defaultPartyRules(),
		terms:       defaultTechnicalTerms(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize runs all extractors over the text and assembles a Document.
//
// It never fails: any internal panic degrades to an empty document with
// Confidence 0, so callers always have a well-formed value to persist or
// score. An empty low-confidence document is the "nothing useful found"
// signal; there is no separate error channel.
func (n *Normalizer) Normalize(sourceID, text string) (doc Document) {
	doc = Document{SourceID: sourceID}

	defer func() {
		if r := recover(); r != nil {
			doc = Document{SourceID: sourceID}
		}
	}()

	doc.Obligations = n.ExtractObligations(text)
	doc.Thresholds = n.ExtractThresholds(text)
	doc.Sanctions = n.ExtractSanctions(text)
	doc.KeyTerms = n.ExtractKeyTerms(text, defaultKeyTermLimit)
	doc.Sectors = unionSectors(doc.Obligations)

	artifacts := len(doc.Obligations) + len(doc.Thresholds) + len(doc.Sanctions) + len(doc.KeyTerms)
	doc.Confidence = float64(artifacts) / confidenceSaturation
	if doc.Confidence > 1 {
		doc.Confidence = 1
	}

	return doc
}

// ExtractObligations runs the four obligation language families over the
// text. Each match yields one obligation with a snippet capped at 200
// characters and sector applicability inferred from the snippet itself.
func (n *Normalizer) ExtractObligations(text string) []Obligation {
	var out []Obligation
	id := 0

	for _, rule := range n.obligations {
		for _, m := range rule.re.FindAllString(text, -1) {
			out = append(out, Obligation{
				ID:       fmt.Sprintf("obl-%d", id),
				Text:     snippet(m, obligationSnippetLen),
				Category: rule.category,
				Severity: rule.severity,
				Sectors:  n.inferSectors(m),
			})
			id++
		}
	}
	return out
}

// ExtractThresholds finds number+unit pairs and infers the comparison
// operator from qualifier words in a window around each match.
func (n *Normalizer) ExtractThresholds(text string) []Threshold {
	var out []Threshold
	id := 0

	for _, loc := range thresholdRe.FindAllStringSubmatchIndex(text, -1) {
		// Reject matches embedded in larger words: "2 ans" must not read
		// as 2 amperes, and the year in "RE2020" is not a measurement.
		if !boundaryBefore(text, loc[2]) || !boundaryAfter(text, loc[5]) {
			continue
		}
		rawValue := text[loc[2]:loc[3]]
		value, err := parseDecimal(rawValue)
		if err != nil {
			continue
		}
		unit := strings.ToLower(text[loc[4]:loc[5]])

		context := trailingContext(text, loc[1])
		window := qualifierWindow(text, loc[0], loc[1]) + context

		t := Threshold{
			ID:          fmt.Sprintf("thr-%d", id),
			Description: strconv.FormatFloat(value, 'f', -1, 64) + unit,
			Value:       value,
			Unit:        unit,
			Context:     context,
			Operator:    n.inferOperator(window),
		}

		// Range phrasing: "entre 2 et 4 m" matches on the upper bound; the
		// lower bound sits in the qualifier window.
		if t.Operator == OpBetween {
			if m := betweenLowerRe.FindStringSubmatch(window); m != nil {
				if lower, err := parseDecimal(m[1]); err == nil && lower <= value {
					t.Value = lower
					t.SecondValue = value
					t.HasSecond = true
				}
			}
		}

		out = append(out, t)
		id++
	}
	return out
}

// ExtractSanctions runs the sanction language families. Responsible
// parties are inferred from role keywords in the matched snippet.
func (n *Normalizer) ExtractSanctions(text string) []Sanction {
	var out []Sanction
	id := 0

	for _, rule := range n.sanctions {
		for _, m := range rule.re.FindAllString(text, -1) {
			out = append(out, Sanction{
				ID:           fmt.Sprintf("san-%d", id),
				Type:         rule.kind,
				Description:  snippet(m, sanctionSnippetLen),
				Severity:     rule.severity,
				ApplicableTo: n.inferParties(m),
			})
			id++
		}
	}
	return out
}

// ExtractKeyTerms counts word-boundary occurrences of every technical
// vocabulary term and returns the top limit terms by descending count.
// Terms that do not occur are omitted; ties keep vocabulary order.
// A non-positive limit means the default of 20.
func (n *Normalizer) ExtractKeyTerms(text string, limit int) []string {
	if limit <= 0 {
		limit = defaultKeyTermLimit
	}

	type hit struct {
		term  string
		count int
	}

	lower := strings.ToLower(text)
	var hits []hit
	for _, term := range n.terms {
		if c := countWordOccurrences(lower, strings.ToLower(term)); c > 0 {
			hits = append(hits, hit{term, c})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.term
	}
	return out
}

func (n *Normalizer) inferSectors(text string) []string {
	var sectors []string
	for _, rule := range n.sectors {
		if rule.re.MatchString(text) {
			sectors = append(sectors, rule.sector)
		}
	}
	if len(sectors) == 0 {
		return []string{"general"}
	}
	return sectors
}

func (n *Normalizer) inferOperator(window string) CompareOp {
	for _, rule := range n.operators {
		if rule.re.MatchString(window) {
			return rule.op
		}
	}
	return OpEQ
}

func (n *Normalizer) inferParties(text string) []string {
	var parties []string
	for _, rule := range n.parties {
		if rule.re.MatchString(text) {
			parties = append(parties, rule.party)
		}
	}
	if len(parties) == 0 {
		return []string{"contractor"}
	}
	return parties
}

// unionSectors collects the distinct sectors across all obligations,
// dropping the "general" fallback placeholder.
func unionSectors(obligations []Obligation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range obligations {
		for _, s := range o.Sectors {
			if s == "general" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// parseDecimal accepts both comma and period as decimal separator.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// snippet truncates to max bytes at a rune boundary and trims whitespace.
func snippet(s string, max int) string {
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return strings.TrimSpace(s)
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// trailingContext returns the text after a match up to the end of the
// sentence, capped at thresholdContextLen bytes.
func trailingContext(text string, from int) string {
	rest := text[from:]
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	return snippet(rest, thresholdContextLen)
}

// qualifierWindow returns the text shortly before a match; qualifier words
// like "minimum" usually precede the value they bound.
func qualifierWindow(text string, start, end int) string {
	from := start - operatorWindow
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8RuneStart(text[from]) {
		from--
	}
	return text[from:end]
}

// ContainsWord reports whether term occurs in text as a whole word,
// case-insensitively. Shared with the ingestion validator's expected
// vocabulary checks.
func ContainsWord(text, term string) bool {
	return countWordOccurrences(strings.ToLower(text), strings.ToLower(term)) > 0
}

// countWordOccurrences counts occurrences of term in text where the match
// is not embedded in a larger word. Both inputs are expected lower-cased.
// Boundaries are checked with the unicode letter/number classes because
// regexp's \b is ASCII-only and fails on accented vocabulary.
func countWordOccurrences(text, term string) int {
	if term == "" {
		return 0
	}
	count := 0
	for i := 0; ; {
		j := strings.Index(text[i:], term)
		if j < 0 {
			break
		}
		at := i + j
		if boundaryBefore(text, at) && boundaryAfter(text, at+len(term)) {
			count++
		}
		i = at + len(term)
	}
	return count
}

func boundaryBefore(text string, at int) bool {
	if at == 0 {
		return true
	}
	r := lastRune(text[:at])
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func boundaryAfter(text string, at int) bool {
	if at >= len(text) {
		return true
	}
	r := firstRune(text[at:])
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
