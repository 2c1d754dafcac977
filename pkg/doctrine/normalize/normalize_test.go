package normalize

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractObligationsRequirement(t *testing.T) {
	n := New()
	text := "Les canalisations doivent être posées avec une pente régulière. La couverture doit être étanche en toiture."

	obligations := n.ExtractObligations(text)
	if len(obligations) != 2 {
		t.Fatalf("expected 2 obligations, got %d: %+v", len(obligations), obligations)
	}

	for _, o := range obligations {
		if o.Category != CategoryRequirement {
			t.Errorf("category = %s, want requirement", o.Category)
		}
		if o.Severity != SeverityHigh {
			t.Errorf("severity = %s, want high", o.Severity)
		}
	}

	if !reflect.DeepEqual(obligations[0].Sectors, []string{"general"}) {
		t.Errorf("first obligation sectors = %v, want [general] fallback", obligations[0].Sectors)
	}
	if !reflect.DeepEqual(obligations[1].Sectors, []string{"toiture"}) {
		t.Errorf("second obligation sectors = %v, want [toiture]", obligations[1].Sectors)
	}
}

func TestExtractObligationsCategories(t *testing.T) {
	n := New()

	cases := []struct {
		text     string
		category ObligationCategory
		severity Severity
	}{
		{"Il est interdit d'installer des canalisations sans protection.", CategoryProhibition, SeverityHigh},
		{"Il est recommandé de prévoir une aération des locaux.", CategoryRecommendation, SeverityMedium},
		{"Cette règle s'applique à tous les cas, sauf pour les bâtiments existants.", CategoryExemption, SeverityLow},
	}

	for _, tc := range cases {
		obligations := n.ExtractObligations(tc.text)
		if len(obligations) != 1 {
			t.Fatalf("%q: expected 1 obligation, got %d", tc.text, len(obligations))
		}
		if obligations[0].Category != tc.category {
			t.Errorf("%q: category = %s, want %s", tc.text, obligations[0].Category, tc.category)
		}
		if obligations[0].Severity != tc.severity {
			t.Errorf("%q: severity = %s, want %s", tc.text, obligations[0].Severity, tc.severity)
		}
	}
}

func TestObligationSnippetCapped(t *testing.T) {
	n := New()
	text := "doit " + strings.Repeat("a", 500)

	obligations := n.ExtractObligations(text)
	if len(obligations) != 1 {
		t.Fatalf("expected 1 obligation, got %d", len(obligations))
	}
	if len(obligations[0].Text) > 200 {
		t.Errorf("snippet length %d exceeds 200", len(obligations[0].Text))
	}
}

func TestExtractThresholds(t *testing.T) {
	n := New()
	text := "L'isolant doit avoir une épaisseur de 100 mm minimum. " +
		"La température de l'eau est au plus de 19,5 °C. " +
		"La hauteur doit être comprise entre 2 et 4 m."

	thresholds := n.ExtractThresholds(text)
	if len(thresholds) != 3 {
		t.Fatalf("expected 3 thresholds, got %d: %+v", len(thresholds), thresholds)
	}

	if thresholds[0].Value != 100 || thresholds[0].Unit != "mm" {
		t.Errorf("first threshold = %v %s, want 100 mm", thresholds[0].Value, thresholds[0].Unit)
	}
	if thresholds[0].Operator != OpGTE {
		t.Errorf("'minimum' qualifier should infer >=, got %s", thresholds[0].Operator)
	}
	if !strings.Contains(thresholds[0].Context, "minimum") {
		t.Errorf("context should carry the qualifier, got %q", thresholds[0].Context)
	}

	// Comma decimal separator.
	if thresholds[1].Value != 19.5 || thresholds[1].Unit != "°c" {
		t.Errorf("second threshold = %v %s, want 19.5 °c", thresholds[1].Value, thresholds[1].Unit)
	}
	if thresholds[1].Operator != OpLTE {
		t.Errorf("'au plus' qualifier should infer <=, got %s", thresholds[1].Operator)
	}

	// Range phrasing captures both bounds.
	if thresholds[2].Operator != OpBetween {
		t.Errorf("'entre' qualifier should infer between, got %s", thresholds[2].Operator)
	}
	if !thresholds[2].HasSecond || thresholds[2].Value != 2 || thresholds[2].SecondValue != 4 {
		t.Errorf("between bounds = %v..%v (has=%v), want 2..4", thresholds[2].Value, thresholds[2].SecondValue, thresholds[2].HasSecond)
	}
}

func TestExtractThresholdsDefaultOperator(t *testing.T) {
	n := New()
	thresholds := n.ExtractThresholds("Le tableau alimente un circuit de 32 A dédié.")
	if len(thresholds) != 1 {
		t.Fatalf("expected 1 threshold, got %d", len(thresholds))
	}
	if thresholds[0].Operator != OpEQ {
		t.Errorf("no qualifier should default to =, got %s", thresholds[0].Operator)
	}
	if thresholds[0].Unit != "a" {
		t.Errorf("unit = %s, want a", thresholds[0].Unit)
	}
}

func TestExtractThresholdsRejectsEmbeddedUnits(t *testing.T) {
	n := New()
	// "10 ans" must not read as 10 amperes.
	if got := n.ExtractThresholds("Le délai de garantie est de 10 ans."); len(got) != 0 {
		t.Errorf("expected no thresholds, got %+v", got)
	}
}

func TestExtractSanctions(t *testing.T) {
	n := New()
	text := "Le non-respect des règles expose l'entrepreneur à une amende de 45000 euros. " +
		"La garantie décennale engage le propriétaire et l'architecte."

	sanctions := n.ExtractSanctions(text)
	if len(sanctions) != 3 {
		t.Fatalf("expected 3 sanctions, got %d: %+v", len(sanctions), sanctions)
	}

	if sanctions[0].Type != SanctionPenalty || sanctions[0].Severity != 8 {
		t.Errorf("first sanction = %s/%d, want penalty/8", sanctions[0].Type, sanctions[0].Severity)
	}
	if !reflect.DeepEqual(sanctions[0].ApplicableTo, []string{"contractor"}) {
		t.Errorf("penalty parties = %v, want contractor fallback", sanctions[0].ApplicableTo)
	}

	if sanctions[1].Type != SanctionLiability || sanctions[1].Severity != 9 {
		t.Errorf("second sanction = %s/%d, want liability/9", sanctions[1].Type, sanctions[1].Severity)
	}
	if !reflect.DeepEqual(sanctions[1].ApplicableTo, []string{"owner", "designer"}) {
		t.Errorf("liability parties = %v, want [owner designer]", sanctions[1].ApplicableTo)
	}

	if sanctions[2].Type != SanctionNonCompliance || sanctions[2].Severity != 6 {
		t.Errorf("third sanction = %s/%d, want non-compliance/6", sanctions[2].Type, sanctions[2].Severity)
	}
	if !reflect.DeepEqual(sanctions[2].ApplicableTo, []string{"contractor"}) {
		t.Errorf("non-compliance parties = %v, want [contractor]", sanctions[2].ApplicableTo)
	}
}

func TestExtractKeyTerms(t *testing.T) {
	n := New()
	text := "Le DTU 60.11 impose une ventilation permanente. " +
		"La ventilation des combles évite la condensation. " +
		"Une ventilation et une étanchéité correctes protègent l'isolation thermique. " +
		"Le DTU s'applique."

	terms := n.ExtractKeyTerms(text, 0)
	// ventilation occurs three times, DTU twice, the rest once each;
	// ties keep vocabulary order.
	wantRanked := []string{"ventilation", "DTU", "étanchéité", "isolation thermique", "condensation"}

	if !reflect.DeepEqual(terms, wantRanked) {
		t.Errorf("key terms = %v, want %v", terms, wantRanked)
	}

	if top := n.ExtractKeyTerms(text, 2); !reflect.DeepEqual(top, []string{"ventilation", "DTU"}) {
		t.Errorf("limited key terms = %v, want [ventilation DTU]", top)
	}
}

func TestKeyTermsWordBoundaries(t *testing.T) {
	n := New()
	// "nf" inside "confort" must not count as the NF norm marker.
	if terms := n.ExtractKeyTerms("Le confort des occupants.", 0); len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

func TestContainsWord(t *testing.T) {
	if !ContainsWord("L'étanchéité est vérifiée", "étanchéité") {
		t.Error("accented term should match on word boundaries")
	}
	if ContainsWord("Le confort des occupants", "NF") {
		t.Error("embedded substring should not match")
	}
	if !ContainsWord("conforme au DTU.", "dtu") {
		t.Error("matching should be case-insensitive")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New()
	text := "La toiture doit être étanche. Il est interdit de percer le pare-vapeur. " +
		"L'isolant doit avoir une épaisseur de 100 mm minimum. " +
		"Le non-respect engage la garantie décennale de l'entrepreneur."

	first := n.Normalize("dtu-test", text)
	second := n.Normalize("dtu-test", text)
	if !reflect.DeepEqual(first, second) {
		t.Error("normalization must be deterministic")
	}
}

func TestNormalizeConfidence(t *testing.T) {
	n := New()
	text := "La couverture doit être étanche en toiture. Les gouttières doivent être posées."

	doc := n.Normalize("dtu-test", text)
	artifacts := len(doc.Obligations) + len(doc.Thresholds) + len(doc.Sanctions) + len(doc.KeyTerms)
	if artifacts == 0 || artifacts >= 10 {
		t.Fatalf("test text should produce between 1 and 9 artifacts, got %d", artifacts)
	}
	want := float64(artifacts) / 10.0
	if doc.Confidence != want {
		t.Errorf("confidence = %v, want exactly %v", doc.Confidence, want)
	}
}

func TestNormalizeConfidenceSaturates(t *testing.T) {
	n := New()
	text := strings.Repeat("L'ouvrage doit être conforme. ", 12)

	doc := n.Normalize("dtu-test", text)
	if len(doc.Obligations) < 10 {
		t.Fatalf("expected at least 10 obligations, got %d", len(doc.Obligations))
	}
	if doc.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", doc.Confidence)
	}
}

func TestNormalizeGarbageText(t *testing.T) {
	n := New()
	doc := n.Normalize("dtu-test", "xyzzy abcd")

	if len(doc.Obligations) != 0 || len(doc.Thresholds) != 0 || len(doc.Sanctions) != 0 || len(doc.KeyTerms) != 0 {
		t.Errorf("garbage text should extract nothing, got %+v", doc)
	}
	if doc.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", doc.Confidence)
	}
	if doc.SourceID != "dtu-test" {
		t.Errorf("source id should be preserved, got %q", doc.SourceID)
	}
}

func TestNormalizeSectorUnionExcludesGeneral(t *testing.T) {
	n := New()
	// First obligation falls back to general, second maps to toiture.
	text := "Les travaux doivent être réceptionnés. La couverture doit être étanche en toiture."

	doc := n.Normalize("dtu-test", text)
	if !reflect.DeepEqual(doc.Sectors, []string{"toiture"}) {
		t.Errorf("document sectors = %v, want [toiture]", doc.Sectors)
	}
}

func TestNormalizeEmptyText(t *testing.T) {
	n := New()
	doc := n.Normalize("dtu-test", "")
	if doc.Confidence != 0 || len(doc.Obligations) != 0 {
		t.Errorf("empty text should yield an empty document, got %+v", doc)
	}
}

func TestWithTechnicalTerms(t *testing.T) {
	n := New(WithTechnicalTerms([]string{"fibre de bois"}))
	terms := n.ExtractKeyTerms("Un panneau en fibre de bois est posé.", 0)
	if !reflect.DeepEqual(terms, []string{"fibre de bois"}) {
		t.Errorf("terms = %v, want [fibre de bois]", terms)
	}
}

func TestWithSectorKeywords(t *testing.T) {
	n := New(WithSectorKeywords(
		map[string][]string{"piscine": {"bassin", "piscine"}},
		[]string{"piscine"},
	))
	obligations := n.ExtractObligations("La clôture doit entourer le bassin.")
	if len(obligations) != 1 {
		t.Fatalf("expected 1 obligation, got %d", len(obligations))
	}
	if !reflect.DeepEqual(obligations[0].Sectors, []string{"piscine"}) {
		t.Errorf("sectors = %v, want [piscine]", obligations[0].Sectors)
	}
}
