package classify

import (
	"reflect"
	"testing"

	"github.com/torpcore/doctrine/pkg/doctrine/normalize"
)

func sampleDocument() normalize.Document {
	return normalize.Document{
		SourceID: "dtu-40-11",
		Sectors:  []string{"toiture", "isolation"},
		Obligations: []normalize.Obligation{
			{ID: "obl-0", Text: "doit être étanche contre l'humidité", Category: normalize.CategoryRequirement, Severity: normalize.SeverityHigh, Sectors: []string{"toiture"}},
			{ID: "obl-1", Text: "devrait limiter le pont thermique", Category: normalize.CategoryRecommendation, Severity: normalize.SeverityMedium, Sectors: []string{"isolation"}},
		},
		Thresholds: []normalize.Threshold{
			{ID: "thr-0", Value: 100, Unit: "mm", Context: "minimum", Operator: normalize.OpGTE},
			{ID: "thr-1", Value: 19, Unit: "°c", Context: "valeur indicative", Operator: normalize.OpEQ},
		},
		Confidence: 0.5,
	}
}

func TestClassify(t *testing.T) {
	res := Classify("doc-1", sampleDocument(), 5, 5, true)

	if res.DocumentID != "doc-1" {
		t.Errorf("document id = %q", res.DocumentID)
	}
	if !reflect.DeepEqual(res.Sectors, []string{"toiture", "isolation"}) {
		t.Errorf("sectors = %v", res.Sectors)
	}
	if !reflect.DeepEqual(res.LotTypes, []string{"toiture", "charpente", "isolation"}) {
		t.Errorf("lot types = %v", res.LotTypes)
	}
	if !reflect.DeepEqual(res.Risks, []string{"humidite", "thermique"}) {
		t.Errorf("risks = %v", res.Risks)
	}
	if res.KeyObligations != 1 {
		t.Errorf("key obligations = %d, want 1 (only the high-severity one)", res.KeyObligations)
	}
	if res.CriticalThresholds != 1 {
		t.Errorf("critical thresholds = %d, want 1 (only the minimum-qualified one)", res.CriticalThresholds)
	}

	// (5+5)/10*50 authority + 0.5*30 confidence + 2/10*20 density = 69.
	if res.RelevanceScore != 69 {
		t.Errorf("relevance = %d, want 69", res.RelevanceScore)
	}
	if res.Enforceability != LevelCritical {
		t.Errorf("enforceability = %s, want critical", res.Enforceability)
	}
	if !res.AllProjects {
		t.Error("enforceable source with authority >= 4 should apply to all projects")
	}
}

func TestClassifyEmptyDocument(t *testing.T) {
	res := Classify("doc-2", normalize.Document{}, 1, 1, false)

	if len(res.Sectors) != 0 || len(res.LotTypes) != 0 || len(res.Risks) != 0 {
		t.Errorf("empty document should map to empty applicability, got %+v", res)
	}
	if res.Enforceability != LevelReference {
		t.Errorf("enforceability = %s, want reference", res.Enforceability)
	}
	// (1+1)/10*50 = 10 points of authority, nothing else.
	if res.RelevanceScore != 10 {
		t.Errorf("relevance = %d, want 10", res.RelevanceScore)
	}
	if res.AllProjects {
		t.Error("non-enforceable source must not apply to all projects")
	}
}

func TestEnforceabilityLevels(t *testing.T) {
	cases := []struct {
		authority   int
		legalWeight int
		enforceable bool
		want        Level
	}{
		{1, 5, true, LevelCritical},
		{1, 5, false, LevelImportant},
		{4, 1, false, LevelImportant},
		{1, 3, true, LevelImportant},
		{2, 1, false, LevelAdvisory},
		{1, 1, false, LevelReference},
		{1, 1, true, LevelReference},
	}
	for _, tc := range cases {
		res := Classify("doc", normalize.Document{}, tc.authority, tc.legalWeight, tc.enforceable)
		if res.Enforceability != tc.want {
			t.Errorf("authority=%d legalWeight=%d enforceable=%v: got %s, want %s",
				tc.authority, tc.legalWeight, tc.enforceable, res.Enforceability, tc.want)
		}
	}
}

func TestRelevanceScoreBounds(t *testing.T) {
	full := normalize.Document{Confidence: 1.0}
	for i := 0; i < 10; i++ {
		full.Obligations = append(full.Obligations, normalize.Obligation{Severity: normalize.SeverityHigh})
	}

	if res := Classify("doc", full, 5, 5, true); res.RelevanceScore != 100 {
		t.Errorf("maximal inputs should score 100, got %d", res.RelevanceScore)
	}
	// Out-of-range authority attributes still clamp to the scale.
	if res := Classify("doc", full, 8, 8, true); res.RelevanceScore != 100 {
		t.Errorf("score must clamp at 100, got %d", res.RelevanceScore)
	}
	if res := Classify("doc", normalize.Document{}, 0, 0, false); res.RelevanceScore != 0 {
		t.Errorf("zero inputs should score 0, got %d", res.RelevanceScore)
	}
}

func TestRelevanceMonotonicInConfidence(t *testing.T) {
	low := Classify("doc", normalize.Document{Confidence: 0.2}, 3, 3, false)
	high := Classify("doc", normalize.Document{Confidence: 0.9}, 3, 3, false)
	if high.RelevanceScore <= low.RelevanceScore {
		t.Errorf("higher confidence should not lower relevance: %d vs %d",
			high.RelevanceScore, low.RelevanceScore)
	}
}

func TestExpandLotsDeduplicates(t *testing.T) {
	// facade and interieur both expand to peinture.
	doc := normalize.Document{Sectors: []string{"facade", "interieur", "unknown"}}
	res := Classify("doc", doc, 1, 1, false)
	want := []string{"ravalement_facade", "peinture", "platrerie"}
	if !reflect.DeepEqual(res.LotTypes, want) {
		t.Errorf("lot types = %v, want %v", res.LotTypes, want)
	}
}

func TestDetectRisksFromObligationText(t *testing.T) {
	doc := normalize.Document{
		Obligations: []normalize.Obligation{
			{Text: "doit prévoir une VMC pour le renouvellement d'air"},
			{Text: "interdit en présence d'amiante"},
		},
	}
	res := Classify("doc", doc, 1, 1, false)
	if !reflect.DeepEqual(res.Risks, []string{"ventilation", "contamination"}) {
		t.Errorf("risks = %v, want [ventilation contamination]", res.Risks)
	}
}
