package classify

import (
	"reflect"
	"testing"
)

func roofResult(id string) Result {
	return Result{
		DocumentID:     id,
		Sectors:        []string{"toiture"},
		LotTypes:       []string{"toiture", "charpente"},
		Risks:          []string{"humidite"},
		RelevanceScore: 70,
		Enforceability: LevelImportant,
	}
}

func TestMatchProject(t *testing.T) {
	res := roofResult("doc-1")
	project := Project{
		Sectors:  []string{"toiture", "facade"},
		LotTypes: []string{"toiture"},
		Risks:    []string{"humidite", "incendie"},
	}

	// 30*(1/2) sectors + 40*(1/1) lots + 20*(1/2) risks = 65.
	if got := MatchProject(res, project); got != 65 {
		t.Errorf("score = %v, want 65", got)
	}

	res.AllProjects = true
	if got := MatchProject(res, project); got != 75 {
		t.Errorf("all-projects bonus should add 10, got %v", got)
	}
}

func TestMatchProjectNoRiskProfile(t *testing.T) {
	res := roofResult("doc-1")
	project := Project{Sectors: []string{"toiture"}, LotTypes: []string{"toiture"}}

	// A project without a risk profile gets the risk component in full:
	// 30 + 40*(1/2) + 20 = 70.
	if got := MatchProject(res, project); got != 70 {
		t.Errorf("score = %v, want 70", got)
	}
}

func TestMatchProjectClampAndFloor(t *testing.T) {
	res := roofResult("doc-1")
	res.AllProjects = true
	project := Project{
		Sectors:  []string{"toiture"},
		LotTypes: []string{"toiture", "charpente"},
		Risks:    []string{"humidite"},
	}
	if got := MatchProject(res, project); got != 100 {
		t.Errorf("full overlap plus bonus should clamp to 100, got %v", got)
	}

	disjoint := Project{
		Sectors:  []string{"electricite"},
		LotTypes: []string{"domotique"},
		Risks:    []string{"electrique"},
	}
	res.AllProjects = false
	if got := MatchProject(res, disjoint); got != 0 {
		t.Errorf("disjoint profiles should score 0, got %v", got)
	}
}

func TestMatchProjectEmptyProfile(t *testing.T) {
	// An empty project states no constraints at all; only the risk
	// component applies.
	if got := MatchProject(roofResult("doc-1"), Project{}); got != 20 {
		t.Errorf("score = %v, want 20", got)
	}
}

func TestApplicableForProject(t *testing.T) {
	strong := roofResult("doc-strong")
	strong.AllProjects = true
	weak := Result{DocumentID: "doc-weak", Sectors: []string{"plomberie"}, LotTypes: []string{"plomberie"}}

	project := Project{Sectors: []string{"toiture"}, LotTypes: []string{"toiture", "charpente"}}

	matches := ApplicableForProject([]Result{weak, strong, roofResult("doc-mid")}, project, 0)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches above the default cutoff, got %d", len(matches))
	}
	if matches[0].Result.DocumentID != "doc-strong" || matches[1].Result.DocumentID != "doc-mid" {
		t.Errorf("matches not sorted by descending score: %s, %s",
			matches[0].Result.DocumentID, matches[1].Result.DocumentID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores out of order: %v <= %v", matches[0].Score, matches[1].Score)
	}

	strict := ApplicableForProject([]Result{weak, strong}, project, 95)
	if len(strict) != 1 || strict[0].Result.DocumentID != "doc-strong" {
		t.Errorf("custom cutoff should keep only the strong match, got %+v", strict)
	}
}

func TestApplicableForProjectCutoffInclusive(t *testing.T) {
	// Sector-only overlap with a stated risk profile scores exactly 30,
	// right on the default cutoff.
	res := Result{DocumentID: "doc-edge", Sectors: []string{"toiture"}}
	project := Project{
		Sectors:  []string{"toiture"},
		LotTypes: []string{"toiture"},
		Risks:    []string{"humidite"},
	}
	if got := MatchProject(res, project); got != 30 {
		t.Fatalf("score = %v, want exactly 30", got)
	}

	matches := ApplicableForProject([]Result{res}, project, 0)
	if len(matches) != 1 {
		t.Errorf("a score equal to the cutoff must be kept, got %d matches", len(matches))
	}
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{DocumentID: "a", Enforceability: LevelCritical, KeyObligations: 2, RelevanceScore: 80, Risks: []string{"humidite", "thermique"}},
		{DocumentID: "b", Enforceability: LevelAdvisory, KeyObligations: 1, RelevanceScore: 40, Risks: []string{"thermique"}},
	}

	sum := Aggregate(results)
	if sum.Total != 2 {
		t.Errorf("total = %d", sum.Total)
	}
	if sum.CriticalCount != 1 {
		t.Errorf("critical count = %d", sum.CriticalCount)
	}
	if sum.KeyObligationsSum != 3 {
		t.Errorf("key obligations sum = %d", sum.KeyObligationsSum)
	}
	if !reflect.DeepEqual(sum.Risks, []string{"humidite", "thermique"}) {
		t.Errorf("risks = %v", sum.Risks)
	}
	if sum.AvgRelevance != 60 {
		t.Errorf("avg relevance = %v", sum.AvgRelevance)
	}
	wantByLevel := map[Level]int{LevelCritical: 1, LevelImportant: 0, LevelAdvisory: 1, LevelReference: 0}
	if !reflect.DeepEqual(sum.ByLevel, wantByLevel) {
		t.Errorf("by level = %v, want %v", sum.ByLevel, wantByLevel)
	}
}

func TestAggregateEmpty(t *testing.T) {
	sum := Aggregate(nil)
	if sum.Total != 0 || sum.AvgRelevance != 0 {
		t.Errorf("empty aggregate = %+v", sum)
	}
	if len(sum.ByLevel) != 4 {
		t.Errorf("all four levels should be present, got %v", sum.ByLevel)
	}
}
