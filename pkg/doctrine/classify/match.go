package classify

import (
	"math"
	"sort"
)

// Project is the profile a classified document is matched against. Risks
// may be nil, which means the project states no risk constraint and the
// risk component of the match score is awarded in full.
type Project struct {
	Sectors  []string
	LotTypes []string
	Risks    []string
}

// DefaultMinRelevance is the match-score cutoff used by
// ApplicableForProject when the caller passes a non-positive minimum.
const DefaultMinRelevance = 30.0

// MatchProject scores how well a classified document's applicability
// overlaps a project profile, on a 0-100 scale.
//
// Sector overlap is worth up to 30 points, lot-type overlap up to 40 and
// risk overlap up to 20, each proportional to the fraction of the
// project's own labels that the document covers. A document applicable to
// all projects gets a flat 10-point bonus before the final clamp.
func MatchProject(res Result, project Project) float64 {
	score := 0.0

	sectorMatches := overlap(res.Sectors, project.Sectors)
	score += 30.0 * float64(sectorMatches) / math.Max(float64(len(project.Sectors)), 1)

	lotMatches := overlap(res.LotTypes, project.LotTypes)
	score += 40.0 * float64(lotMatches) / math.Max(float64(len(project.LotTypes)), 1)

	if len(project.Risks) > 0 {
		riskMatches := overlap(res.Risks, project.Risks)
		score += 20.0 * float64(riskMatches) / float64(len(project.Risks))
	} else {
		// No stated risk profile means no risk constraint to fail.
		score += 20.0
	}

	if res.AllProjects {
		score += 10.0
	}
	return math.Min(score, 100.0)
}

// Match pairs a classification with its project match score.
type Match struct {
	Result Result
	Score  float64
}

// ApplicableForProject scores every classification against the project,
// keeps those at or above minRelevance (DefaultMinRelevance when
// non-positive) and returns them sorted by descending score. Relative
// order of equal scores is unspecified.
func ApplicableForProject(results []Result, project Project, minRelevance float64) []Match {
	if minRelevance <= 0 {
		minRelevance = DefaultMinRelevance
	}

	var matches []Match
	for _, res := range results {
		score := MatchProject(res, project)
		if score >= minRelevance {
			matches = append(matches, Match{Result: res, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}

// Summary aggregates a set of matched classifications.
type Summary struct {
	Total             int
	CriticalCount     int
	KeyObligationsSum int
	Risks             []string      // union across inputs
	AvgRelevance      float64       // 0 for empty input
	ByLevel           map[Level]int // all four levels always present
}

// Aggregate summarizes matched classification results.
func Aggregate(results []Result) Summary {
	sum := Summary{ByLevel: make(map[Level]int, 4)}
	for _, lvl := range Levels() {
		sum.ByLevel[lvl] = 0
	}

	seenRisks := make(map[string]struct{})
	relevanceTotal := 0

	for _, res := range results {
		sum.Total++
		sum.ByLevel[res.Enforceability]++
		if res.Enforceability == LevelCritical {
			sum.CriticalCount++
		}
		sum.KeyObligationsSum += res.KeyObligations
		relevanceTotal += res.RelevanceScore
		for _, risk := range res.Risks {
			if _, ok := seenRisks[risk]; ok {
				continue
			}
			seenRisks[risk] = struct{}{}
			sum.Risks = append(sum.Risks, risk)
		}
	}

	if sum.Total > 0 {
		sum.AvgRelevance = float64(relevanceTotal) / float64(sum.Total)
	}
	return sum
}

func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	count := 0
	for _, s := range b {
		if _, ok := set[s]; ok {
			count++
		}
	}
	return count
}
