package semantic

import (
	"path"
	"strings"
)

// Path-substring bonuses capturing structural priors independent of the
// prompt: entrypoints score high, tests and mocks score low.
// Test markers come first: "app.test.ts" is a test file, not an app
// entrypoint, so the low bonus must win.
var pathBonuses = []struct {
	substring string
	bonus     float64
}{
	{"test", 0.1},
	{"spec", 0.1},
	{"mock", 0.1},
	{"index", 0.8},
	{"main", 0.8},
	{"app", 0.6},
	{"core", 0.5},
	{"router", 0.4},
	{"config", 0.3},
	{"types", 0.3},
}

// Conventionally-important directories earn a flat bonus.
var importantDirs = map[string]float64{
	"src":        0.3,
	"components": 0.3,
	"services":   0.3,
	"utils":      0.2,
	"lib":        0.2,
	"api":        0.3,
	"core":       0.3,
}

// structuralScore rates a file path's standalone importance. The result is
// also normalized into [0,1] for use as contextImportance.
func structuralScore(filePath string) float64 {
	lower := strings.ToLower(filePath)
	base := strings.ToLower(path.Base(filePath))

	score := 0.0
	for _, pb := range pathBonuses {
		if strings.Contains(base, pb.substring) {
			score += pb.bonus
			break // first match wins - the table is ordered by precedence
		}
	}

	for _, part := range strings.Split(path.Dir(lower), "/") {
		if bonus, ok := importantDirs[part]; ok {
			score += bonus
		}
	}

	return score
}

// structuralImportance normalizes a structural score into [0,1].
func structuralImportance(score float64) float64 {
	// Maximum realistic structural score: 0.8 basename + two dir bonuses
	const maxStructural = 1.4
	if score >= maxStructural {
		return 1.0
	}
	if score < 0 {
		return 0.0
	}
	return score / maxStructural
}
