package semantic

import "testing"

func TestStructuralScoreEntrypoints(t *testing.T) {
	if structuralScore("src/index.ts") <= structuralScore("src/helpers.ts") {
		t.Error("index file should outrank a plain helper")
	}
	if structuralScore("src/main.go") <= structuralScore("src/util.go") {
		t.Error("main file should outrank a util")
	}
}

func TestStructuralScoreTestFilesRankLow(t *testing.T) {
	test := structuralScore("src/app.test.ts")
	app := structuralScore("src/app.ts")
	if test >= app {
		t.Errorf("test file (%v) should rank below its subject (%v)", test, app)
	}
}

func TestStructuralScoreBasenameBonusAppliesOnce(t *testing.T) {
	// "index" wins over "main" when both substrings appear; the table is
	// ordered and only the first hit counts.
	score := structuralScore("index-main.ts")
	if score > 0.8+0.001 {
		t.Errorf("expected a single basename bonus, got %v", score)
	}
}

func TestStructuralScoreDirectoryBonuses(t *testing.T) {
	inSrc := structuralScore("src/handlers.ts")
	bare := structuralScore("handlers.ts")
	if inSrc <= bare {
		t.Error("src/ placement should add a bonus")
	}

	deep := structuralScore("src/components/button.tsx")
	if deep <= inSrc-0.01 {
		t.Error("multiple important directories should accumulate")
	}
}

func TestStructuralImportanceBounds(t *testing.T) {
	cases := []string{
		"src/index.ts",
		"src/components/core/main.ts",
		"random.txt",
		"",
	}
	for _, path := range cases {
		imp := structuralImportance(structuralScore(path))
		if imp < 0 || imp > 1 {
			t.Errorf("importance for %q out of [0,1]: %v", path, imp)
		}
	}
	if structuralImportance(99) != 1.0 {
		t.Error("oversized score should clamp to 1")
	}
	if structuralImportance(-1) != 0.0 {
		t.Error("negative score should clamp to 0")
	}
}
