package semantic

import (
	"testing"
)

func TestExtractFilenames(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("fix the typo in src/index.ts")

	if !contains(got.Entities, "src/index.ts") {
		t.Errorf("expected src/index.ts in entities, got %v", got.Entities)
	}
	if contains(got.FileTypes, "ts") {
		t.Errorf("a named file must not hint its extension, got %v", got.FileTypes)
	}
	if !contains(got.Concepts, "typo") {
		t.Errorf("expected typo concept, got %v", got.Concepts)
	}
}

func TestExtractBareExtensionHints(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("convert all the .ts files to strict mode")

	if !contains(got.FileTypes, "ts") {
		t.Errorf("expected ts hint from bare extension, got %v", got.FileTypes)
	}
	if len(got.Entities) != 0 {
		t.Errorf("no file entities expected, got %v", got.Entities)
	}
}

func TestExtractIdentifiers(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("rename getUserName and user_count in the handler")

	if !contains(got.Entities, "getUserName") {
		t.Errorf("camelCase identifier missing: %v", got.Entities)
	}
	if !contains(got.Entities, "user_count") {
		t.Errorf("snake_case identifier missing: %v", got.Entities)
	}
	if !contains(got.Concepts, "rename") {
		t.Errorf("rename concept missing: %v", got.Concepts)
	}
	if !contains(got.Concepts, "handler") {
		t.Errorf("handler concept missing: %v", got.Concepts)
	}
}

func TestExtractFileTypeVocabulary(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("update the typescript config for react")

	for _, want := range []string{"ts", "tsx", "jsx"} {
		if !contains(got.FileTypes, want) {
			t.Errorf("expected %s hint, got %v", want, got.FileTypes)
		}
	}
}

func TestExtractDropsStopwords(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("please fix the authentication for the login page")

	if contains(got.Keywords, "the") || contains(got.Keywords, "for") || contains(got.Keywords, "please") {
		t.Errorf("stopwords leaked into keywords: %v", got.Keywords)
	}
	if !contains(got.Keywords, "authentication") {
		t.Errorf("content word missing from keywords: %v", got.Keywords)
	}
	if !contains(got.Concepts, "authentication") || !contains(got.Concepts, "login") {
		t.Errorf("auth concepts missing: %v", got.Concepts)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("fix fix fix the bug bug in parseConfig parseConfig")

	if count(got.Concepts, "fix") != 1 {
		t.Errorf("fix duplicated in concepts: %v", got.Concepts)
	}
	if count(got.Entities, "parseConfig") != 1 {
		t.Errorf("parseConfig duplicated: %v", got.Entities)
	}
}

func TestExtractEmptyPrompt(t *testing.T) {
	ee := NewEntityExtractor()
	got := ee.Extract("")

	if len(got.Entities) != 0 || len(got.Keywords) != 0 || len(got.FileTypes) != 0 || len(got.Concepts) != 0 {
		t.Errorf("empty prompt should extract nothing, got %+v", got)
	}
}

func TestStemKeyword(t *testing.T) {
	if StemKeyword("Testing") != StemKeyword("tested") {
		t.Error("expected testing and tested to share a stem")
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func count(list []string, want string) int {
	n := 0
	for _, v := range list {
		if v == want {
			n++
		}
	}
	return n
}
