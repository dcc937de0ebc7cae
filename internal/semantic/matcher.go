package semantic

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sce/internal/debug"
	"github.com/standardbeagle/sce/internal/interfaces"
	"github.com/standardbeagle/sce/internal/types"
)

// Signal weights. Each group is an independent weak signal; the sum is
// capped at MaxRelevanceScore.
const (
	weightEntityInFilename  = 2.0
	weightEntityInContent   = 1.0
	weightFileTypeHint      = 0.5
	weightConceptInFilename = 1.5
	weightConceptInContent  = 0.8
	weightKeywordInFilename = 0.3
	weightKeywordInContent  = 0.2
	weightTextSimilarity    = 0.5

	// MaxRelevanceScore caps the additive relevance score.
	MaxRelevanceScore = 10.0

	// Size penalty thresholds
	largeFileBytes   = 50 * 1024
	verySmallBytes   = 100
	largeFilePenalty = 0.8
	verySmallPenalty = 0.9

	// Only the head of large files participates in similarity scoring
	similaritySampleBytes = 8 * 1024
)

// Matcher scores candidate files against prompts.
type Matcher struct {
	fs            interfaces.FileSystem
	extractor     *EntityExtractor
	maxGoroutines int
}

// NewMatcher creates a matcher over the given filesystem capability.
func NewMatcher(fsys interfaces.FileSystem, maxGoroutines int) *Matcher {
	if maxGoroutines <= 0 {
		maxGoroutines = runtime.NumCPU()
	}
	return &Matcher{
		fs:            fsys,
		extractor:     NewEntityExtractor(),
		maxGoroutines: maxGoroutines,
	}
}

// ExtractEntities exposes prompt entity extraction.
func (m *Matcher) ExtractEntities(prompt string) types.EntityExtraction {
	return m.extractor.Extract(prompt)
}

// FindMatches scores every candidate file against the prompt and returns
// matches sorted by score descending, path ascending. Files that fail to
// read are scored on their path alone - unreadable content is a weaker
// signal, not an error.
func (m *Matcher) FindMatches(ctx context.Context, prompt, rootPath string, files []string) []types.SemanticMatch {
	extraction := m.extractor.Extract(prompt)

	var mu sync.Mutex
	matches := make([]types.SemanticMatch, 0, len(files))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(m.maxGoroutines)

	for _, file := range files {
		file := file
		eg.Go(func() error {
			content := m.readSample(rootPath, file)
			match := m.analyzeFileRelevance(prompt, file, content, extraction)
			if match.RelevanceScore > 0 {
				mu.Lock()
				matches = append(matches, match)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].RelevanceScore != matches[j].RelevanceScore {
			return matches[i].RelevanceScore > matches[j].RelevanceScore
		}
		return matches[i].FilePath < matches[j].FilePath
	})

	debug.LogSemantic("matched %d of %d files for prompt %.40q\n", len(matches), len(files), prompt)
	return matches
}

// readSample reads a file for content scoring, returning "" on failure.
func (m *Matcher) readSample(rootPath, file string) string {
	full := file
	if rootPath != "" {
		full = filepath.Join(rootPath, file)
	}
	content, err := m.fs.ReadFile(full)
	if err != nil {
		debug.LogSemantic("content unavailable for %s: %v\n", file, err)
		return ""
	}
	return string(content)
}

// analyzeFileRelevance accumulates the five signal groups plus the
// structural and text-similarity bonuses, applies the size penalty, and caps
// the final score.
func (m *Matcher) analyzeFileRelevance(prompt, filePath, content string, extraction types.EntityExtraction) types.SemanticMatch {
	fileName := strings.ToLower(filepath.Base(filePath))
	pathLower := strings.ToLower(filePath)
	contentLower := strings.ToLower(content)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	score := 0.0
	var matched []string
	directHit := false
	semanticHit := false

	// Signal group 1: entities
	for _, entity := range extraction.Entities {
		entityLower := strings.ToLower(entity)
		if strings.Contains(fileName, entityLower) || strings.Contains(pathLower, entityLower) {
			score += weightEntityInFilename
			matched = append(matched, entity)
			directHit = true
		} else if contentLower != "" && strings.Contains(contentLower, entityLower) {
			score += weightEntityInContent
			matched = append(matched, entity)
			semanticHit = true
		}
	}

	// Signal group 2: file-type hints
	for _, hint := range extraction.FileTypes {
		if hint == ext {
			score += weightFileTypeHint
			semanticHit = true
			break
		}
	}

	// Signal group 3: concepts
	for _, concept := range extraction.Concepts {
		if strings.Contains(pathLower, concept) {
			score += weightConceptInFilename
			matched = append(matched, concept)
			semanticHit = true
		} else if contentLower != "" && strings.Contains(contentLower, concept) {
			score += weightConceptInContent
			semanticHit = true
		}
	}

	// Signal group 4: keywords. Content comparison runs in stem space so a
	// prompt's "testing" still hits a file that says "tested".
	for _, keyword := range extraction.Keywords {
		if strings.Contains(pathLower, keyword) {
			score += weightKeywordInFilename
			semanticHit = true
		} else if contentLower != "" && strings.Contains(contentLower, StemKeyword(keyword)) {
			score += weightKeywordInContent
			semanticHit = true
		}
	}

	// Signal group 5: structural priors
	structural := structuralScore(filePath)
	score += structural

	// Text similarity bonus: Jaccard over word sets
	if contentLower != "" {
		sample := contentLower
		if len(sample) > similaritySampleBytes {
			sample = sample[:similaritySampleBytes]
		}
		similarity := edlib.JaccardSimilarity(strings.ToLower(prompt), sample, 0)
		score += float64(similarity) * weightTextSimilarity
	}

	// Size penalty: huge files dilute context, near-empty files rarely help
	if len(content) > largeFileBytes {
		score *= largeFilePenalty
	} else if content != "" && len(content) < verySmallBytes {
		score *= verySmallPenalty
	}

	if score > MaxRelevanceScore {
		score = MaxRelevanceScore
	}

	matchType := types.MatchStructural
	if directHit {
		matchType = types.MatchDirect
	} else if semanticHit {
		matchType = types.MatchSemantic
	}

	return types.SemanticMatch{
		FilePath:          filePath,
		RelevanceScore:    score,
		MatchedEntities:   dedupeStrings(matched),
		ContextImportance: structuralImportance(structural),
		MatchType:         matchType,
	}
}

// dedupeStrings removes duplicates preserving first-seen order
func dedupeStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
