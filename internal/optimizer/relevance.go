package optimizer

import (
	"path/filepath"
	"strings"
)

// extensionRelevance ranks file types by how often they carry the code a
// prompt is about. Independent of the prompt itself.
var extensionRelevance = map[string]float64{
	".ts":   1.0,
	".tsx":  1.0,
	".js":   1.0,
	".jsx":  1.0,
	".mjs":  1.0,
	".cjs":  1.0,
	".go":   0.9,
	".py":   0.9,
	".rs":   0.9,
	".java": 0.8,
	".cs":   0.8,
	".rb":   0.8,
	".php":  0.8,
	".c":    0.8,
	".h":    0.7,
	".json": 0.5,
	".yaml": 0.5,
	".yml":  0.5,
	".toml": 0.5,
	".md":   0.3,
	".txt":  0.3,
}

const defaultExtensionRelevance = 0.6

// sizeRelevance favors mid-size files. Tiny files carry little signal and
// huge files dilute the token budget.
func sizeRelevance(size int64) float64 {
	switch {
	case size < 100:
		return 0.5
	case size < 10*1024:
		return 1.0
	case size < 50*1024:
		return 0.8
	default:
		return 0.6
	}
}

// fileRelevance is the prompt-independent relevance used for budget packing.
func fileRelevance(path string, size int64) float64 {
	ext := strings.ToLower(filepath.Ext(path))
	score, ok := extensionRelevance[ext]
	if !ok {
		score = defaultExtensionRelevance
	}
	return score * sizeRelevance(size)
}
