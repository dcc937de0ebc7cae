// Package testhelpers provides shared utilities for testing the smart
// context engine.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"

	"github.com/standardbeagle/sce/internal/config"
)

// TestConfig creates a configuration optimized for testing
func TestConfig(tempDir string) *config.Config {
	return &config.Config{
		Version: 1,
		Project: config.Project{
			Root: tempDir,
			Name: "test-project",
		},
		Context: config.Context{
			Sensitivity:     "balanced",
			MaxTokens:       config.DefaultMaxTokens,
			DependencyDepth: config.DefaultDependencyDepth,
		},
		Edit: config.Edit{
			ComplexityThreshold: config.DefaultComplexityThreshold,
			ModelStrategy:       "balanced",
			ValidationEnabled:   true,
		},
		Performance: config.Performance{
			MaxGoroutines:    4, // Limited for predictable behavior
			MaxFileSize:      10 * 1024 * 1024,
			RespectGitignore: false, // Disabled for tests
		},
		Include: []string{},
		Exclude: append([]string{}, config.DefaultExcludes...),
	}
}

// WriteProjectFiles materializes a fixture project under dir. Keys are
// project-relative paths, values are file contents.
func WriteProjectFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// VerifyNoLeaks wires goleak into a package TestMain.
// Usage:
//
//	func TestMain(m *testing.M) { testhelpers.VerifyNoLeaks(m) }
func VerifyNoLeaks(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Ignore known background goroutines
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
