package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorWrapsCause(t *testing.T) {
	cause := errors.New("walk exploded")
	err := NewBuildError("walk", cause).WithFile("/project").WithRecoverable(true)

	assert.Equal(t, ErrorTypeGraphBuild, err.Type)
	assert.True(t, err.IsRecoverable())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "walk failed for /project")
}

func TestBuildErrorWithoutFile(t *testing.T) {
	err := NewBuildError("scan", errors.New("bad pattern"))
	assert.Equal(t, "graph_build scan failed: bad pattern", err.Error())
}

func TestAnalysisErrorTruncatesPrompt(t *testing.T) {
	long := "refactor the entire authentication subsystem and everything it touches"
	err := NewAnalysisError(long, "src/auth.ts", errors.New("graph unavailable"))

	assert.Contains(t, err.Error(), "src/auth.ts")
	assert.Contains(t, err.Error(), "graph unavailable")
	assert.Less(t, len(err.Error()), len(long)+80, "prompt should be truncated in the message")
	assert.ErrorIs(t, err, err.Underlying)
}

func TestRuleErrorNamesRuleAndFile(t *testing.T) {
	err := NewRuleError("syntax", "a.ts", errors.New("panic: boom"))
	assert.Equal(t, "validation rule syntax failed for a.ts: panic: boom", err.Error())
	assert.Equal(t, ErrorTypeRule, err.Type)
}

func TestFileErrorClassifiesPermission(t *testing.T) {
	err := NewFileError("read", "/etc/shadow", errors.New("permission denied"))
	assert.Equal(t, ErrorTypePermission, err.Type)

	err = NewFileError("read", "gone.ts", errors.New("no such file"))
	assert.Equal(t, ErrorTypeFileNotFound, err.Type)
}

func TestMultiErrorFiltersNils(t *testing.T) {
	first := NewConfigError("context", "", errors.New("bad sensitivity"))
	second := NewConfigError("edit", "", errors.New("bad threshold"))

	err := NewMultiError([]error{nil, first, nil, second})
	require.Len(t, err.Errors, 2)
	assert.Contains(t, err.Error(), "2 errors")

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "context", cerr.Field)
}

func TestMultiErrorSingleReadsPlainly(t *testing.T) {
	err := NewMultiError([]error{errors.New("only one")})
	assert.Equal(t, "only one", err.Error())
}
