package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sceerrors "github.com/standardbeagle/sce/internal/errors"
)

func TestValidateAndSetDefaultsAcceptsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = "/project"

	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, "balanced", cfg.Context.Sensitivity)
	assert.Positive(t, cfg.Performance.MaxGoroutines)
}

func TestValidateAndSetDefaultsReportsEverySection(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = "/project"
	cfg.Context.Sensitivity = "frantic"
	cfg.Edit.ModelStrategy = "psychic"

	err := NewValidator().ValidateAndSetDefaults(cfg)
	require.Error(t, err)

	var merr *sceerrors.MultiError
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2, "both bad sections should be reported in one pass")
	assert.Contains(t, err.Error(), "frantic")
	assert.Contains(t, err.Error(), "psychic")
}

func TestValidateAndSetDefaultsSingleFieldError(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = "/project"
	cfg.Context.DependencyDepth = 99

	err := NewValidator().ValidateAndSetDefaults(cfg)
	require.Error(t, err)

	var cerr *sceerrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "context", cerr.Field)
}
