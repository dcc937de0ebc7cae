package errors

import (
	"fmt"
	"time"
)

// Error types for the smart context engine
type ErrorType string

const (
	// Graph construction errors
	ErrorTypeGraphBuild ErrorType = "graph_build"
	ErrorTypeExtract    ErrorType = "extract"

	// Analysis errors
	ErrorTypeAnalysis  ErrorType = "analysis"
	ErrorTypeSelection ErrorType = "selection"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Validation errors
	ErrorTypeRule ErrorType = "rule"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// BuildError represents an error during dependency graph construction
type BuildError struct {
	Type        ErrorType
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewBuildError creates a new graph build error with context
func NewBuildError(op string, err error) *BuildError {
	return &BuildError{
		Type:       ErrorTypeGraphBuild,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile adds file information to the error
func (e *BuildError) WithFile(path string) *BuildError {
	e.FilePath = path
	return e
}

// WithRecoverable marks the error as recoverable
func (e *BuildError) WithRecoverable(recoverable bool) *BuildError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *BuildError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable checks if the operation can be retried
func (e *BuildError) IsRecoverable() bool {
	return e.Recoverable
}

// AnalysisError represents a semantic or complexity analysis error
type AnalysisError struct {
	Type       ErrorType
	Prompt     string
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

// NewAnalysisError creates a new analysis error
func NewAnalysisError(prompt, path string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       ErrorTypeAnalysis,
		Prompt:     prompt,
		FilePath:   path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("analysis failed for %s (prompt %.40q): %v", e.FilePath, e.Prompt, e.Underlying)
	}
	return fmt.Sprintf("analysis failed (prompt %.40q): %v", e.Prompt, e.Underlying)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// RuleError represents a validation rule execution fault
type RuleError struct {
	Type       ErrorType
	RuleName   string
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

// NewRuleError creates a new rule execution error
func NewRuleError(rule, path string, err error) *RuleError {
	return &RuleError{
		Type:       ErrorTypeRule,
		RuleName:   rule,
		FilePath:   path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *RuleError) Error() string {
	return fmt.Sprintf("validation rule %s failed for %s: %v", e.RuleName, e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *RuleError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors from a batch operation
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
