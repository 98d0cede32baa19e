package report

import (
	"errors"
	"fmt"
	"sort"
)

// ValidationMode controls how strict validation is
type ValidationMode string

const (
	// ValidationStrict treats every finding as an error
	ValidationStrict ValidationMode = "strict"
	// ValidationPermissive downgrades cosmetic findings to warnings
	ValidationPermissive ValidationMode = "permissive"
)

// ValidationError represents one validation finding
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes
const (
	ErrCodeDuplicateKey     = "DUPLICATE_KEY"
	ErrCodeEmptyChange      = "EMPTY_CHANGE"
	ErrCodeEmptyPackageDiff = "EMPTY_PACKAGE_DIFF"
)

// Validator checks report documents for structural integrity before
// downstream tooling ingests them: every key classified exactly once,
// change entries that actually change something, changed packages that
// carry a non-empty feature diff.
type Validator struct {
	mode ValidationMode
}

// ValidatorOption configures the validator
type ValidatorOption func(*Validator)

// WithMode sets the validation mode
func WithMode(mode ValidationMode) ValidatorOption {
	return func(v *Validator) {
		v.mode = mode
	}
}

// NewValidator creates a report validator
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{mode: ValidationStrict}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidationResult contains the outcome of validation
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// Validate performs full validation of a report document. Findings are
// ordered by section and key so repeated runs produce identical output.
func (v *Validator) Validate(doc *Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	v.checkSection(result, "package_diff", doc.Packages)
	v.checkSection(result, "kernel_config_diff", doc.KernelConfig)
	v.checkPackages(result, doc.PackageConfig)

	return result
}

// QuickValidate is a convenience wrapper returning the first error.
func (v *Validator) QuickValidate(doc *Document) error {
	result := v.Validate(doc)
	if !result.Valid {
		if len(result.Errors) > 0 {
			return &result.Errors[0]
		}
		return errors.New("validation failed")
	}
	return nil
}

func (v *Validator) checkSection(result *ValidationResult, section string, doc SectionDoc) {
	for _, key := range sortedKeys(doc.Added) {
		if _, ok := doc.Removed[key]; ok {
			v.dup(result, section, key, "added", "removed")
		}
		if _, ok := doc.Changed[key]; ok {
			v.dup(result, section, key, "added", "changed")
		}
		if _, ok := doc.Unchanged[key]; ok {
			v.dup(result, section, key, "added", "unchanged")
		}
	}
	for _, key := range sortedKeys(doc.Removed) {
		if _, ok := doc.Changed[key]; ok {
			v.dup(result, section, key, "removed", "changed")
		}
		if _, ok := doc.Unchanged[key]; ok {
			v.dup(result, section, key, "removed", "unchanged")
		}
	}
	for _, key := range sortedKeys(doc.Changed) {
		if _, ok := doc.Unchanged[key]; ok {
			v.dup(result, section, key, "changed", "unchanged")
		}
		ch := doc.Changed[key]
		if ch.From == ch.To {
			v.flag(result, ValidationError{
				Code:    ErrCodeEmptyChange,
				Message: fmt.Sprintf("change for %q has identical from and to (%q)", key, ch.From),
				Field:   fmt.Sprintf("%s.changed[%s]", section, key),
			})
		}
	}
}

func (v *Validator) checkPackages(result *ValidationResult, doc PackageDoc) {
	const section = "packageconfig_diff"

	for _, pkg := range sortedKeys(doc.Added) {
		if _, ok := doc.Removed[pkg]; ok {
			v.dup(result, section, pkg, "added", "removed")
		}
		if _, ok := doc.Changed[pkg]; ok {
			v.dup(result, section, pkg, "added", "changed")
		}
		if _, ok := doc.Unchanged[pkg]; ok {
			v.dup(result, section, pkg, "added", "unchanged")
		}
	}
	for _, pkg := range sortedKeys(doc.Removed) {
		if _, ok := doc.Changed[pkg]; ok {
			v.dup(result, section, pkg, "removed", "changed")
		}
		if _, ok := doc.Unchanged[pkg]; ok {
			v.dup(result, section, pkg, "removed", "unchanged")
		}
	}
	for _, pkg := range sortedKeys(doc.Changed) {
		if _, ok := doc.Unchanged[pkg]; ok {
			v.dup(result, section, pkg, "changed", "unchanged")
		}
		inner := doc.Changed[pkg]
		if len(inner.Added)+len(inner.Removed)+len(inner.Changed) == 0 {
			v.fail(result, ValidationError{
				Code:    ErrCodeEmptyPackageDiff,
				Message: fmt.Sprintf("changed package %q has no feature changes", pkg),
				Field:   fmt.Sprintf("%s.changed[%s]", section, pkg),
			})
		}
		v.checkSection(result, fmt.Sprintf("%s.changed[%s]", section, pkg), inner)
	}
}

func (v *Validator) dup(result *ValidationResult, section, key, first, second string) {
	v.fail(result, ValidationError{
		Code:    ErrCodeDuplicateKey,
		Message: fmt.Sprintf("%q is both %s and %s", key, first, second),
		Field:   section,
	})
}

func (v *Validator) fail(result *ValidationResult, err ValidationError) {
	result.Valid = false
	result.Errors = append(result.Errors, err)
}

// flag records a finding as a warning in permissive mode and as an
// error otherwise.
func (v *Validator) flag(result *ValidationResult, err ValidationError) {
	if v.mode == ValidationPermissive {
		result.Warnings = append(result.Warnings, err)
		return
	}
	v.fail(result, err)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
