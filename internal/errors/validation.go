package errors

import (
	"fmt"
	"slices"
	"strings"
)

// violationsKey is the metadata key carrying []FieldViolation on an
// InvalidArgument error built by a ValidationBuilder.
const violationsKey = "validation_errors"

// FieldViolation is one failed check against one request field
type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError lists violations in the order they were recorded
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (v *ValidationError) Error() string {
	if len(v.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v.Violations))
	for i, fv := range v.Violations {
		parts[i] = fv.Field + ": " + fv.Description
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Violations) > 0
}

// ToError returns an InvalidArgument *Error carrying the violations, or nil
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta(violationsKey, slices.Clone(v.Violations))
}

// GetViolations returns the field violations attached to err, whether it was
// built locally or decoded from a gRPC status.
func GetViolations(err error) []FieldViolation {
	violations, _ := GetMeta(err)[violationsKey].([]FieldViolation)
	return violations
}

// ValidationBuilder collects field violations across a whole request so the
// caller sees every problem at once.
type ValidationBuilder struct {
	v ValidationError
}

func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (vb *ValidationBuilder) Field(field, description string) *ValidationBuilder {
	vb.v.Violations = append(vb.v.Violations, FieldViolation{Field: field, Description: description})
	return vb
}

func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// Build returns nil when nothing was recorded
func (vb *ValidationBuilder) Build() error {
	if err := vb.v.ToError(); err != nil {
		return err
	}
	return nil
}

// ValidateRequired records a violation when value is blank
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange records a violation when value is outside [minValue, maxValue]
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	if !slices.Contains(allowed, value) {
		vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
	}
}
