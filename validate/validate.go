// Package validate provides field-level validation for the loosely-typed
// input maps step processors receive. Rules check required and optional
// fields, enum membership, numeric ranges, and cross-field constraints,
// and report failures as human-readable messages rather than errors:
// malformed input is a normal, reportable outcome, never a fault.
package validate

import "fmt"

// Result is the outcome of validating one input map.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// OK returns a passing Result.
func OK() Result {
	return Result{Valid: true}
}

// Fail returns a failing Result carrying the given messages.
func Fail(msgs ...string) Result {
	return Result{Valid: false, Errors: msgs}
}

// Merge combines two results; the merged result passes only if both did.
func (r Result) Merge(other Result) Result {
	merged := Result{
		Valid:  r.Valid && other.Valid,
		Errors: append(append([]string(nil), r.Errors...), other.Errors...),
	}
	return merged
}

// Rule checks a single present value and returns zero or more failure
// messages. Rules never panic on unexpected types; a type mismatch is a
// reported failure.
type Rule func(field string, value any) []string

// CrossRule checks a constraint spanning multiple fields. It runs only
// after all field-level rules have passed, so implementations may assume
// individually valid fields but must still tolerate absent ones.
type CrossRule func(inputs map[string]any) []string

// FieldSpec binds a field name to its rules and presence requirement.
type FieldSpec struct {
	name     string
	rules    []Rule
	required bool
}

// Field declares a required field: absence is a failure, and all rules
// run against the present value.
func Field(name string, rules ...Rule) FieldSpec {
	return FieldSpec{name: name, rules: rules, required: true}
}

// Optional declares an optional field: rules run only when the field is
// present and non-nil.
func Optional(name string, rules ...Rule) FieldSpec {
	return FieldSpec{name: name, rules: rules}
}

// Schema is an ordered set of field specs plus cross-field constraints.
type Schema struct {
	fields []FieldSpec
	cross  []CrossRule
}

// NewSchema builds a Schema from the given field specs.
func NewSchema(fields ...FieldSpec) *Schema {
	return &Schema{fields: fields}
}

// Cross appends a cross-field constraint and returns the schema for chaining.
func (s *Schema) Cross(rules ...CrossRule) *Schema {
	s.cross = append(s.cross, rules...)
	return s
}

// Validate checks the input map against every field spec, then, if all
// field-level checks passed, against every cross-field rule. A nil map is
// treated as empty.
func (s *Schema) Validate(inputs map[string]any) Result {
	var errs []string

	for _, f := range s.fields {
		value, present := inputs[f.name]
		if value == nil {
			present = false
		}

		if !present {
			if f.required {
				errs = append(errs, fmt.Sprintf("%s is required", f.name))
			}
			continue
		}

		for _, rule := range f.rules {
			errs = append(errs, rule(f.name, value)...)
		}
	}

	if len(errs) == 0 {
		for _, cr := range s.cross {
			errs = append(errs, cr(inputs)...)
		}
	}

	if len(errs) > 0 {
		return Fail(errs...)
	}
	return OK()
}
