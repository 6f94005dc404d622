package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// toNumber coerces the numeric types a loosely-typed input map may carry
// (JSON decodes numbers as float64, Go callers pass ints) into a float64.
// Strings and bools are deliberately not numbers.
func toNumber(v any) (float64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	default:
		return 0, false
	}
}

// String requires the value to be a string.
func String() Rule {
	return func(field string, value any) []string {
		if _, ok := value.(string); !ok {
			return []string{fmt.Sprintf("%s must be a string", field)}
		}
		return nil
	}
}

// NonEmpty requires a string with at least one non-space character.
func NonEmpty() Rule {
	return func(field string, value any) []string {
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", field)}
		}
		if strings.TrimSpace(s) == "" {
			return []string{fmt.Sprintf("%s must not be empty", field)}
		}
		return nil
	}
}

// MinLen requires a string of at least n characters.
func MinLen(n int) Rule {
	return func(field string, value any) []string {
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", field)}
		}
		if len(s) < n {
			return []string{fmt.Sprintf("%s must be at least %d characters", field, n)}
		}
		return nil
	}
}

// MaxLen requires a string of at most n characters.
func MaxLen(n int) Rule {
	return func(field string, value any) []string {
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", field)}
		}
		if len(s) > n {
			return []string{fmt.Sprintf("%s must be at most %d characters", field, n)}
		}
		return nil
	}
}

// OneOf requires a string drawn from the given set.
func OneOf(allowed ...string) Rule {
	return func(field string, value any) []string {
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", field)}
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return []string{fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))}
	}
}

// Number requires a numeric value.
func Number() Rule {
	return func(field string, value any) []string {
		if _, ok := toNumber(value); !ok {
			return []string{fmt.Sprintf("%s must be a number", field)}
		}
		return nil
	}
}

// Positive requires a number strictly greater than zero.
func Positive() Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", field)}
		}
		if f <= 0 {
			return []string{fmt.Sprintf("%s must be a positive number", field)}
		}
		return nil
	}
}

// Min requires a number >= lo.
func Min(lo float64) Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", field)}
		}
		if f < lo {
			return []string{fmt.Sprintf("%s must be at least %v", field, lo)}
		}
		return nil
	}
}

// Max requires a number <= hi.
func Max(hi float64) Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", field)}
		}
		if f > hi {
			return []string{fmt.Sprintf("%s must be at most %v", field, hi)}
		}
		return nil
	}
}

// Between requires lo <= value <= hi.
func Between(lo, hi float64) Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", field)}
		}
		if f < lo || f > hi {
			return []string{fmt.Sprintf("%s must be between %v and %v", field, lo, hi)}
		}
		return nil
	}
}

// Int requires an integral numeric value (3 and 3.0 pass, 3.5 does not).
func Int() Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok || f != math.Trunc(f) {
			return []string{fmt.Sprintf("%s must be an integer", field)}
		}
		return nil
	}
}

// IntBetween requires an integer in [lo, hi].
func IntBetween(lo, hi int) Rule {
	return func(field string, value any) []string {
		f, ok := toNumber(value)
		if !ok || f != math.Trunc(f) {
			return []string{fmt.Sprintf("%s must be an integer", field)}
		}
		n := int(f)
		if n < lo || n > hi {
			return []string{fmt.Sprintf("%s must be between %d and %d", field, lo, hi)}
		}
		return nil
	}
}

// Bool requires a boolean value.
func Bool() Rule {
	return func(field string, value any) []string {
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("%s must be a boolean", field)}
		}
		return nil
	}
}

// StringSlice requires a list of strings ([]string or []any of strings).
func StringSlice() Rule {
	return func(field string, value any) []string {
		if _, err := cast.ToStringSliceE(value); err != nil {
			return []string{fmt.Sprintf("%s must be a list of strings", field)}
		}
		return nil
	}
}

// MaxItems requires a list with at most n elements.
func MaxItems(n int) Rule {
	return func(field string, value any) []string {
		items, err := cast.ToSliceE(value)
		if err != nil {
			if ss, ssErr := cast.ToStringSliceE(value); ssErr == nil {
				if len(ss) > n {
					return []string{fmt.Sprintf("%s must have at most %d items", field, n)}
				}
				return nil
			}
			return []string{fmt.Sprintf("%s must be a list", field)}
		}
		if len(items) > n {
			return []string{fmt.Sprintf("%s must have at most %d items", field, n)}
		}
		return nil
	}
}

// MinNumberField returns a CrossRule enforcing inputs[loField] <= inputs[hiField]
// whenever both fields are present and numeric.
func MinNumberField(loField, hiField string) CrossRule {
	return func(inputs map[string]any) []string {
		lo, loOK := toNumber(inputs[loField])
		hi, hiOK := toNumber(inputs[hiField])
		if !loOK || !hiOK {
			return nil
		}
		if lo > hi {
			return []string{fmt.Sprintf("%s must not exceed %s", loField, hiField)}
		}
		return nil
	}
}

// RequiredIf returns a CrossRule requiring field to be present whenever
// condField equals condValue.
func RequiredIf(field, condField string, condValue any) CrossRule {
	return func(inputs map[string]any) []string {
		if inputs[condField] != condValue {
			return nil
		}
		if v, ok := inputs[field]; !ok || v == nil {
			return []string{fmt.Sprintf("%s is required when %s is %v", field, condField, condValue)}
		}
		return nil
	}
}

// LessThanField returns a CrossRule enforcing inputs[loField] < inputs[hiField]
// whenever both fields are present and numeric.
func LessThanField(loField, hiField string) CrossRule {
	return func(inputs map[string]any) []string {
		lo, loOK := toNumber(inputs[loField])
		hi, hiOK := toNumber(inputs[hiField])
		if !loOK || !hiOK {
			return nil
		}
		if lo >= hi {
			return []string{fmt.Sprintf("%s must be less than %s", loField, hiField)}
		}
		return nil
	}
}
