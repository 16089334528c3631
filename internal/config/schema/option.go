// Package schema defines option metadata and value validation.
//
// Every configurable option is described by an Option carrying its type,
// default and constraints. The settings store consults the schema before
// accepting any value, so invalid data never reaches consumers.
package schema

import (
	"fmt"
	"regexp"
)

// OptionType identifies the value type of an option.
type OptionType int

const (
	TypeString OptionType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeList
	TypeDict
	TypeEnum
)

// String returns the human-readable type name used in error messages.
func (t OptionType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeList:
		return "list"
	case TypeDict:
		return "dict"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Option describes a single configurable option.
type Option struct {
	// Name is the dot-separated option name, e.g. "colors.hints.bg".
	Name string

	// Type is the value type.
	Type OptionType

	// Default is the value used when nothing is set.
	Default any

	// Description is a one-line summary shown in documentation.
	Description string

	// Enum lists the allowed values for TypeEnum options.
	Enum []any

	// Minimum and Maximum bound numeric options (inclusive). Nil means
	// unbounded.
	Minimum *float64
	Maximum *float64

	// Pattern is a regular expression string values must match.
	Pattern string

	// SupportsPattern marks options that accept per-URL-pattern overrides.
	SupportsPattern bool
}

// MinValue returns a pointer for use as an Option Minimum.
func MinValue(v float64) *float64 { return &v }

// MaxValue returns a pointer for use as an Option Maximum.
func MaxValue(v float64) *float64 { return &v }

// Validate checks a value against the option's schema. Returns a
// *ValidationError describing the first violation, or nil.
func (o *Option) Validate(value any) error {
	if err := o.validateType(value); err != nil {
		return err
	}
	if err := o.validateRange(value); err != nil {
		return err
	}
	return o.validatePattern(value)
}

func (o *Option) fail(value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Name:    o.Name,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

func (o *Option) validateType(value any) error {
	switch o.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return o.fail(value, "expected string, got %T", value)
		}
	case TypeInt:
		switch value.(type) {
		case int, int64:
		default:
			return o.fail(value, "expected integer, got %T", value)
		}
	case TypeFloat:
		switch value.(type) {
		case float64, int, int64:
		default:
			return o.fail(value, "expected number, got %T", value)
		}
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return o.fail(value, "expected boolean, got %T", value)
		}
	case TypeList:
		switch value.(type) {
		case []any, []string:
		default:
			return o.fail(value, "expected list, got %T", value)
		}
	case TypeDict:
		switch value.(type) {
		case map[string]any, map[string]string:
		default:
			return o.fail(value, "expected dict, got %T", value)
		}
	case TypeEnum:
		for _, allowed := range o.Enum {
			if value == allowed {
				return nil
			}
		}
		return o.fail(value, "not one of the allowed values")
	}
	return nil
}

func (o *Option) validateRange(value any) error {
	if o.Minimum == nil && o.Maximum == nil {
		return nil
	}

	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	default:
		return nil
	}

	if o.Minimum != nil && n < *o.Minimum {
		return o.fail(value, "below minimum %v", *o.Minimum)
	}
	if o.Maximum != nil && n > *o.Maximum {
		return o.fail(value, "above maximum %v", *o.Maximum)
	}
	return nil
}

func (o *Option) validatePattern(value any) error {
	if o.Pattern == "" {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}

	// Validation only runs while configuration files load, so compiling
	// the expression per call is fine.
	re, err := regexp.Compile(o.Pattern)
	if err != nil {
		return o.fail(value, "invalid pattern %q: %v", o.Pattern, err)
	}
	if !re.MatchString(s) {
		return o.fail(value, "must match %q", o.Pattern)
	}
	return nil
}
