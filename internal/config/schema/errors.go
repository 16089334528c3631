package schema

import "fmt"

// NoOptionError is raised when an unknown option name is used.
type NoOptionError struct {
	// Name is the unknown option name.
	Name string
}

// Error implements the error interface.
func (e *NoOptionError) Error() string {
	return fmt.Sprintf("No option '%s'", e.Name)
}

// ValidationError is raised when a value fails an option's schema checks.
type ValidationError struct {
	// Name is the option the value was intended for.
	Name string

	// Value is the invalid value.
	Value any

	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("Invalid value '%v' for option '%s': %s", e.Value, e.Name, e.Message)
}
