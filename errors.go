package rivet

import "fmt"

// InstantiationError is the failure surface of [Resolver.Create]. It is
// raised when no target type is given, when no injectable constructor
// can be fully bound, when a provider or constructor invocation fails,
// or when a component module cannot itself be resolved.
type InstantiationError struct {
	Type         string
	Constructors int
	Err          error
}

func (e *InstantiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot instantiate %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("cannot instantiate %s: no injectable constructor could be satisfied (%d considered)", e.Type, e.Constructors)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// SpecError represents invalid injection metadata handed to a Registry.
type SpecError struct {
	Type   string
	Detail string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid spec for type %s: %s", e.Type, e.Detail)
}

// CircularDependencyError represents a circular dependency detection error.
type CircularDependencyError struct {
	Type string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected for type: %s", e.Type)
}

// TypeMismatchError represents a type assertion failure.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}
