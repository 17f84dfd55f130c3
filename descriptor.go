package rivet

import "reflect"

// TypeDescriptor supplies the static injection metadata for a type.
// [Registry] is the default implementation; alternative implementations
// may derive the same metadata from any other source.
type TypeDescriptor interface {
	// Constructors returns the type's injectable constructors in
	// declared order.
	Constructors(t reflect.Type) []ConstructorSpec

	// Fields returns the type's injectable fields in declared order.
	Fields(t reflect.Type) []FieldSpec

	// Components returns the component declarations attached to the
	// capability interfaces the type implements, in declaration order.
	Components(t reflect.Type) []ComponentSpec

	// Providers returns the provider methods declared for a module
	// type, in declaration order.
	Providers(t reflect.Type) []ProviderSpec
}

// TypeSpec declares the injection metadata registered for one type.
type TypeSpec struct {
	// Type is the exact type being described, as constructors return it.
	Type reflect.Type

	// Constructors are tried in order during resolution.
	Constructors []ConstructorSpec

	// Providers name the zero-argument methods of this type whose
	// return values can satisfy other types' dependencies.
	Providers []ProviderSpec
}

// ConstructorSpec marks one function as an injectable constructor.
// Func must be a non-variadic func returning the described type, or the
// described type and an error.
type ConstructorSpec struct {
	Func any

	// Params carries per-parameter annotations, aligned positionally
	// with Func's inputs. Trailing parameters may be omitted; omitted
	// entries are unqualified and required.
	Params []ParamSpec
}

// ParamSpec annotates a single constructor parameter.
type ParamSpec struct {
	// Name is the qualifier; empty means unqualified.
	Name string

	// Optional parameters receive the type's zero value when no
	// provider matches instead of failing the constructor.
	Optional bool
}

// FieldSpec describes one injectable struct field. Registry derives
// these from struct tags: `inject:""` marks the field, `name:"..."`
// carries the qualifier and `optional:"true"` the optional flag.
type FieldSpec struct {
	Name      string
	Index     int
	Type      reflect.Type
	Qualifier string
	Optional  bool
}

// ComponentSpec attaches a set of module types to a capability
// interface. Every type implementing Interface gains access to the
// providers of all listed Modules.
type ComponentSpec struct {
	Interface reflect.Type
	Modules   []reflect.Type
}

// ProviderSpec marks one method of a module type as a provider. The
// method must be exported, take no arguments and return exactly one
// value.
type ProviderSpec struct {
	Method string

	// Name is the qualifier attached to the provided value; empty
	// means unqualified.
	Name string
}

// TypeOf returns the reflect.Type of T without needing a value of T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
