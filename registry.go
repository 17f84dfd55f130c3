package rivet

import (
	"fmt"
	"reflect"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Registry is the default [TypeDescriptor]: a registration table holding
// constructor and provider declarations per type, plus component
// declarations per capability interface. Injectable fields are not
// registered; they are read from struct tags on demand.
//
// A Registry is safe for concurrent use, though registration normally
// happens up front before any resolution.
type Registry struct {
	mu         sync.RWMutex
	types      map[reflect.Type]TypeSpec
	components []ComponentSpec
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]TypeSpec, 16),
	}
}

// RegisterType records the injection metadata for one type.
// Returns SpecError if the spec names a nil type, the type is already
// registered, a constructor func has the wrong shape, or a provider
// method does not exist with a zero-argument single-result signature.
func (r *Registry) RegisterType(spec TypeSpec) error {
	if spec.Type == nil {
		return &SpecError{Type: "<nil>", Detail: "no type given"}
	}
	for _, cs := range spec.Constructors {
		if err := validateConstructor(spec.Type, cs); err != nil {
			return err
		}
	}
	for _, ps := range spec.Providers {
		if err := validateProvider(spec.Type, ps); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[spec.Type]; ok {
		return &SpecError{Type: spec.Type.String(), Detail: "type already registered"}
	}
	r.types[spec.Type] = spec
	return nil
}

// RegisterComponent attaches a component declaration to a capability
// interface: every type implementing iface gains access to the providers
// of the listed module types. The interface must declare at least one
// method; an empty interface would match every type structurally.
func (r *Registry) RegisterComponent(iface reflect.Type, modules ...reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return &SpecError{Type: typeName(iface), Detail: "component marker must be an interface type"}
	}
	if iface.NumMethod() == 0 {
		return &SpecError{Type: iface.String(), Detail: "component marker interface must declare at least one method"}
	}
	for _, m := range modules {
		if m == nil {
			return &SpecError{Type: iface.String(), Detail: "component names a nil module type"}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.components = append(r.components, ComponentSpec{Interface: iface, Modules: modules})
	return nil
}

// Constructors implements [TypeDescriptor].
func (r *Registry) Constructors(t reflect.Type) []ConstructorSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t].Constructors
}

// Providers implements [TypeDescriptor].
func (r *Registry) Providers(t reflect.Type) []ProviderSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[t].Providers
}

// Components implements [TypeDescriptor]. Declarations are reported in
// registration order, which is therefore the provider registration order
// during resolution.
func (r *Registry) Components(t reflect.Type) []ComponentSpec {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ComponentSpec
	for _, c := range r.components {
		if t.Implements(c.Interface) {
			out = append(out, c)
		}
	}
	return out
}

// Fields implements [TypeDescriptor] by scanning struct tags. A field
// tagged `inject:""` is injectable; `name` carries its qualifier and
// `optional:"true"` its optional flag. Pointer types are scanned through
// to their struct element.
func (r *Registry) Fields(t reflect.Type) []FieldSpec {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var out []FieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup("inject"); !ok {
			continue
		}
		out = append(out, FieldSpec{
			Name:      f.Name,
			Index:     i,
			Type:      f.Type,
			Qualifier: f.Tag.Get("name"),
			Optional:  f.Tag.Get("optional") == "true",
		})
	}
	return out
}

func validateConstructor(target reflect.Type, cs ConstructorSpec) error {
	if cs.Func == nil {
		return &SpecError{Type: target.String(), Detail: "constructor func is nil"}
	}
	fn := reflect.TypeOf(cs.Func)
	if fn.Kind() != reflect.Func {
		return &SpecError{Type: target.String(), Detail: "constructor is not a func"}
	}
	if fn.IsVariadic() {
		return &SpecError{Type: target.String(), Detail: "constructor func must not be variadic"}
	}
	switch fn.NumOut() {
	case 1:
	case 2:
		if fn.Out(1) != errorType {
			return &SpecError{Type: target.String(), Detail: "constructor's second result must be error"}
		}
	default:
		return &SpecError{Type: target.String(), Detail: "constructor must return the type, or the type and an error"}
	}
	if fn.Out(0) != target {
		return &SpecError{
			Type:   target.String(),
			Detail: fmt.Sprintf("constructor returns %s", fn.Out(0)),
		}
	}
	if len(cs.Params) > fn.NumIn() {
		return &SpecError{
			Type:   target.String(),
			Detail: fmt.Sprintf("%d parameter annotations for %d parameters", len(cs.Params), fn.NumIn()),
		}
	}
	return nil
}

func validateProvider(target reflect.Type, ps ProviderSpec) error {
	m, ok := target.MethodByName(ps.Method)
	if !ok {
		return &SpecError{
			Type:   target.String(),
			Detail: fmt.Sprintf("no provider method %q", ps.Method),
		}
	}
	// Concrete method types carry the receiver as the first input.
	wantIn := 1
	if target.Kind() == reflect.Interface {
		wantIn = 0
	}
	if m.Type.NumIn() != wantIn || m.Type.NumOut() != 1 {
		return &SpecError{
			Type:   target.String(),
			Detail: fmt.Sprintf("provider method %q must take no arguments and return one value", ps.Method),
		}
	}
	return nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
