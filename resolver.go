package rivet

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// Resolver builds instances from the injection metadata of a
// [TypeDescriptor]. It keeps no state between calls: every Create
// re-scans the target and re-materializes its component modules.
type Resolver struct {
	desc TypeDescriptor
}

// NewResolver returns a Resolver reading metadata from desc.
func NewResolver(desc TypeDescriptor) *Resolver {
	return &Resolver{desc: desc}
}

// Create builds a fully constructed and field-populated instance of t.
func (r *Resolver) Create(t reflect.Type) (any, error) {
	return r.CreateFor(t, nil)
}

// CreateFor builds an instance of t with an explicit referrer: the root
// instance whose own provider methods stay visible to every module
// constructed during this call. A nil referrer is replaced by a fresh
// placeholder with no providers of its own.
func (r *Resolver) CreateFor(t reflect.Type, referrer any) (any, error) {
	state := &resolutionState{chain: make(map[reflect.Type]bool, 8)}
	return r.create(t, referrer, state)
}

// Create builds an instance of T through r.
func Create[T any](r *Resolver) (T, error) {
	return CreateFor[T](r, nil)
}

// CreateFor builds an instance of T through r with an explicit referrer.
func CreateFor[T any](r *Resolver, referrer any) (T, error) {
	var zero T
	out, err := r.CreateFor(TypeOf[T](), referrer)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, &TypeMismatchError{Expected: TypeOf[T]().String(), Got: reflect.TypeOf(out).String()}
	}
	return typed, nil
}

// resolutionState tracks the chain of types under construction in one
// call tree, so a module that transitively names itself fails instead of
// recursing forever.
type resolutionState struct {
	chain map[reflect.Type]bool
}

func (r *Resolver) create(t reflect.Type, referrer any, state *resolutionState) (any, error) {
	if t == nil {
		return nil, &InstantiationError{Type: "<nil>", Err: errors.New("no target type given")}
	}
	if r.desc == nil {
		return nil, &InstantiationError{Type: t.String(), Err: errors.New("resolver has no type descriptor")}
	}
	if referrer == nil {
		referrer = new(Resolver)
	}

	if state.chain[t] {
		return nil, &InstantiationError{Type: t.String(), Err: &CircularDependencyError{Type: t.String()}}
	}
	state.chain[t] = true
	defer delete(state.chain, t)

	ctors := r.desc.Constructors(t)
	fields := r.desc.Fields(t)

	// A type declaring nothing injectable is trivially constructible;
	// no components are materialized for it.
	if len(ctors) == 0 && len(fields) == 0 {
		return simpleInstance(t)
	}

	set := &providerSet{}
	if err := r.materialize(t, referrer, set, state); err != nil {
		return nil, err
	}

	instance, err := r.build(t, ctors, set)
	if err != nil {
		return nil, err
	}

	instance, err = r.populate(t, instance, fields, set)
	if err != nil {
		return nil, err
	}
	return instance.Interface(), nil
}

// simpleInstance performs the bare no-argument construction for types
// with no injectable constructors and no injectable fields.
func simpleInstance(t reflect.Type) (any, error) {
	switch {
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Elem().Interface(), nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	}
	return nil, &InstantiationError{
		Type: t.String(),
		Err:  errors.New("type declares no injection metadata and is not plainly constructible"),
	}
}

// materialize fills the provider set for one resolution: the referrer's
// own providers first, then every module of every component declared for
// t, each module constructed through the same resolution process.
func (r *Resolver) materialize(t reflect.Type, referrer any, set *providerSet, state *resolutionState) error {
	rv := reflect.ValueOf(referrer)
	if err := r.registerProviders(rv.Type(), rv, set); err != nil {
		return &InstantiationError{Type: t.String(), Err: err}
	}

	for _, comp := range r.desc.Components(t) {
		for _, module := range comp.Modules {
			inst, err := r.create(module, referrer, state)
			if err != nil {
				return &InstantiationError{Type: t.String(), Err: err}
			}
			if err := r.registerProviders(module, reflect.ValueOf(inst), set); err != nil {
				return &InstantiationError{Type: t.String(), Err: err}
			}
		}
	}
	return nil
}

func (r *Resolver) registerProviders(t reflect.Type, owner reflect.Value, set *providerSet) error {
	for _, ps := range r.desc.Providers(t) {
		m := owner.MethodByName(ps.Method)
		if !m.IsValid() {
			return fmt.Errorf("provider method %s.%s not found", t, ps.Method)
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 {
			return fmt.Errorf("provider method %s.%s must take no arguments and return one value", t, ps.Method)
		}
		set.add(&providerRef{
			owner:   owner,
			method:  m,
			returns: mt.Out(0),
			name:    ps.Name,
			id:      t.String() + "." + ps.Method,
		})
	}
	return nil
}

// build tries each injectable constructor in declared order and invokes
// the first one whose every parameter binds. A provider or constructor
// invocation failure is fatal; only an unbindable parameter moves
// resolution on to the next constructor.
func (r *Resolver) build(t reflect.Type, ctors []ConstructorSpec, set *providerSet) (reflect.Value, error) {
	for _, cs := range ctors {
		fn := reflect.ValueOf(cs.Func)
		resolution, ok := bindConstructor(fn.Type(), cs.Params, set)
		if !ok {
			continue
		}

		args := make([]reflect.Value, len(resolution))
		for i, b := range resolution {
			if b.provider == nil {
				args[i] = reflect.Zero(b.typ)
				continue
			}
			val, err := b.provider.invoke()
			if err != nil {
				return reflect.Value{}, &InstantiationError{Type: t.String(), Err: err}
			}
			args[i] = val
		}

		instance, err := callConstructor(fn, args)
		if err != nil {
			return reflect.Value{}, &InstantiationError{Type: t.String(), Err: err}
		}
		return instance, nil
	}
	return reflect.Value{}, &InstantiationError{Type: t.String(), Constructors: len(ctors)}
}

func callConstructor(fn reflect.Value, args []reflect.Value) (val reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()
	out := fn.Call(args)
	if len(out) == 2 {
		if e, _ := out[1].Interface().(error); e != nil {
			return reflect.Value{}, e
		}
	}
	return out[0], nil
}

// populate is the best-effort field pass: every injectable field with a
// matching provider receives that provider's value; fields without a
// match keep their current value. Unexported fields are assigned through
// their address, sidestepping the usual settability restriction.
func (r *Resolver) populate(t reflect.Type, instance reflect.Value, fields []FieldSpec, set *providerSet) (reflect.Value, error) {
	if len(fields) == 0 {
		return instance, nil
	}

	target := instance
	switch target.Kind() {
	case reflect.Pointer:
		if target.IsNil() {
			return instance, nil
		}
		target = target.Elem()
	case reflect.Struct:
		// Constructors returning by value hand us an unaddressable
		// copy; populate an addressable one and return it instead.
		addr := reflect.New(target.Type())
		addr.Elem().Set(target)
		instance = addr.Elem()
		target = instance
	default:
		return instance, nil
	}

	for _, f := range fields {
		p := set.match(f.Type, f.Qualifier)
		if p == nil {
			continue
		}
		val, err := p.invoke()
		if err != nil {
			return reflect.Value{}, &InstantiationError{Type: t.String(), Err: err}
		}
		fv := target.Field(f.Index)
		if !fv.CanSet() {
			fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
		}
		fv.Set(val)
	}
	return instance, nil
}
