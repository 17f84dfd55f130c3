package rivet

import (
	"fmt"
	"reflect"
)

// providerRef is one registered provider: a declared method bound to its
// owning module (or referrer) instance.
type providerRef struct {
	owner   reflect.Value
	method  reflect.Value
	returns reflect.Type
	name    string
	id      string
}

// invoke calls the provider on its owning instance. A panic inside the
// provider is returned as an error.
func (p *providerRef) invoke() (val reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider %s panicked: %v", p.id, rec)
		}
	}()
	out := p.method.Call(nil)
	return out[0], nil
}

// providerSet is the provider registry for one resolution call tree.
// Registration order is significant: binding is first-match, not
// best-match.
type providerSet struct {
	refs []*providerRef
}

func (s *providerSet) add(p *providerRef) {
	s.refs = append(s.refs, p)
}

// match returns the earliest registered provider whose return type is
// identical to want and whose qualifier satisfies name. An unqualified
// target (empty name) accepts any type-identical provider; a qualified
// target requires an equally named provider (case-sensitive).
func (s *providerSet) match(want reflect.Type, name string) *providerRef {
	for _, p := range s.refs {
		if p.returns != want {
			continue
		}
		if name != "" && p.name != name {
			continue
		}
		return p
	}
	return nil
}

// binding is the resolved source for one constructor parameter. A nil
// provider is the explicit absent value of an optional parameter.
type binding struct {
	provider *providerRef
	typ      reflect.Type
}

// bindConstructor resolves every parameter of one constructor, or
// reports false when a required parameter has no matching provider.
func bindConstructor(fn reflect.Type, params []ParamSpec, set *providerSet) ([]binding, bool) {
	resolution := make([]binding, 0, fn.NumIn())
	for i := 0; i < fn.NumIn(); i++ {
		var ps ParamSpec
		if i < len(params) {
			ps = params[i]
		}
		in := fn.In(i)
		if p := set.match(in, ps.Name); p != nil {
			resolution = append(resolution, binding{provider: p, typ: in})
			continue
		}
		if ps.Optional {
			resolution = append(resolution, binding{typ: in})
		}
	}

	// The solution holds only if every parameter was resolved or
	// explicitly permitted to be absent.
	if len(resolution) != fn.NumIn() {
		return nil, false
	}
	return resolution, true
}
