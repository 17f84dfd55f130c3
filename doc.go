// Package rivet is a small metadata-driven dependency resolver.
//
// Rivet builds objects from declared injection metadata: a type registers
// its injectable constructors and provider methods in a [Registry], marks
// injectable struct fields with tags, and attaches component declarations
// to the capability interfaces it implements. A call to [Resolver.Create]
// then materializes every module named by the target's components,
// collects their provider methods, binds constructor parameters and
// fields to matching providers, and returns the finished instance.
//
// # Quick Start
//
//	reg := rivet.NewRegistry()
//	reg.RegisterType(rivet.TypeSpec{
//		Type:         rivet.TypeOf[*Server](),
//		Constructors: []rivet.ConstructorSpec{{Func: NewServer}},
//	})
//	reg.RegisterComponent(rivet.TypeOf[UsesStore](), rivet.TypeOf[*StoreModule]())
//
//	r := rivet.NewResolver(reg)
//	srv, err := rivet.Create[*Server](r)
//
// # Matching
//
// A provider satisfies a parameter or field only when its return type is
// identical to the declared type. Qualified targets (a non-empty name)
// additionally require a provider registered under the same name;
// unqualified targets accept any type-identical provider. Among eligible
// providers the earliest registered wins: the referrer's own providers
// come first, then each component's modules in declaration order.
//
// # Concurrency
//
// Resolution is synchronous and keeps no state between calls; nothing is
// cached or shared. Independent Create calls from multiple goroutines are
// safe only if the registered constructors and providers are themselves
// safe to call concurrently.
package rivet
