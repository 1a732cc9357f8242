// Package loom is a hierarchical dependency-resolution runtime: registered
// producers (constructors, factories, static values, wrapped functions)
// are resolved on demand into an object graph, each artifact's own
// dependencies resolved recursively, with synchronous and deferred
// construction paths collapsed transparently.
//
// # Contexts
//
// A [Context] maps qualifiers to producers. Contexts form a tree: lookups
// walk from the queried context up to the root, mutations stay local.
//
//	ctx := loom.New()
//	child := ctx.Child()       // shadows ctx for its own lookups
//	prev := child.Activate()   // process-wide active pointer, explicit
//	defer prev.Activate()
//
// The process-wide [Root] context exists from first use; [Active] returns
// whichever context was last activated (the owning context, transiently,
// while a resolution runs).
//
// # Qualifiers
//
// Lookup keys come in three kinds: a type, a [Name], or an interned
// (type, name) pair:
//
//	ctx.Get(loom.TypeOf[*Database]())
//	ctx.Get(loom.Name("primary"))
//	ctx.Get(loom.Qualify(loom.TypeOf[*Database](), "primary"))
//
// Registration fans out: a producer is reachable through its own type,
// every embedded ancestor type (see [Hierarchy]), every [As] type, every
// alias name, and every (type, alias) pair, all resolving to the same
// cached instance for singletons.
//
// # Scopes
//
// [Singleton] (default): the recipe runs at most once, even under
// concurrent first requests; everyone shares the result.
//
// [Prototype]: a fresh construction per request.
//
// # Deferred construction
//
// A recipe may return a *[Promise]. Anything depending on a pending
// artifact becomes pending itself; independent parameters are resolved
// eagerly and joined before the dependent recipe runs. [Context.Get]
// returns a plain value when the whole subgraph was synchronous and a
// promise otherwise; [Context.GetSync] insists on a settled result;
// [Context.GetAsync] always returns a promise. Once a singleton's promise
// settles, the cache holds the plain value; later callers never see a
// promise again.
//
// # Pass-through parameters
//
// A producer parameter marked [PassThrough] is excluded from resolution
// and filled from the caller's arguments at request time, interleaved back
// into declaration order:
//
//	// params: [PassThrough, *ServiceX, PassThrough]
//	ctx.Get(loom.TypeOf[*Component](), "a", 7)
//	// recipe sees ("a", <ServiceX>, 7)
//
// [Context.RegisterFunction] builds on the same mechanism to produce
// partially-injected callables.
//
// The registered graph is assumed acyclic; behaviour on a cycle is
// undefined.
package loom
