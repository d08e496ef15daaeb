// Package traverse walks a document selection and applies picks to every
// eligible shape it reaches.
//
// Containers (frames, groups, components, instances) are expanded
// recursively and their children are visited concurrently, one errgroup per
// container. A shape whose parent is a SUBTRACT boolean operation writes to
// that parent instead of itself. Eligibility is decided by the
// [eligibility] predicates before anything is written.
//
// Reads and writes of node paint state are serialized by the engine, since
// document nodes are not safe for concurrent mutation. Resolving a pick
// (importing a style, creating an image) happens outside that lock.
//
// # Usage
//
//	engine := traverse.New(resolver, logger)
//	report, err := engine.Walk(ctx, selection, traverse.Policy{
//	    Source: selection.StyleSource{Session: session, Category: "People"},
//	})
package traverse
