// Package selection distributes style keys and avatar payloads across the
// nodes of a run.
//
// A [Session] replaces process-wide selection state: it is created for one
// run and owns the set of keys drawn in the current exhaustion cycle. Draws
// never repeat a key until every eligible key has been used, at which point
// the set is cleared.
//
// [StyleSource] and [AvatarSource] adapt a session or a generated batch to
// the [Source] interface consumed by the traversal engine.
package selection
