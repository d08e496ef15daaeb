// Package catalog loads the pool of avatar styles.
//
// The catalog is fetched from the shared style library and kept in a
// [storage.Store] with its fetch time. A [Loader] prefers, in order:
//
//  1. a stored copy younger than the TTL (5 minutes by default)
//  2. a fresh fetch from the library, retried on transient failures
//  3. the stored copy regardless of age
//  4. the built-in fallback from [style.Fallback]
//
// [storage.Store]: github.com/matzehuels/avatarshuffle/pkg/storage.Store
// [style.Fallback]: github.com/matzehuels/avatarshuffle/pkg/style.Fallback
package catalog
