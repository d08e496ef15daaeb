// Package history persists recently used custom prompts so they can be
// offered again as suggestions.
//
// Entries are kept most recent first, without duplicates, and capped at
// [DefaultLimit] unless configured with [WithLimit].
package history
