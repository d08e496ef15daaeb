// Package suggest produces the suggestions shown while a run's parameters
// are typed: the same-avatar toggle, category names filtered by the query,
// and previously used custom prompts.
package suggest
