package style

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Style is a remotely resolvable fill style from the shared library.
type Style struct {
	Key  string `json:"key"`  // Opaque library key
	Name string `json:"name"` // Hierarchical name, e.g. "Avatars/People/Henri"
}

// Pool is an ordered set of styles.
type Pool []Style

// Filter returns the styles whose name contains category (case-sensitive).
// An empty category returns the pool unchanged.
func (p Pool) Filter(category string) Pool {
	if category == "" {
		return p
	}
	out := make(Pool, 0, len(p))
	for _, s := range p {
		if strings.Contains(s.Name, category) {
			out = append(out, s)
		}
	}
	return out
}

// Keys returns the style keys in pool order.
func (p Pool) Keys() []string {
	keys := make([]string, len(p))
	for i, s := range p {
		keys[i] = s.Key
	}
	return keys
}

// Lookup finds a style by key.
func (p Pool) Lookup(key string) (Style, bool) {
	for _, s := range p {
		if s.Key == key {
			return s, true
		}
	}
	return Style{}, false
}

// DefaultCategoryPattern captures the second path segment of a style name:
// "Avatars/People/Henri" has category "People".
const DefaultCategoryPattern = `^[^/]+/([^/]+)/`

// Categorizer extracts a category from a style name with a regular
// expression and capture group index.
type Categorizer struct {
	re    *regexp.Regexp
	group int
}

// NewCategorizer compiles pattern. group selects the capture group holding
// the category; it must exist in the pattern.
func NewCategorizer(pattern string, group int) (*Categorizer, error) {
	if pattern == "" {
		pattern = DefaultCategoryPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile category pattern: %w", err)
	}
	if group < 0 || group > re.NumSubexp() {
		return nil, fmt.Errorf("category group %d out of range (pattern has %d groups)", group, re.NumSubexp())
	}
	return &Categorizer{re: re, group: group}, nil
}

// DefaultCategorizer returns a Categorizer for [DefaultCategoryPattern].
func DefaultCategorizer() *Categorizer {
	c, _ := NewCategorizer(DefaultCategoryPattern, 1)
	return c
}

// Category returns the category of name, or "" when the pattern does not
// match.
func (c *Categorizer) Category(name string) string {
	m := c.re.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[c.group]
}

// Categories lists the distinct categories of pool in first-seen order.
func (c *Categorizer) Categories(pool Pool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range pool {
		cat := c.Category(s.Name)
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

//go:embed fallback.json
var fallbackJSON []byte

// Fallback returns the built-in catalog used when neither the library nor a
// stored copy is available. Each call returns a fresh slice.
func Fallback() Pool {
	var p Pool
	if err := json.Unmarshal(fallbackJSON, &p); err != nil {
		panic(fmt.Sprintf("style: corrupt fallback catalog: %v", err))
	}
	return p
}
