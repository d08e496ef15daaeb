package suggest

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/history"
)

// Parameter keys accepted by [Provider.Suggest].
const (
	KeySameAvatar   = "useSameAvatar"
	KeyCategory     = "useSpecificCategory"
	KeyCustomPrompt = "useCustomPrompt"
)

const (
	randomizeIcon    = "randomize"
	singleAvatarIcon = "single"
)

// DefaultCategories are offered when no catalog categories are known.
var DefaultCategories = []string{"Abstract", "People", "Characters", "Hypesquad", "Other"}

// Suggestion is one entry offered for a parameter.
type Suggestion struct {
	Name string `json:"name"`
	Data any    `json:"data,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// Keys lists the supported parameter keys.
func Keys() []string {
	return []string{KeySameAvatar, KeyCategory, KeyCustomPrompt}
}

// Provider answers suggestion queries for the run parameters.
type Provider struct {
	Categories []string       // nil uses DefaultCategories
	History    *history.Store // nil offers only the raw query for prompts
}

// Suggest returns the suggestions for key given the text typed so far.
func (p *Provider) Suggest(ctx context.Context, key, query string) ([]Suggestion, error) {
	switch key {
	case KeySameAvatar:
		return []Suggestion{
			{Name: "Randomize the avatar for each node", Data: false, Icon: randomizeIcon},
			{Name: "Use the same avatar for all nodes", Data: true, Icon: singleAvatarIcon},
		}, nil
	case KeyCategory:
		cats := p.Categories
		if cats == nil {
			cats = DefaultCategories
		}
		var out []Suggestion
		for _, c := range filter(cats, query) {
			out = append(out, Suggestion{Name: c, Data: c})
		}
		return out, nil
	case KeyCustomPrompt:
		return p.prompts(ctx, query)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown parameter %q", key)
	}
}

func (p *Provider) prompts(ctx context.Context, query string) ([]Suggestion, error) {
	var past []string
	if p.History != nil {
		var err error
		if past, err = p.History.List(ctx); err != nil {
			return nil, err
		}
	}
	matches := filter(past, query)

	var out []Suggestion
	if q := strings.TrimSpace(query); q != "" && !slices.Contains(matches, q) {
		out = append(out, Suggestion{Name: q, Data: q})
	}
	for _, m := range matches {
		out = append(out, Suggestion{Name: m, Data: m})
	}
	return out, nil
}

func filter(items []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
		}
	}
	return out
}
