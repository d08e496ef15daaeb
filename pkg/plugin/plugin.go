package plugin

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/stylecache"
)

// Host is the design document a run operates on. Selection returns the
// user's current selection; ImportStyle and CreateImage resolve picks into
// fills. Close ends the run in the host and must be safe to call twice.
//
// Methods that take a context must return once it is done. A run that
// outlives its timeout waits at most [DrainTimeout] for them before Run
// returns and leaves the work behind.
type Host interface {
	stylecache.Importer

	Selection() []node.Node
	CreateImage(ctx context.Context, data []byte) (string, error)
	Notify(n Notice)
	Close()
}

// Notice is a message shown to the user.
type Notice struct {
	Message string
	Error   bool
	Timeout time.Duration
}

// Params are the run parameters entered by the user.
type Params struct {
	SameAvatar bool   `json:"useSameAvatar"`
	Category   string `json:"useSpecificCategory,omitempty"`
	Prompt     string `json:"useCustomPrompt,omitempty"`
}

// Validate checks the category and prompt.
func (p Params) Validate() error {
	if err := errors.ValidateCategory(p.Category); err != nil {
		return err
	}
	return errors.ValidatePrompt(p.Prompt)
}

// Mode reports whether the run applies library styles or generated avatars.
func (p Params) Mode() string {
	if strings.TrimSpace(p.Prompt) != "" {
		return ModeAvatars
	}
	return ModeStyles
}

// Run modes.
const (
	ModeStyles  = "styles"
	ModeAvatars = "avatars"
)

// EmptySelectionMessage is shown when nothing eligible is selected.
func EmptySelectionMessage() string {
	kinds := node.EligibleKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "Select at least one node of the following type: " + strings.Join(names, ", ")
}
