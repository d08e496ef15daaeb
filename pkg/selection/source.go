package selection

import (
	"context"
	"sync"

	"github.com/matzehuels/avatarshuffle/pkg/observability"
)

// Pick is what one target receives: a library style key or an avatar
// payload (base64 image data). Exactly one field is set.
type Pick struct {
	StyleKey string
	Avatar   string
}

// IsZero reports whether p carries nothing.
func (p Pick) IsZero() bool { return p.StyleKey == "" && p.Avatar == "" }

// Source hands out picks for traversal.
type Source interface {
	Next(ctx context.Context) (Pick, error)
}

// StyleSource draws style keys from a Session, filtered by Category.
type StyleSource struct {
	Session  *Session
	Category string
}

// Next draws the next style key.
func (s StyleSource) Next(ctx context.Context) (Pick, error) {
	key, err := s.Session.Draw(s.Category)
	observability.Run().OnDraw(ctx, s.Category, err)
	if err != nil {
		return Pick{}, err
	}
	return Pick{StyleKey: key}, nil
}

// AvatarSource hands out generated avatar payloads in order. When the
// batch holds fewer payloads than there are targets, it wraps around to
// the first payload.
type AvatarSource struct {
	mu       sync.Mutex
	payloads []string
	next     int
}

// NewAvatarSource creates a source over payloads.
func NewAvatarSource(payloads []string) *AvatarSource {
	return &AvatarSource{payloads: payloads}
}

// Next returns the next payload.
func (a *AvatarSource) Next(ctx context.Context) (Pick, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.payloads) == 0 {
		observability.Run().OnDraw(ctx, "", ErrNoAvatars)
		return Pick{}, ErrNoAvatars
	}
	p := a.payloads[a.next%len(a.payloads)]
	a.next++
	observability.Run().OnDraw(ctx, "", nil)
	return Pick{Avatar: p}, nil
}

// Len returns the number of payloads in the batch.
func (a *AvatarSource) Len() int { return len(a.payloads) }

var (
	_ Source = StyleSource{}
	_ Source = (*AvatarSource)(nil)
)
