package selection

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/style"
)

// Session holds the selection state of one run: the keys drawn so far and
// the last draw. A Session is safe for concurrent use; every draw is a
// single critical section.
type Session struct {
	id     string
	pool   style.Pool
	sticky bool

	mu   sync.Mutex
	rng  *rand.Rand
	used map[string]struct{}
	last string
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source. Tests pass a seeded generator to make
// draws reproducible.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithSeed seeds a PCG generator for the session.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithStickyLast makes every draw after the first return the first key,
// so one style is shared by every node of the run.
func WithStickyLast() Option {
	return func(s *Session) { s.sticky = true }
}

// NewSession starts a selection session over pool.
func NewSession(pool style.Pool, opts ...Option) *Session {
	s := &Session{
		id:   uuid.NewString(),
		pool: pool,
		used: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// ID returns the run identifier.
func (s *Session) ID() string { return s.id }

// Pool returns the full style pool of the session.
func (s *Session) Pool() style.Pool { return s.pool }

// Draw returns a random style key from the pool filtered by category.
// A key is not returned twice until every eligible key has been drawn; the
// used set is then cleared and the cycle restarts. An empty filtered pool
// fails with NO_ELIGIBLE_STYLES.
func (s *Session) Draw(category string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sticky && s.last != "" {
		return s.last, nil
	}

	eligible := s.pool.Filter(category)
	if len(eligible) == 0 {
		return "", errors.NoEligibleStyles(category)
	}

	if len(s.used) >= len(eligible) {
		clear(s.used)
	}
	candidates := s.unused(eligible)
	if len(candidates) == 0 {
		// Only reachable when the pool repeats keys.
		clear(s.used)
		candidates = s.unused(eligible)
	}

	key := candidates[s.rng.IntN(len(candidates))]
	s.used[key] = struct{}{}
	s.last = key
	return key, nil
}

func (s *Session) unused(eligible style.Pool) []string {
	seen := make(map[string]struct{}, len(eligible))
	out := make([]string, 0, len(eligible))
	for _, st := range eligible {
		if _, ok := s.used[st.Key]; ok {
			continue
		}
		if _, ok := seen[st.Key]; ok {
			continue
		}
		seen[st.Key] = struct{}{}
		out = append(out, st.Key)
	}
	return out
}

// Last returns the most recent draw, or "" before the first draw.
func (s *Session) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Used returns how many keys are in the current exhaustion cycle.
func (s *Session) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}

// ErrNoAvatars is returned by an AvatarSource with an empty batch.
var ErrNoAvatars = errors.New(errors.ErrCodeNoEligibleStyles, "no avatars available")
