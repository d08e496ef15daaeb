package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/avatarshuffle/pkg/httputil"
	"github.com/matzehuels/avatarshuffle/pkg/integrations/figma"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
	"github.com/matzehuels/avatarshuffle/pkg/storage"
	"github.com/matzehuels/avatarshuffle/pkg/style"
)

// Defaults for [Loader].
const (
	DefaultKey = "fetchedStyles"
	DefaultTTL = 5 * time.Minute
)

// Origin tells where a loaded catalog came from.
type Origin string

const (
	OriginCache    Origin = "cache"    // fresh stored copy
	OriginLibrary  Origin = "library"  // fetched from the style library
	OriginStale    Origin = "stale"    // stored copy past its TTL, library unreachable
	OriginFallback Origin = "fallback" // built-in catalog
)

// ErrEmptyLibrary is returned when the library holds no fill styles.
var ErrEmptyLibrary = errors.New("library has no fill styles")

// Snapshot is the stored form of a fetched catalog.
type Snapshot struct {
	Styles    style.Pool `json:"styles"`
	Version   string     `json:"version"`
	Timestamp int64      `json:"timestamp"` // fetch time, Unix milliseconds
}

// Fetcher retrieves the current catalog from the style library.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// FigmaFetcher reads the catalog from a Figma library file.
type FigmaFetcher struct {
	Client  *figma.Client
	FileKey string
}

// Fetch implements Fetcher.
func (f FigmaFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	lib, err := f.Client.FileStyles(ctx, f.FileKey)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Styles: lib.Styles, Version: lib.Version}, nil
}

// Result is a loaded catalog.
type Result struct {
	Styles  style.Pool
	Version string
	Origin  Origin
}

// Loader resolves the style catalog: a fresh stored copy first, then the
// library, then a stale stored copy, then the built-in fallback. Load never
// fails; it degrades.
type Loader struct {
	Store   storage.Store
	Fetcher Fetcher // nil when no library is configured
	Logger  *log.Logger
	Key     string
	TTL     time.Duration
	Backoff httputil.Backoff

	now func() time.Time
}

// NewLoader creates a loader with default key, TTL and backoff. fetcher may
// be nil.
func NewLoader(store storage.Store, fetcher Fetcher, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		Store:   store,
		Fetcher: fetcher,
		Logger:  logger,
		Key:     DefaultKey,
		TTL:     DefaultTTL,
		Backoff: httputil.DefaultBackoff,
		now:     time.Now,
	}
}

// Load returns the catalog, preferring a stored copy younger than TTL.
func (l *Loader) Load(ctx context.Context) Result {
	return l.load(ctx, false)
}

// Refresh bypasses the stored copy and fetches from the library, degrading
// like Load when the library is unreachable.
func (l *Loader) Refresh(ctx context.Context) Result {
	return l.load(ctx, true)
}

func (l *Loader) load(ctx context.Context, force bool) Result {
	stored, haveStored := l.readStored(ctx)

	if haveStored && !force && l.fresh(stored) {
		observability.Cache().OnCacheHit(ctx, "catalog")
		l.Logger.Debug("styles loaded from storage", "count", len(stored.Styles), "version", stored.Version)
		return Result{Styles: stored.Styles, Version: stored.Version, Origin: OriginCache}
	}
	observability.Cache().OnCacheMiss(ctx, "catalog")

	if l.Fetcher != nil {
		snap, err := l.fetch(ctx)
		if err == nil {
			snap.Timestamp = l.now().UnixMilli()
			if err := storage.SetJSON(ctx, l.Store, l.Key, snap, 0); err != nil {
				l.Logger.Warn("could not store styles", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "catalog", len(snap.Styles))
			}
			l.Logger.Debug("styles fetched from library", "count", len(snap.Styles), "version", snap.Version)
			return Result{Styles: snap.Styles, Version: snap.Version, Origin: OriginLibrary}
		}
		l.Logger.Warn("could not fetch styles from library", "err", err)
	}

	if haveStored {
		l.Logger.Debug("styles loaded from stale storage", "count", len(stored.Styles))
		return Result{Styles: stored.Styles, Version: stored.Version, Origin: OriginStale}
	}
	l.Logger.Debug("styles loaded from fallback")
	return Result{Styles: style.Fallback(), Origin: OriginFallback}
}

func (l *Loader) readStored(ctx context.Context) (Snapshot, bool) {
	if l.Store == nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	ok, err := storage.GetJSON(ctx, l.Store, l.Key, &snap)
	if err != nil {
		l.Logger.Warn("could not read stored styles", "err", err)
		return Snapshot{}, false
	}
	return snap, ok && len(snap.Styles) > 0
}

func (l *Loader) fresh(s Snapshot) bool {
	age := l.now().Sub(time.UnixMilli(s.Timestamp))
	return age >= 0 && age < l.TTL
}

func (l *Loader) fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := l.Backoff.Retry(ctx, func() error {
		var err error
		snap, err = l.Fetcher.Fetch(ctx)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}
	if len(snap.Styles) == 0 {
		return Snapshot{}, fmt.Errorf("fetch styles: %w", ErrEmptyLibrary)
	}
	return snap, nil
}
