package plugin

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/avatarshuffle/pkg/avatar"
	"github.com/matzehuels/avatarshuffle/pkg/catalog"
	"github.com/matzehuels/avatarshuffle/pkg/eligibility"
	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/history"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
	"github.com/matzehuels/avatarshuffle/pkg/selection"
	"github.com/matzehuels/avatarshuffle/pkg/style"
	"github.com/matzehuels/avatarshuffle/pkg/stylecache"
	"github.com/matzehuels/avatarshuffle/pkg/traverse"
)

// Defaults for [Runner].
const (
	DefaultTimeout       = 60 * time.Second
	DefaultNotifyTimeout = 5 * time.Second
)

// DrainTimeout bounds how long a timed-out run waits for in-flight host
// calls before giving up on them.
var DrainTimeout = 2 * time.Second

// CatalogLoader provides the style pool. *catalog.Loader implements it.
type CatalogLoader interface {
	Load(ctx context.Context) catalog.Result
}

// Generator produces avatar payloads. *avatar.Generator implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, count int) ([]string, error)
}

// Result describes a finished run.
type Result struct {
	RunID  string
	Mode   string
	Origin catalog.Origin // empty in avatar mode
	Report traverse.Report
}

// Runner executes plugin runs against a [Host]. A Runner holds no per-run
// state and may serve concurrent runs.
type Runner struct {
	Catalog   CatalogLoader  // nil uses the built-in catalog
	Generator Generator      // nil rejects custom prompts
	History   *history.Store // optional; records custom prompts
	Logger    *log.Logger

	Rule          eligibility.Rule
	Timeout       time.Duration
	NotifyTimeout time.Duration

	// SessionOptions are passed to every selection session.
	SessionOptions []selection.Option
}

// NewRunner creates a runner with default timeouts. If logger is nil,
// log.Default() is used.
func NewRunner(cat CatalogLoader, gen Generator, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog:       cat,
		Generator:     gen,
		Logger:        logger,
		Timeout:       DefaultTimeout,
		NotifyTimeout: DefaultNotifyTimeout,
	}
}

// Run handles one run event. The host is always closed when Run returns:
// right away on success, after the notification timeout on failure, and
// immediately when the run timeout expires, even if work is in flight.
func (r *Runner) Run(ctx context.Context, host Host, params Params) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := Result{RunID: uuid.NewString(), Mode: params.Mode()}
	start := time.Now()

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := r.run(ctx, host, params, res)
		done <- outcome{out, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		r.Logger.Warn("run timed out, closing", "run", res.RunID, "timeout", timeout)
		host.Close()
		select {
		case out = <-done:
		case <-time.After(DrainTimeout):
			r.Logger.Warn("host ignored cancellation, abandoning run", "run", res.RunID)
			out = outcome{res: res}
		}
		out.err = errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "run timed out after %s", timeout)
	}

	observability.Run().OnRunComplete(ctx, res.RunID, out.res.Report.Summary(), time.Since(start), out.err)
	return out.res, out.err
}

func (r *Runner) run(ctx context.Context, host Host, params Params, res Result) (Result, error) {
	nodes := node.FilterEligible(host.Selection())
	observability.Run().OnRunStart(ctx, res.RunID, res.Mode, len(nodes))

	if len(nodes) == 0 {
		msg := EmptySelectionMessage()
		r.fail(ctx, host, msg)
		return res, errors.New(errors.ErrCodeEmptySelection, "%s", msg)
	}
	if err := params.Validate(); err != nil {
		r.fail(ctx, host, errors.UserMessage(err))
		return res, err
	}

	var (
		source   selection.Source
		resolver traverse.Resolver
	)
	if res.Mode == ModeAvatars {
		payloads, err := r.generate(ctx, params.Prompt, eligibility.CountEligible(nodes))
		if err != nil {
			r.fail(ctx, host, errors.UserMessage(err))
			return res, err
		}
		source = selection.NewAvatarSource(payloads)
		resolver = r.imageResolver(host)
	} else {
		pool := r.pool(ctx)
		res.Origin = pool.Origin
		session := selection.NewSession(pool.Styles, r.SessionOptions...)
		source = selection.StyleSource{Session: session, Category: params.Category}
		resolver = styleResolver(stylecache.New(host))
	}

	r.Logger.Info("run started", "run", res.RunID, "mode", res.Mode, "nodes", len(nodes), "origin", res.Origin)
	report, err := traverse.New(resolver, r.Logger).Walk(ctx, nodes, traverse.Policy{
		Source: source,
		Same:   params.SameAvatar,
		Rule:   r.Rule,
	})
	res.Report = report
	if err != nil {
		r.Logger.Error("run failed", "run", res.RunID, "err", err)
		r.fail(ctx, host, errors.UserMessage(err))
		return res, err
	}

	r.Logger.Info("run complete", "run", res.RunID, "report", report)
	host.Close()
	return res, nil
}

// fail shows msg as an error and closes the host once the notification
// has had time to be read.
func (r *Runner) fail(ctx context.Context, host Host, msg string) {
	host.Notify(Notice{Message: msg, Error: true, Timeout: r.NotifyTimeout})
	t := time.NewTimer(r.NotifyTimeout)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	host.Close()
}

func (r *Runner) pool(ctx context.Context) catalog.Result {
	if r.Catalog == nil {
		return catalog.Result{Styles: style.Fallback(), Origin: catalog.OriginFallback}
	}
	return r.Catalog.Load(ctx)
}

func (r *Runner) generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if r.Generator == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "avatar generation is not configured")
	}
	if r.History != nil {
		if err := r.History.Add(ctx, prompt); err != nil {
			r.Logger.Warn("could not record prompt", "err", err)
		}
	}
	payloads, err := r.Generator.Generate(ctx, prompt, count)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, selection.ErrNoAvatars
	}
	r.Logger.Debug("avatars generated", "requested", count, "received", len(payloads))
	return payloads, nil
}

func styleResolver(cache *stylecache.Cache) traverse.Resolver {
	return traverse.ResolverFunc(func(ctx context.Context, pick selection.Pick) (traverse.Fill, error) {
		h, err := cache.Get(ctx, pick.StyleKey)
		if err != nil {
			return traverse.Fill{}, err
		}
		return traverse.Fill{StyleID: h.ID}, nil
	})
}

// imageResolver creates each distinct avatar image once per run.
func (r *Runner) imageResolver(host Host) traverse.Resolver {
	images := stylecache.New(stylecache.ImporterFunc(func(ctx context.Context, payload string) (stylecache.Handle, error) {
		data, err := avatar.Decode(payload)
		if err != nil {
			return stylecache.Handle{}, err
		}
		hash, err := host.CreateImage(ctx, data)
		if err != nil {
			return stylecache.Handle{}, err
		}
		return stylecache.Handle{Key: payload, ID: hash}, nil
	}))
	return traverse.ResolverFunc(func(ctx context.Context, pick selection.Pick) (traverse.Fill, error) {
		h, err := images.Get(ctx, pick.Avatar)
		if err != nil {
			return traverse.Fill{}, err
		}
		return traverse.Fill{ImageHash: h.ID}, nil
	})
}
