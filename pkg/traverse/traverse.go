package traverse

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/avatarshuffle/pkg/eligibility"
	"github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
	"github.com/matzehuels/avatarshuffle/pkg/selection"
)

// Fill is a resolved pick, ready to be written to a node. Exactly one
// field is set.
type Fill struct {
	StyleID   string // host style id, assigned as the fill style
	ImageHash string // host image handle, assigned as a single image paint
}

// Resolver turns a pick into a host fill. It may block (style import,
// image upload); the engine calls it without holding its lock.
type Resolver interface {
	Resolve(ctx context.Context, pick selection.Pick) (Fill, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, pick selection.Pick) (Fill, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, pick selection.Pick) (Fill, error) {
	return f(ctx, pick)
}

// Policy controls one walk.
type Policy struct {
	// Source hands out picks. Required.
	Source selection.Source

	// Same draws a single pick upfront and gives it to every target.
	Same bool

	// Rule decides whether already styled targets may be restyled.
	Rule eligibility.Rule
}

// Report counts what a walk did. Visited counts distinct nodes reached;
// Applied, Skipped and Failed count shape nodes by outcome.
type Report struct {
	Visited int
	Applied int
	Skipped int
	Failed  int
}

// Summary converts r for observability hooks.
func (r Report) Summary() observability.RunSummary {
	return observability.RunSummary(r)
}

// Engine walks a selection and applies picks to eligible shapes.
type Engine struct {
	resolver Resolver
	logger   *log.Logger
}

// New creates an engine. If logger is nil, log.Default() is used.
func New(resolver Resolver, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// walk is the state of one Walk call.
type walk struct {
	*Engine
	policy Policy

	// mu serializes host reads and writes of paint state, the visited set
	// and the report.
	mu      sync.Mutex
	visited map[node.Node]struct{}
	report  Report
}

// Walk visits every node of nodes and its descendants. Each eligible shape
// draws its own pick after its checks pass, unless p.Same holds, in which
// case one pick is drawn upfront and shared. Ineligible or repeated shapes
// never draw. Siblings are processed concurrently.
//
// A failed draw aborts the walk and is returned. A failure to resolve or
// write a fill is logged and counted, and never aborts the walk.
func (e *Engine) Walk(ctx context.Context, nodes []node.Node, p Policy) (Report, error) {
	if p.Source == nil {
		return Report{}, errors.New(errors.ErrCodeInvalidInput, "walk requires a pick source")
	}
	w := &walk{Engine: e, policy: p, visited: make(map[node.Node]struct{})}
	err := w.children(ctx, nodes, pickNone)
	return w.report, err
}

var pickNone selection.Pick

// children visits nodes concurrently. inherited is handed to container
// nodes, and to every shape in same mode. Otherwise a shape draws its own
// pick, in document order, once it is known to receive it.
func (w *walk) children(ctx context.Context, nodes []node.Node, inherited selection.Pick) error {
	if w.policy.Same && inherited.IsZero() {
		pick, err := w.policy.Source.Next(ctx)
		if err != nil {
			return err
		}
		inherited = pick
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		if n == nil || !n.Kind().IsEligible() {
			continue
		}
		if n.Kind().IsContainer() {
			g.Go(func() error { return w.visit(gctx, n, inherited) })
			continue
		}

		target, ok := w.claim(gctx, n)
		if !ok {
			continue
		}
		pick := inherited
		if !w.policy.Same {
			var err error
			if pick, err = w.policy.Source.Next(gctx); err != nil {
				_ = g.Wait()
				return err
			}
		}
		g.Go(func() error { return w.applyTo(gctx, n, target, pick) })
	}
	return g.Wait()
}

// markVisited records n and reports whether it was new.
func (w *walk) markVisited(n node.Node) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.visited[n]; seen {
		return false
	}
	w.visited[n] = struct{}{}
	w.report.Visited++
	return true
}

// visit recurses into a container.
func (w *walk) visit(ctx context.Context, n node.Node, pick selection.Pick) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.markVisited(n) {
		return nil
	}
	c, ok := n.(node.Container)
	if !ok {
		return nil
	}
	return w.children(ctx, c.Children(), pick)
}

// claim marks shape n visited and returns the node that receives its fill.
// ok is false for shapes already visited or not eligible.
func (w *walk) claim(ctx context.Context, n node.Node) (target node.Node, ok bool) {
	if !w.markVisited(n) {
		return nil, false
	}

	target = eligibility.Target(n)
	if _, ok := target.(node.FillStyled); !ok {
		w.skip(ctx, n, "target has no fill style")
		return nil, false
	}

	w.mu.Lock()
	eligible := w.policy.Rule.IsEligibleShape(n, target)
	w.mu.Unlock()
	if !eligible {
		w.skip(ctx, n, "not eligible")
		return nil, false
	}
	return target, true
}

func (w *walk) applyTo(ctx context.Context, n, target node.Node, pick selection.Pick) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.apply(ctx, target, pick); err != nil {
		w.mu.Lock()
		w.report.Failed++
		w.mu.Unlock()
		w.logger.Warn("apply failed", "node", n.ID(), "target", target.ID(), "err", err)
		observability.Run().OnNodeFailed(ctx, string(n.Kind()), err)
		return nil
	}

	w.mu.Lock()
	w.report.Applied++
	w.mu.Unlock()
	w.logger.Debug("applied", "node", n.ID(), "target", target.ID())
	observability.Run().OnNodeApplied(ctx, string(n.Kind()))
	return nil
}

func (w *walk) skip(ctx context.Context, n node.Node, reason string) {
	w.mu.Lock()
	w.report.Skipped++
	w.mu.Unlock()
	w.logger.Debug("skipped", "node", n.ID(), "reason", reason)
	observability.Run().OnNodeSkipped(ctx, string(n.Kind()), reason)
}

func (w *walk) apply(ctx context.Context, target node.Node, pick selection.Pick) error {
	if pick.IsZero() {
		return errors.New(errors.ErrCodeApply, "no pick for %s", target.ID())
	}
	fill, err := w.resolver.Resolve(ctx, pick)
	if err != nil {
		return errors.Wrap(errors.ErrCodeApply, err, "resolve pick for %s", target.ID())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case fill.StyleID != "":
		target.(node.FillStyled).SetFillStyleID(fill.StyleID)
	case fill.ImageHash != "":
		img, ok := target.(node.ImageFilled)
		if !ok {
			return errors.New(errors.ErrCodeApply, "%s cannot hold an image fill", target.ID())
		}
		img.SetImageFill(fill.ImageHash)
	default:
		return errors.New(errors.ErrCodeApply, "empty fill for %s", target.ID())
	}
	return nil
}

// String implements fmt.Stringer.
func (r Report) String() string {
	return fmt.Sprintf("visited=%d applied=%d skipped=%d failed=%d", r.Visited, r.Applied, r.Skipped, r.Failed)
}
