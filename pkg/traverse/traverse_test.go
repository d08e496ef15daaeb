package traverse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"go.uber.org/goleak"

	"github.com/matzehuels/avatarshuffle/pkg/eligibility"
	apperrors "github.com/matzehuels/avatarshuffle/pkg/errors"
	"github.com/matzehuels/avatarshuffle/pkg/node"
	"github.com/matzehuels/avatarshuffle/pkg/selection"
	"github.com/matzehuels/avatarshuffle/pkg/style"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// seqSource hands out "k0", "k1", ... and counts draws.
type seqSource struct {
	mu    sync.Mutex
	n     int
	fail  bool
	draws int
}

func (s *seqSource) Next(context.Context) (selection.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	if s.fail {
		return selection.Pick{}, apperrors.NoEligibleStyles("Robots")
	}
	p := selection.Pick{StyleKey: fmt.Sprintf("k%d", s.n)}
	s.n++
	return p, nil
}

var styleResolver = ResolverFunc(func(_ context.Context, p selection.Pick) (Fill, error) {
	if p.Avatar != "" {
		return Fill{ImageHash: "img-" + p.Avatar}, nil
	}
	return Fill{StyleID: "S:" + p.StyleKey}, nil
})

func quietLogger() *log.Logger { return log.New(io.Discard) }

func styleOf(n node.Node) string {
	if fs, ok := n.(node.FillStyled); ok {
		return fs.FillStyleID()
	}
	return ""
}

func TestWalkContainerAppliesToShapesOnly(t *testing.T) {
	rect := node.NewRectangle("rect", node.WithFills(node.Solid(true)))
	ellipse := node.NewEllipse("ellipse", node.WithFills(node.Solid(true)))
	text := node.NewOther("text", node.KindText, node.WithFills(node.Solid(true)))
	frame := node.NewFrame("frame", []node.Node{rect, node.NewGroup("group", ellipse), text})

	src := &seqSource{}
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{frame}, Policy{Source: src})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	if styleOf(rect) == "" || styleOf(ellipse) == "" {
		t.Errorf("shapes not styled: rect=%q ellipse=%q", styleOf(rect), styleOf(ellipse))
	}
	if styleOf(text) != "" {
		t.Error("text must not be styled")
	}
	if styleOf(frame) != "" {
		t.Error("containers must not be styled")
	}
	if styleOf(rect) == styleOf(ellipse) {
		t.Error("each shape should receive its own pick")
	}
	if rep.Applied != 2 || rep.Failed != 0 {
		t.Errorf("report = %v", rep)
	}
	if src.draws != 2 {
		t.Errorf("draws = %d, want 2", src.draws)
	}
}

func TestWalkSkipsSectionContents(t *testing.T) {
	rect := node.NewRectangle("rect", node.WithFills(node.Solid(true)))
	section := node.NewOtherWithChildren("sec", node.KindSection, []node.Node{rect})

	src := &seqSource{}
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{section}, Policy{Source: src})
	if err != nil {
		t.Fatal(err)
	}
	if styleOf(rect) != "" || rep.Applied != 0 || src.draws != 0 {
		t.Errorf("section walked: rect=%q report=%v draws=%d", styleOf(rect), rep, src.draws)
	}
}

func TestWalkSubtractTargetsParent(t *testing.T) {
	a := node.NewVector("a", node.WithFills(node.Solid(true)))
	b := node.NewVector("b", node.WithFills(node.Solid(true)))
	boolean := node.NewBooleanOperation("bool", node.OpSubtract, []node.Node{a, b})

	e := New(styleResolver, quietLogger())
	rep, err := e.Walk(context.Background(), []node.Node{b}, Policy{Source: &seqSource{}})
	if err != nil {
		t.Fatal(err)
	}
	if styleOf(boolean) == "" {
		t.Error("SUBTRACT parent should receive the style")
	}
	if styleOf(b) != "" {
		t.Error("SUBTRACT operand must not receive the style")
	}
	if rep.Applied != 1 {
		t.Errorf("report = %v", rep)
	}
}

func TestWalkUnionOperandTargetsItself(t *testing.T) {
	a := node.NewVector("a", node.WithFills(node.Solid(true)))
	boolean := node.NewBooleanOperation("bool", node.OpUnion, []node.Node{a})

	if _, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{a}, Policy{Source: &seqSource{}}); err != nil {
		t.Fatal(err)
	}
	if styleOf(a) == "" || styleOf(boolean) != "" {
		t.Errorf("operand=%q parent=%q", styleOf(a), styleOf(boolean))
	}
}

func TestWalkSkipsIneligible(t *testing.T) {
	strokes := node.NewRectangle("strokes", node.WithStrokes(node.Stroke{Visible: true}), node.WithFills(node.Solid(false)))
	hidden := node.NewEllipse("hidden", node.WithFills(node.Solid(false)))
	styledSolid := node.NewRectangle("styled", node.WithFillStyle("S:old"), node.WithFills(node.Solid(true)))
	styledImage := node.NewRectangle("image", node.WithFillStyle("S:old"), node.WithFills(node.Image("h", true)))

	sel := []node.Node{strokes, hidden, styledSolid, styledImage}
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), sel, Policy{Source: &seqSource{}})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Skipped != 3 || rep.Applied != 1 {
		t.Errorf("report = %v, want 3 skipped 1 applied", rep)
	}
	if styleOf(styledSolid) != "S:old" {
		t.Error("styled solid target must keep its style under the image-only rule")
	}
	if styleOf(styledImage) == "S:old" {
		t.Error("styled image target should be restyled")
	}

	// The looser rule also restyles the solid target.
	styledSolid.SetFillStyleID("S:old")
	rep, err = New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{styledSolid},
		Policy{Source: &seqSource{}, Rule: eligibility.RuleCompatibleFill})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Applied != 1 || styleOf(styledSolid) == "S:old" {
		t.Errorf("compatible-fill rule: report = %v style = %q", rep, styleOf(styledSolid))
	}
}

func TestWalkSameMode(t *testing.T) {
	shapes := []node.Node{
		node.NewRectangle("r1", node.WithFills(node.Solid(true))),
		node.NewRectangle("r2", node.WithFills(node.Solid(true))),
		node.NewEllipse("e1", node.WithFills(node.Solid(true))),
	}
	frame := node.NewFrame("frame", []node.Node{node.NewVector("v", node.WithFills(node.Solid(true)))})
	sel := append(shapes, frame)

	src := &seqSource{}
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), sel, Policy{Source: src, Same: true})
	if err != nil {
		t.Fatal(err)
	}
	if src.draws != 1 {
		t.Errorf("draws = %d, want 1", src.draws)
	}
	if rep.Applied != 4 {
		t.Errorf("report = %v", rep)
	}
	for _, n := range append(shapes, frame.Children()...) {
		if styleOf(n) != "S:k0" {
			t.Errorf("%s style = %q, want S:k0", n.ID(), styleOf(n))
		}
	}
}

func TestWalkIneligibleShapesDoNotDraw(t *testing.T) {
	strokeOnly := node.NewRectangle("strokes", node.WithStrokes(node.Stroke{Visible: true}), node.WithFills(node.Solid(false)))
	a := node.NewRectangle("a", node.WithFills(node.Solid(true)))
	b := node.NewRectangle("b", node.WithFills(node.Solid(true)))
	frame := node.NewFrame("f", []node.Node{strokeOnly, a, b})

	src := &seqSource{}
	if _, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{frame, a}, Policy{Source: src}); err != nil {
		t.Fatal(err)
	}
	if src.draws != 2 {
		t.Errorf("draws = %d, want 2 (one per styled shape)", src.draws)
	}
}

func TestWalkEligibleSiblingsGetDistinctStyles(t *testing.T) {
	pool := style.Pool{
		{Key: "a", Name: "Avatars/People/A"},
		{Key: "b", Name: "Avatars/People/B"},
	}
	for seed := range uint64(200) {
		strokeOnly := node.NewRectangle("strokes", node.WithStrokes(node.Stroke{Visible: true}), node.WithFills(node.Solid(false)))
		a := node.NewRectangle("a", node.WithFills(node.Solid(true)))
		b := node.NewRectangle("b", node.WithFills(node.Solid(true)))
		frame := node.NewFrame("f", []node.Node{strokeOnly, a, b})
		src := selection.StyleSource{Session: selection.NewSession(pool, selection.WithSeed(seed))}

		if _, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{frame}, Policy{Source: src}); err != nil {
			t.Fatal(err)
		}
		if styleOf(a) == "" || styleOf(a) == styleOf(b) {
			t.Fatalf("seed %d: a=%q b=%q, want two distinct styles", seed, styleOf(a), styleOf(b))
		}
	}
}

func TestWalkApplyFailureDoesNotAbort(t *testing.T) {
	ok1 := node.NewRectangle("ok1", node.WithFills(node.Solid(true)))
	bad := node.NewRectangle("bad", node.WithFills(node.Solid(true)))
	ok2 := node.NewRectangle("ok2", node.WithFills(node.Solid(true)))
	frame := node.NewFrame("f", []node.Node{ok1, bad, ok2})

	var (
		mu       sync.Mutex
		failKey  string
		resolver = ResolverFunc(func(_ context.Context, p selection.Pick) (Fill, error) {
			mu.Lock()
			defer mu.Unlock()
			if failKey == "" {
				failKey = p.StyleKey
				return Fill{}, errors.New("import failed")
			}
			return Fill{StyleID: "S:" + p.StyleKey}, nil
		})
	)

	rep, err := New(resolver, quietLogger()).Walk(context.Background(), []node.Node{frame}, Policy{Source: &seqSource{}})
	if err != nil {
		t.Fatalf("apply failures must not surface: %v", err)
	}
	if rep.Failed != 1 || rep.Applied != 2 {
		t.Errorf("report = %v, want 1 failed 2 applied", rep)
	}
}

func TestWalkDrawFailureAborts(t *testing.T) {
	rect := node.NewRectangle("r", node.WithFills(node.Solid(true)))
	frame := node.NewFrame("f", []node.Node{node.NewEllipse("e", node.WithFills(node.Solid(true)))})

	for _, same := range []bool{false, true} {
		t.Run(fmt.Sprintf("same=%v", same), func(t *testing.T) {
			_, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{frame, rect},
				Policy{Source: &seqSource{fail: true}, Same: same})
			if !apperrors.Is(err, apperrors.ErrCodeNoEligibleStyles) {
				t.Fatalf("Walk() error = %v, want NO_ELIGIBLE_STYLES", err)
			}
		})
	}
}

func TestWalkVisitsEachNodeOnce(t *testing.T) {
	rect := node.NewRectangle("r", node.WithFills(node.Solid(true)))
	frame := node.NewFrame("f", []node.Node{rect})

	src := &seqSource{}
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{frame, rect, frame}, Policy{Source: src})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Visited != 2 || rep.Applied != 1 {
		t.Errorf("report = %v, want 2 visited 1 applied", rep)
	}
}

func TestWalkAvatarImageFill(t *testing.T) {
	rect := node.NewRectangle("r", node.WithFills(node.Solid(true)), node.WithFillStyle(""))
	ellipse := node.NewEllipse("e", node.WithFills(node.Solid(true)))

	src := selection.NewAvatarSource([]string{"p0"})
	rep, err := New(styleResolver, quietLogger()).Walk(context.Background(), []node.Node{rect, ellipse}, Policy{Source: src})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Applied != 2 {
		t.Fatalf("report = %v", rep)
	}
	for _, s := range []*node.Shape{rect, ellipse} {
		f := s.Fills()
		if len(f.Paints) != 1 || f.Paints[0].Type != node.PaintImage || f.Paints[0].ImageHash != "img-p0" {
			t.Errorf("%s fills = %+v", s.ID(), f)
		}
	}
}

func TestWalkWithSession(t *testing.T) {
	pool := style.Pool{
		{Key: "a", Name: "Avatars/People/A"},
		{Key: "b", Name: "Avatars/People/B"},
		{Key: "c", Name: "Avatars/People/C"},
	}
	var shapes []node.Node
	for i := range 3 {
		shapes = append(shapes, node.NewRectangle(fmt.Sprint(i), node.WithFills(node.Solid(true))))
	}
	src := selection.StyleSource{Session: selection.NewSession(pool, selection.WithSeed(11))}

	if _, err := New(styleResolver, quietLogger()).Walk(context.Background(), shapes, Policy{Source: src}); err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, n := range shapes {
		seen[styleOf(n)] = true
	}
	if len(seen) != 3 {
		t.Errorf("styles = %v, want three distinct", seen)
	}
}

func TestWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rect := node.NewRectangle("r", node.WithFills(node.Solid(true)))
	_, err := New(styleResolver, quietLogger()).Walk(ctx, []node.Node{rect}, Policy{Source: &seqSource{}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Walk() error = %v, want context.Canceled", err)
	}
	if styleOf(rect) != "" {
		t.Error("cancelled walk must not apply")
	}
}

func TestWalkRequiresSource(t *testing.T) {
	if _, err := New(styleResolver, nil).Walk(context.Background(), nil, Policy{}); err == nil {
		t.Error("missing source should fail")
	}
}

func TestReportString(t *testing.T) {
	got := Report{Visited: 4, Applied: 2, Skipped: 1, Failed: 1}.String()
	if !strings.Contains(got, "applied=2") {
		t.Errorf("String() = %q", got)
	}
}
