package node

import (
	"slices"
	"testing"
)

func TestKindClassification(t *testing.T) {
	tests := []struct {
		kind      Kind
		shape     bool
		container bool
	}{
		{KindRectangle, true, false},
		{KindEllipse, true, false},
		{KindVector, true, false},
		{KindBooleanOperation, true, false},
		{KindComponent, false, true},
		{KindInstance, false, true},
		{KindFrame, false, true},
		{KindGroup, false, true},
		{KindText, false, false},
		{KindLine, false, false},
		{KindSlice, false, false},
		{Kind("WIDGET"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.IsShape(); got != tt.shape {
				t.Errorf("IsShape() = %v, want %v", got, tt.shape)
			}
			if got := tt.kind.IsContainer(); got != tt.container {
				t.Errorf("IsContainer() = %v, want %v", got, tt.container)
			}
			if got := tt.kind.IsEligible(); got != (tt.shape || tt.container) {
				t.Errorf("IsEligible() = %v", got)
			}
		})
	}
}

func TestEligibleKinds(t *testing.T) {
	got := EligibleKinds()
	want := []Kind{
		KindRectangle, KindEllipse, KindVector, KindBooleanOperation,
		KindComponent, KindInstance, KindFrame, KindGroup,
	}
	if !slices.Equal(got, want) {
		t.Errorf("EligibleKinds() = %v, want %v", got, want)
	}
}

func TestConstructorsWireParents(t *testing.T) {
	rect := NewRectangle("rect")
	ellipse := NewEllipse("ellipse")
	group := NewGroup("group", ellipse)
	frame := NewFrame("frame", []Node{rect, group})

	if frame.Parent() != nil {
		t.Error("top-level frame should have no parent")
	}
	if rect.Parent() != Node(frame) {
		t.Errorf("rect parent = %v, want frame", rect.Parent())
	}
	if group.Parent() != Node(frame) {
		t.Errorf("group parent = %v, want frame", group.Parent())
	}
	if ellipse.Parent() != Node(group) {
		t.Errorf("ellipse parent = %v, want group", ellipse.Parent())
	}

	sub := NewVector("cut")
	boolean := NewBooleanOperation("bool", OpSubtract, []Node{sub})
	if sub.Parent() != Node(boolean) {
		t.Error("boolean operation should adopt its children")
	}
	if boolean.Operation() != OpSubtract {
		t.Errorf("Operation() = %v", boolean.Operation())
	}
}

func TestCapabilities(t *testing.T) {
	var (
		group Node = NewGroup("g")
		text  Node = NewOther("t", KindText)
		rect  Node = NewRectangle("r")
		frame Node = NewFrame("f", nil)
	)

	if _, ok := group.(Filled); ok {
		t.Error("groups must not expose fills")
	}
	if _, ok := group.(FillStyled); ok {
		t.Error("groups must not expose a fill style")
	}
	if _, ok := text.(Container); ok {
		t.Error("text must not be a container")
	}
	if _, ok := rect.(Container); ok {
		t.Error("shapes must not be containers")
	}
	if _, ok := rect.(BooleanOp); ok {
		t.Error("plain shapes must not expose a boolean operation")
	}
	if _, ok := frame.(FillStyled); !ok {
		t.Error("frames expose a fill style")
	}
}

func TestPaintOptions(t *testing.T) {
	r := NewRectangle("r",
		WithFills(Solid(true), Image("abc", false)),
		WithStrokes(Stroke{Visible: true}),
		WithFillStyle("S:1"),
	)
	if r.Fills().Mixed || len(r.Fills().Paints) != 2 {
		t.Errorf("Fills() = %+v", r.Fills())
	}
	if len(r.Strokes()) != 1 || !r.Strokes()[0].Visible {
		t.Errorf("Strokes() = %+v", r.Strokes())
	}
	if r.FillStyleID() != "S:1" {
		t.Errorf("FillStyleID() = %q", r.FillStyleID())
	}

	m := NewEllipse("m", WithMixedFills())
	if !m.Fills().Mixed {
		t.Error("WithMixedFills should set the sentinel")
	}
}

func TestSetImageFill(t *testing.T) {
	r := NewRectangle("r", WithFills(Solid(true), Solid(false)), WithFillStyle("S:old"))
	r.SetImageFill("hash1")

	fills := r.Fills()
	if len(fills.Paints) != 1 {
		t.Fatalf("got %d paints, want 1", len(fills.Paints))
	}
	if p := fills.Paints[0]; p.Type != PaintImage || !p.Visible || p.ImageHash != "hash1" {
		t.Errorf("paint = %+v", p)
	}
	if r.FillStyleID() != "" {
		t.Error("SetImageFill should detach the fill style")
	}
}

func TestWalk(t *testing.T) {
	tree := NewFrame("frame", []Node{
		NewRectangle("rect"),
		NewGroup("group", NewEllipse("ellipse")),
		NewBooleanOperation("bool", OpUnion, []Node{NewVector("v")}),
	})

	var ids []string
	Walk(tree, func(n Node) { ids = append(ids, n.ID()) })

	want := []string{"frame", "rect", "group", "ellipse", "bool", "v"}
	if !slices.Equal(ids, want) {
		t.Errorf("Walk order = %v, want %v", ids, want)
	}
}

func TestFilterEligible(t *testing.T) {
	in := []Node{
		NewOther("text", KindText),
		NewRectangle("rect"),
		nil,
		NewGroup("group"),
		NewOther("slice", KindSlice),
	}
	got := FilterEligible(in)
	if len(got) != 2 || got[0].ID() != "rect" || got[1].ID() != "group" {
		t.Errorf("FilterEligible() = %v", got)
	}
}
