package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/avatarshuffle/pkg/node"
)

// jsonNode is the file form of a node.
type jsonNode struct {
	ID               string                `json:"id"`
	Type             node.Kind             `json:"type"`
	Name             string                `json:"name,omitempty"`
	Fills            *jsonFills            `json:"fills,omitempty"`
	Strokes          []jsonStroke          `json:"strokes,omitempty"`
	FillStyleID      string                `json:"fillStyleId,omitempty"`
	BooleanOperation node.BooleanOperation `json:"booleanOperation,omitempty"`
	Children         []jsonNode            `json:"children,omitempty"`
	Selected         bool                  `json:"selected,omitempty"`
}

type jsonPaint struct {
	Type      node.PaintType `json:"type"`
	Visible   *bool          `json:"visible,omitempty"` // absent means visible
	ImageHash string         `json:"imageHash,omitempty"`
}

type jsonStroke struct {
	Visible *bool `json:"visible,omitempty"`
}

// jsonFills is a paint array, or the string "mixed".
type jsonFills struct {
	node.Fills
}

const mixedFills = "mixed"

func (f jsonFills) MarshalJSON() ([]byte, error) {
	if f.Mixed {
		return json.Marshal(mixedFills)
	}
	paints := make([]jsonPaint, len(f.Paints))
	for i, p := range f.Paints {
		paints[i] = jsonPaint{Type: p.Type, ImageHash: p.ImageHash}
		if !p.Visible {
			paints[i].Visible = new(bool)
		}
	}
	return json.Marshal(paints)
}

func (f *jsonFills) UnmarshalJSON(data []byte) error {
	if d := bytes.TrimSpace(data); len(d) > 0 && d[0] == '"' {
		var s string
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		if s != mixedFills {
			return fmt.Errorf("fills: unknown value %q", s)
		}
		f.Fills = node.MixedFills()
		return nil
	}
	var paints []jsonPaint
	if err := json.Unmarshal(data, &paints); err != nil {
		return err
	}
	out := make([]node.Paint, len(paints))
	for i, p := range paints {
		out[i] = node.Paint{Type: p.Type, Visible: visible(p.Visible), ImageHash: p.ImageHash}
	}
	f.Fills = node.PaintList(out...)
	return nil
}

func visible(v *bool) bool { return v == nil || *v }

// build converts a file node into a document node, registering it and its
// descendants in d.
func (d *Document) build(jn jsonNode) (node.Node, error) {
	if jn.ID == "" {
		return nil, fmt.Errorf("node without id (type %s)", jn.Type)
	}
	if jn.Type == "" {
		return nil, fmt.Errorf("node %s: missing type", jn.ID)
	}
	if _, dup := d.byID[jn.ID]; dup {
		return nil, fmt.Errorf("duplicate node id %s", jn.ID)
	}
	d.byID[jn.ID] = nil // reserved so a descendant reusing the id is rejected

	children := make([]node.Node, 0, len(jn.Children))
	for _, c := range jn.Children {
		n, err := d.build(c)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	var opts []node.Option
	if jn.Fills != nil {
		if jn.Fills.Mixed {
			opts = append(opts, node.WithMixedFills())
		} else {
			opts = append(opts, node.WithFills(jn.Fills.Paints...))
		}
	}
	if len(jn.Strokes) > 0 {
		strokes := make([]node.Stroke, len(jn.Strokes))
		for i, s := range jn.Strokes {
			strokes[i] = node.Stroke{Visible: visible(s.Visible)}
		}
		opts = append(opts, node.WithStrokes(strokes...))
	}
	if jn.FillStyleID != "" {
		opts = append(opts, node.WithFillStyle(jn.FillStyleID))
	}

	var n node.Node
	switch jn.Type {
	case node.KindRectangle, node.KindEllipse, node.KindVector:
		if len(children) > 0 {
			return nil, fmt.Errorf("node %s: %s cannot have children", jn.ID, jn.Type)
		}
		n = node.NewShape(jn.ID, jn.Type, opts...)
	case node.KindBooleanOperation:
		op := jn.BooleanOperation
		if op == "" {
			op = node.OpUnion
		}
		n = node.NewBooleanOperation(jn.ID, op, children, opts...)
	case node.KindFrame:
		n = node.NewFrame(jn.ID, children, opts...)
	case node.KindComponent:
		n = node.NewComponent(jn.ID, children, opts...)
	case node.KindInstance:
		n = node.NewInstance(jn.ID, children, opts...)
	case node.KindGroup:
		n = node.NewGroup(jn.ID, children...)
	default:
		n = node.NewOtherWithChildren(jn.ID, jn.Type, children, opts...)
	}

	d.byID[jn.ID] = n
	d.names[n] = jn.Name
	if jn.Selected {
		d.selected[n] = true
	}
	return n, nil
}

// export converts n back to its file form.
func (d *Document) export(n node.Node) jsonNode {
	jn := jsonNode{ID: n.ID(), Type: n.Kind(), Name: d.names[n], Selected: d.selected[n]}
	if f, ok := n.(node.Filled); ok {
		fills := f.Fills()
		if fills.Mixed || len(fills.Paints) > 0 {
			jn.Fills = &jsonFills{fills}
		}
	}
	if s, ok := n.(node.Stroked); ok {
		for _, st := range s.Strokes() {
			js := jsonStroke{}
			if !st.Visible {
				js.Visible = new(bool)
			}
			jn.Strokes = append(jn.Strokes, js)
		}
	}
	if s, ok := n.(node.FillStyled); ok {
		jn.FillStyleID = s.FillStyleID()
	}
	if b, ok := n.(node.BooleanOp); ok {
		jn.BooleanOperation = b.Operation()
	}
	if c, ok := n.(node.Container); ok {
		for _, child := range c.Children() {
			jn.Children = append(jn.Children, d.export(child))
		}
	}
	return jn
}
