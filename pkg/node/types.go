package node

// The concrete variants below are not safe for concurrent mutation. The
// traversal engine serializes every read and write of paint state, mirroring
// a host document that is only touched from one thread.

type base struct {
	id     string
	kind   Kind
	parent Node
}

func (b *base) ID() string   { return b.id }
func (b *base) Kind() Kind   { return b.kind }
func (b *base) Parent() Node { return b.parent }

func (b *base) setParent(p Node) { b.parent = p }

type parented interface{ setParent(Node) }

func adopt(parent Node, children []Node) []Node {
	for _, c := range children {
		if p, ok := c.(parented); ok {
			p.setParent(parent)
		}
	}
	return children
}

// paint holds the fill/stroke state shared by every paintable variant.
type paint struct {
	fills       Fills
	strokes     []Stroke
	fillStyleID string
}

func (p *paint) Fills() Fills        { return p.fills }
func (p *paint) Strokes() []Stroke   { return p.strokes }
func (p *paint) FillStyleID() string { return p.fillStyleID }

func (p *paint) SetFillStyleID(id string) { p.fillStyleID = id }

// SetImageFill replaces all fills with one visible image paint and detaches
// any fill style, which is what the host does when fills are assigned.
func (p *paint) SetImageFill(hash string) {
	p.fills = PaintList(Image(hash, true))
	p.fillStyleID = ""
}

// Option configures the paint state of a node at construction time.
type Option func(*paint)

// WithFills sets a concrete fill list.
func WithFills(paints ...Paint) Option {
	return func(p *paint) { p.fills = PaintList(paints...) }
}

// WithMixedFills sets the "mixed" fill sentinel.
func WithMixedFills() Option {
	return func(p *paint) { p.fills = MixedFills() }
}

// WithStrokes sets the stroke list.
func WithStrokes(strokes ...Stroke) Option {
	return func(p *paint) { p.strokes = strokes }
}

// WithFillStyle sets the applied fill style id.
func WithFillStyle(id string) Option {
	return func(p *paint) { p.fillStyleID = id }
}

func newPaint(opts []Option) paint {
	var p paint
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Shape is a RECTANGLE, ELLIPSE or VECTOR node.
type Shape struct {
	base
	paint
}

// NewShape creates a shape node. kind must be a leaf shape kind; use
// [NewBooleanOperation] for boolean operations.
func NewShape(id string, kind Kind, opts ...Option) *Shape {
	return &Shape{base: base{id: id, kind: kind}, paint: newPaint(opts)}
}

// NewRectangle creates a RECTANGLE node.
func NewRectangle(id string, opts ...Option) *Shape { return NewShape(id, KindRectangle, opts...) }

// NewEllipse creates an ELLIPSE node.
func NewEllipse(id string, opts ...Option) *Shape { return NewShape(id, KindEllipse, opts...) }

// NewVector creates a VECTOR node.
func NewVector(id string, opts ...Option) *Shape { return NewShape(id, KindVector, opts...) }

// BooleanOperationNode combines its children with a boolean operation.
// It is a shape for traversal purposes: the engine does not descend into it.
type BooleanOperationNode struct {
	base
	paint
	op       BooleanOperation
	children []Node
}

// NewBooleanOperation creates a BOOLEAN_OPERATION node owning children.
func NewBooleanOperation(id string, op BooleanOperation, children []Node, opts ...Option) *BooleanOperationNode {
	n := &BooleanOperationNode{base: base{id: id, kind: KindBooleanOperation}, paint: newPaint(opts), op: op}
	n.children = adopt(n, children)
	return n
}

func (n *BooleanOperationNode) Operation() BooleanOperation { return n.op }
func (n *BooleanOperationNode) Children() []Node            { return n.children }

// Frame is a COMPONENT, INSTANCE or FRAME node: a container that also has
// its own paint.
type Frame struct {
	base
	paint
	children []Node
}

func newFrame(id string, kind Kind, children []Node, opts []Option) *Frame {
	f := &Frame{base: base{id: id, kind: kind}, paint: newPaint(opts)}
	f.children = adopt(f, children)
	return f
}

// NewFrame creates a FRAME node.
func NewFrame(id string, children []Node, opts ...Option) *Frame {
	return newFrame(id, KindFrame, children, opts)
}

// NewComponent creates a COMPONENT node.
func NewComponent(id string, children []Node, opts ...Option) *Frame {
	return newFrame(id, KindComponent, children, opts)
}

// NewInstance creates an INSTANCE node.
func NewInstance(id string, children []Node, opts ...Option) *Frame {
	return newFrame(id, KindInstance, children, opts)
}

func (f *Frame) Children() []Node { return f.children }

// Group is a GROUP node. Groups have no paint of their own.
type Group struct {
	base
	children []Node
}

// NewGroup creates a GROUP node.
func NewGroup(id string, children ...Node) *Group {
	g := &Group{base: base{id: id, kind: KindGroup}}
	g.children = adopt(g, children)
	return g
}

func (g *Group) Children() []Node { return g.children }

// Other is any node outside the eligible kinds (TEXT, LINE, SLICE,
// SECTION, ...). Text and lines carry paint in the host, so Other does too.
// Sections nest other nodes; those children are kept so the document
// round-trips, but the traversal engine never reaches past the kind check
// to walk them.
type Other struct {
	base
	paint
	children []Node
}

// NewOther creates a childless node of an ineligible kind.
func NewOther(id string, kind Kind, opts ...Option) *Other {
	return NewOtherWithChildren(id, kind, nil, opts...)
}

// NewOtherWithChildren creates a node of an ineligible kind that nests
// children, such as a SECTION.
func NewOtherWithChildren(id string, kind Kind, children []Node, opts ...Option) *Other {
	o := &Other{base: base{id: id, kind: kind}, paint: newPaint(opts)}
	o.children = adopt(o, children)
	return o
}

func (o *Other) Children() []Node { return o.children }

var (
	_ Filled      = (*Shape)(nil)
	_ Stroked     = (*Shape)(nil)
	_ FillStyled  = (*Shape)(nil)
	_ ImageFilled = (*Shape)(nil)
	_ BooleanOp   = (*BooleanOperationNode)(nil)
	_ Container   = (*BooleanOperationNode)(nil)
	_ FillStyled  = (*BooleanOperationNode)(nil)
	_ Container   = (*Frame)(nil)
	_ FillStyled  = (*Frame)(nil)
	_ Container   = (*Group)(nil)
	_ Container   = (*Other)(nil)
)

// Walk calls fn for n and every descendant in depth-first pre-order,
// including children of boolean operations.
func Walk(n Node, fn func(Node)) {
	fn(n)
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, fn)
		}
	}
}

// FilterEligible returns the nodes whose kind is a shape or container kind,
// preserving order.
func FilterEligible(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && n.Kind().IsEligible() {
			out = append(out, n)
		}
	}
	return out
}
