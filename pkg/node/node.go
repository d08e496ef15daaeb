package node

// Kind is the type tag of a document node.
type Kind string

// Shape kinds. These are the leaves that can receive a fill style.
const (
	KindRectangle        Kind = "RECTANGLE"
	KindEllipse          Kind = "ELLIPSE"
	KindVector           Kind = "VECTOR"
	KindBooleanOperation Kind = "BOOLEAN_OPERATION"
)

// Container kinds. Traversal descends into their children.
const (
	KindComponent Kind = "COMPONENT"
	KindInstance  Kind = "INSTANCE"
	KindFrame     Kind = "FRAME"
	KindGroup     Kind = "GROUP"
)

// Kinds that are never restyled.
const (
	KindText  Kind = "TEXT"
	KindLine  Kind = "LINE"
	KindSlice Kind = "SLICE"
	KindStar  Kind = "STAR"

	KindSection Kind = "SECTION"
)

// ShapeKinds lists the shape kinds in display order.
var ShapeKinds = []Kind{KindRectangle, KindEllipse, KindVector, KindBooleanOperation}

// ContainerKinds lists the container kinds in display order.
var ContainerKinds = []Kind{KindComponent, KindInstance, KindFrame, KindGroup}

// EligibleKinds returns shape kinds followed by container kinds.
func EligibleKinds() []Kind {
	out := make([]Kind, 0, len(ShapeKinds)+len(ContainerKinds))
	out = append(out, ShapeKinds...)
	return append(out, ContainerKinds...)
}

// IsShape reports whether k is one of [ShapeKinds].
func (k Kind) IsShape() bool {
	switch k {
	case KindRectangle, KindEllipse, KindVector, KindBooleanOperation:
		return true
	}
	return false
}

// IsContainer reports whether k is one of [ContainerKinds].
func (k Kind) IsContainer() bool {
	switch k {
	case KindComponent, KindInstance, KindFrame, KindGroup:
		return true
	}
	return false
}

// IsEligible reports whether k is a shape or container kind.
func (k Kind) IsEligible() bool { return k.IsShape() || k.IsContainer() }

// BooleanOperation is the combine mode of a boolean-operation node.
type BooleanOperation string

const (
	OpUnion     BooleanOperation = "UNION"
	OpIntersect BooleanOperation = "INTERSECT"
	OpSubtract  BooleanOperation = "SUBTRACT"
	OpExclude   BooleanOperation = "EXCLUDE"
)

// PaintType is the kind of a fill paint.
type PaintType string

const (
	PaintSolid           PaintType = "SOLID"
	PaintImage           PaintType = "IMAGE"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintVideo           PaintType = "VIDEO"
)

// Paint is a single fill layer.
type Paint struct {
	Type      PaintType
	Visible   bool
	ImageHash string // set for IMAGE paints
}

// Stroke is a single stroke layer.
type Stroke struct {
	Visible bool
}

// Fills is either an ordered list of paints or the "mixed" sentinel the
// host reports when a node's fills differ across its sub-ranges.
type Fills struct {
	Mixed  bool
	Paints []Paint
}

// MixedFills returns the "mixed" sentinel.
func MixedFills() Fills { return Fills{Mixed: true} }

// PaintList returns a concrete fill list.
func PaintList(paints ...Paint) Fills { return Fills{Paints: paints} }

// Solid returns a SOLID paint.
func Solid(visible bool) Paint { return Paint{Type: PaintSolid, Visible: visible} }

// Image returns an IMAGE paint referencing hash.
func Image(hash string, visible bool) Paint {
	return Paint{Type: PaintImage, Visible: visible, ImageHash: hash}
}

// Gradient returns a GRADIENT_LINEAR paint.
func Gradient(visible bool) Paint { return Paint{Type: PaintGradientLinear, Visible: visible} }

// Node is the common surface of every document node. Capabilities are
// expressed by the additional interfaces below; a node implements only the
// ones its kind supports.
type Node interface {
	ID() string
	Kind() Kind
	// Parent returns the containing node, or nil at the top level.
	// The reference is never owned.
	Parent() Node
}

// Container is implemented by nodes with ordered children.
type Container interface {
	Node
	Children() []Node
}

// Filled is implemented by nodes that expose fills.
type Filled interface {
	Node
	Fills() Fills
}

// Stroked is implemented by nodes that expose strokes.
type Stroked interface {
	Node
	Strokes() []Stroke
}

// FillStyled is implemented by nodes that can reference a fill style.
type FillStyled interface {
	Node
	FillStyleID() string
	SetFillStyleID(id string)
}

// ImageFilled is implemented by nodes whose fills can be replaced by a
// single image paint.
type ImageFilled interface {
	Node
	SetImageFill(hash string)
}

// BooleanOp is implemented by boolean-operation nodes.
type BooleanOp interface {
	Node
	Operation() BooleanOperation
}
