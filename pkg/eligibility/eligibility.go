package eligibility

import "github.com/matzehuels/avatarshuffle/pkg/node"

// Rule decides whether a shape whose target already carries a fill style may
// be restyled.
type Rule int

const (
	// RuleImageOnly re-touches a styled target only when the shape's fills
	// are SOLID/IMAGE compatible and at least one of them is an image. This
	// is the default.
	RuleImageOnly Rule = iota

	// RuleCompatibleFill re-touches a styled target when the shape's fills
	// are SOLID/IMAGE compatible or include an image.
	RuleCompatibleFill
)

// String returns the rule name used in configuration files.
func (r Rule) String() string {
	switch r {
	case RuleImageOnly:
		return "image-only"
	case RuleCompatibleFill:
		return "compatible-fill"
	}
	return "unknown"
}

// ParseRule parses a rule name. Unknown names return RuleImageOnly and false.
func ParseRule(s string) (Rule, bool) {
	switch s {
	case "", "image-only":
		return RuleImageOnly, true
	case "compatible-fill":
		return RuleCompatibleFill, true
	}
	return RuleImageOnly, false
}

func fillsOf(n node.Node) (node.Fills, bool) {
	f, ok := n.(node.Filled)
	if !ok {
		return node.Fills{}, false
	}
	return f.Fills(), true
}

func allInvisible(paints []node.Paint) bool {
	for _, p := range paints {
		if p.Visible {
			return false
		}
	}
	return true
}

// HasOnlyVisibleStrokes reports whether n is drawn purely by its strokes:
// it exposes strokes and fills, at least one stroke is visible, and its fills
// are mixed or all invisible. Nodes lacking either capability return false.
func HasOnlyVisibleStrokes(n node.Node) bool {
	s, ok := n.(node.Stroked)
	if !ok {
		return false
	}
	fills, ok := fillsOf(n)
	if !ok {
		return false
	}

	visibleStroke := false
	for _, st := range s.Strokes() {
		if st.Visible {
			visibleStroke = true
			break
		}
	}
	return visibleStroke && (fills.Mixed || allInvisible(fills.Paints))
}

// HasNonVisibleFills reports whether n exposes fills that are mixed or all
// invisible. An empty fill list counts as invisible.
func HasNonVisibleFills(n node.Node) bool {
	fills, ok := fillsOf(n)
	return ok && (fills.Mixed || allInvisible(fills.Paints))
}

// HasStyleID reports whether n references a fill style.
func HasStyleID(n node.Node) bool {
	s, ok := n.(node.FillStyled)
	return ok && s.FillStyleID() != ""
}

// HasInvalidFillTypes reports whether n exposes fills that are mixed or of
// which none is SOLID or IMAGE.
func HasInvalidFillTypes(n node.Node) bool {
	fills, ok := fillsOf(n)
	if !ok {
		return false
	}
	if fills.Mixed {
		return true
	}
	for _, p := range fills.Paints {
		if p.Type == node.PaintSolid || p.Type == node.PaintImage {
			return false
		}
	}
	return true
}

// HasValidImageStyle reports whether n has a concrete fill list containing
// at least one IMAGE paint.
func HasValidImageStyle(n node.Node) bool {
	fills, ok := fillsOf(n)
	if !ok || fills.Mixed {
		return false
	}
	for _, p := range fills.Paints {
		if p.Type == node.PaintImage {
			return true
		}
	}
	return false
}

// IsEligibleShape reports whether n may be restyled by writing to target,
// using [RuleImageOnly].
func IsEligibleShape(n, target node.Node) bool {
	return RuleImageOnly.IsEligibleShape(n, target)
}

// IsEligibleShape reports whether n may be restyled by writing to target.
// Strokes-only and invisible-fill shapes are always rejected. When target
// already carries a style, the rule decides.
func (r Rule) IsEligibleShape(n, target node.Node) bool {
	if HasOnlyVisibleStrokes(n) || HasNonVisibleFills(n) {
		return false
	}
	if !HasStyleID(target) {
		return true
	}
	switch r {
	case RuleCompatibleFill:
		return !HasInvalidFillTypes(n) || HasValidImageStyle(n)
	default:
		return !HasInvalidFillTypes(n) && HasValidImageStyle(n)
	}
}

// Target returns the node that receives the style when n is restyled: the
// parent when n is an operand of a SUBTRACT boolean operation, else n.
func Target(n node.Node) node.Node {
	if b, ok := n.Parent().(node.BooleanOp); ok && b.Kind() == node.KindBooleanOperation && b.Operation() == node.OpSubtract {
		return b
	}
	return n
}

// CountEligible counts the shape nodes reachable from nodes, descending
// through containers. It sizes avatar batches so every shape can receive a
// distinct image.
func CountEligible(nodes []node.Node) int {
	count := 0
	for _, n := range nodes {
		switch k := n.Kind(); {
		case k.IsShape():
			count++
		case k.IsContainer():
			if c, ok := n.(node.Container); ok {
				count += CountEligible(c.Children())
			}
		}
	}
	return count
}
