// Package node models the part of a design document that avatarshuffle reads
// and writes.
//
// # Variants
//
// The node kind set is closed. Each kind maps to one concrete variant, and
// each variant implements only the capability interfaces its kind supports:
//
//	Variant                Kinds                         Capabilities
//	*Shape                 RECTANGLE, ELLIPSE, VECTOR    Filled, Stroked, FillStyled, ImageFilled
//	*BooleanOperationNode  BOOLEAN_OPERATION             the above + Container, BooleanOp
//	*Frame                 COMPONENT, INSTANCE, FRAME    the above + Container
//	*Group                 GROUP                         Container
//	*Other                 TEXT, LINE, SECTION, ...      Filled, Stroked, FillStyled, ImageFilled, Container
//
// Other is a Container only so nested content survives a read and write.
// Code that descends into containers must check [Kind.IsContainer] first.
//
// Callers test capabilities with type assertions instead of probing for
// properties:
//
//	if styled, ok := n.(node.FillStyled); ok && styled.FillStyleID() != "" {
//	    // n already carries a style reference
//	}
//
// # Fills
//
// [Fills] is either a concrete paint list or the "mixed" sentinel the host
// reports for nodes whose fills vary across sub-ranges. Predicates treat
// "mixed" as "no usable fill".
//
// # Building trees
//
// Constructors wire parent references automatically:
//
//	tree := node.NewFrame("frame", []node.Node{
//	    node.NewRectangle("rect", node.WithFills(node.Solid(true))),
//	    node.NewGroup("group", node.NewEllipse("ellipse", node.WithFills(node.Solid(true)))),
//	})
package node
