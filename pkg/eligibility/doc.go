// Package eligibility classifies document nodes by their current visual state.
//
// Every function is pure and total: it never fails and never mutates a node.
// The predicates guard against corrupting a node's appearance:
//
//   - [HasOnlyVisibleStrokes]: outline-only art (icons drawn with strokes)
//   - [HasNonVisibleFills]: nothing would show the new fill
//   - [HasInvalidFillTypes], [HasValidImageStyle]: whether an already styled
//     node holds fills compatible with being overwritten
//
// [IsEligibleShape] combines them. A target that already carries a style
// reference is only re-touched when the [Rule] allows it; [RuleImageOnly] is
// the default and only restyles targets that already show an image.
package eligibility
