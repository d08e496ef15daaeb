// Package document loads and saves design documents in a JSON form and
// serves them as a [plugin.Host], so runs can be applied outside the design
// tool.
//
// A document lists top-level nodes; each node has an id and a type and,
// depending on the type, fills, strokes, a fill style, a boolean operation
// and children:
//
//	{
//	  "name": "Team page",
//	  "nodes": [
//	    {"id": "1", "type": "FRAME", "selected": true, "children": [
//	      {"id": "2", "type": "ELLIPSE", "fills": [{"type": "SOLID"}]},
//	      {"id": "3", "type": "TEXT"}
//	    ]}
//	  ]
//	}
//
// Paints and strokes are visible unless "visible" is false. Fills may be the
// string "mixed". Styles imported during a run are written back under
// "styles", keyed by style id.
//
// [plugin.Host]: github.com/matzehuels/avatarshuffle/pkg/plugin.Host
package document
