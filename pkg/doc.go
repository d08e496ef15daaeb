// Package pkg provides the libraries behind avatarshuffle, which fills the
// selected shapes of a design document with random avatar styles or
// generated avatar images.
//
// # Overview
//
// The packages fall into four groups:
//
//  1. Core: [node], [eligibility], [selection], [stylecache], [traverse]
//  2. Sources: [style], [catalog], [avatar], [integrations]
//  3. Orchestration: [plugin], [document], [suggest], [history]
//  4. Infrastructure: [storage], [config], [errors], [httputil],
//     [observability], [server], [buildinfo]
//
// # Architecture
//
// A run flows through the packages like this:
//
//	host selection
//	       ↓
//	[node] kinds filter the selection
//	       ↓
//	[catalog] styles  or  [avatar] generated images
//	       ↓
//	[selection] draws picks without repeats
//	       ↓
//	[traverse] walks containers, applying [eligibility] rules
//	       ↓
//	[stylecache] imports each style once, host applies fills
//
// # Quick Start
//
// Apply random People styles to a JSON document:
//
//	doc, _ := document.ReadFile("team.json")
//	runner := plugin.NewRunner(nil, nil, log.Default())
//	res, err := runner.Run(ctx, doc, plugin.Params{Category: "People"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Report)
//	_ = doc.WriteFile("team.json")
//
// With a nil catalog the runner uses the built-in styles from
// [style.Fallback]; with a nil generator custom prompts are rejected.
package pkg
