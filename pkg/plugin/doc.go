// Package plugin runs the avatar shuffle against a design document.
//
// A [Runner] handles the run event: it keeps the eligible part of the
// selection, validates the parameters, builds a pick source (library
// styles drawn without repetition, or avatars generated from a custom
// prompt), walks the selection with the traverse engine and closes the
// [Host]. Failures are shown to the user as error notices before the host
// is closed.
//
// # Usage
//
//	runner := plugin.NewRunner(loader, generator, logger)
//	res, err := runner.Run(ctx, doc, plugin.Params{Category: "People"})
package plugin
