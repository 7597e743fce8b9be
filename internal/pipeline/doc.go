// Package pipeline wires extraction steps to crawl stages.
//
// A Pipeline maps each model.Stage to a Step and implements
// crawler.Handler by dispatching every fetched page to the step registered
// for the stage its task was tagged with. Steps share no state; the only
// thing that flows between them is the model.Task they return.
//
// NewIMDb builds the three-stage IMDb traversal:
//
//	title page -> full credits page -> performer page -> associations
//
// Spiders are registered by name (see Lookup) so the CLI can select one.
package pipeline
