// Package model defines the data passed between the crawl engine, the
// extraction stages and the output sinks.
//
// The main types are:
//   - Task: a URL waiting to be fetched, tagged with the stage that handles it
//   - Association: one (performer, work) output record
//   - Performer: everything extracted from a single performer page
//
// The types carry no behaviour beyond small helpers so that the crawler,
// pipeline and output packages can share them without import cycles.
package model
