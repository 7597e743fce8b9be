// Package crawler runs the fetch loop that drives a crawl.
//
// # Architecture
//
// A single coordinator goroutine owns the queue of model.Task values. It
// hands tasks to at most Concurrency workers (an errgroup with SetLimit).
// A worker fetches the task's URL, parses it into a markup.Document and
// passes the resulting Page to the Handler. Follow-up tasks go back to the
// coordinator over a channel; records are written to the Sink by the worker.
//
// # Politeness
//
//   - a global minimum interval between requests (WithDelay)
//   - per-host LimitRules matched by glob, each with its own parallelism and delay
//   - robots.txt, fetched once per host and cached for the run
//   - an optional cap on the number of tasks processed (WithMaxPages)
//
// # Failures
//
// A task whose fetch, parse or handler fails is logged and skipped; the
// crawl goes on with the remaining tasks. A Sink error aborts the run.
// Canceling the context stops scheduling, waits for in-flight workers and
// returns the context error together with the Stats collected so far.
package crawler
