package crawler

import (
	"fmt"
	"time"
)

// Stats summarizes a crawl run.
type Stats struct {
	// PagesFetched counts pages fetched and parsed successfully.
	PagesFetched int

	// PagesFailed counts tasks lost to network, status, parse or handler errors.
	PagesFailed int

	// RobotsBlocked counts tasks skipped because robots.txt disallowed them.
	RobotsBlocked int

	// Records counts records written to the sink.
	Records int

	// Dropped counts queued tasks never processed because of the page cap
	// or cancellation.
	Dropped int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d pages fetched, %d failed, %d blocked by robots.txt, %d dropped, %d records in %s",
		s.PagesFetched, s.PagesFailed, s.RobotsBlocked, s.Dropped, s.Records, s.Elapsed.Round(time.Millisecond))
}
