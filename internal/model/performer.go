package model

// Performer is the data extracted from one performer page.
type Performer struct {
	// Name is the display name. It falls back to URL and is never empty
	// for a performer returned by the extractor.
	Name string

	// URL is the performer page URL.
	URL string

	// Works are the titles of acting credits in page order.
	Works []string
}

// Associations expands the performer into one record per credited work.
func (p Performer) Associations() []Association {
	out := make([]Association, 0, len(p.Works))
	for _, w := range p.Works {
		out = append(out, Association{Actor: p.Name, MovieOrTVName: w})
	}
	return out
}
