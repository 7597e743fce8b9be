package model

// Field names used by every output format.
const (
	// FieldActor is the column holding the performer's display name.
	FieldActor = "actor"

	// FieldMovieOrTVName is the column holding the credited work title.
	FieldMovieOrTVName = "movie_or_TV_name"
)

// Association is the unit of output: one performer credited on one work.
// Duplicates are expected when several performers share a work.
type Association struct {
	// Actor is the performer's display name, or the performer page URL
	// when no name could be extracted.
	Actor string `json:"actor"`

	// MovieOrTVName is the title of the credited film or show.
	MovieOrTVName string `json:"movie_or_TV_name"`
}

// Header returns the column names in output order.
func Header() []string {
	return []string{FieldActor, FieldMovieOrTVName}
}

// Row returns the association's values in the order of Header.
func (a Association) Row() []string {
	return []string{a.Actor, a.MovieOrTVName}
}
