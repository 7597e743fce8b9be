package model

import "fmt"

// Stage identifies which extraction step handles a fetched page.
type Stage string

const (
	// StageTitle handles a title page and derives its credits page.
	StageTitle Stage = "title"

	// StageCredits handles a full-credits page and discovers cast members.
	StageCredits Stage = "credits"

	// StagePerformer handles a performer page and emits associations.
	StagePerformer Stage = "performer"
)

// Stages returns all stages in traversal order.
func Stages() []Stage {
	return []Stage{StageTitle, StageCredits, StagePerformer}
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageTitle, StageCredits, StagePerformer:
		return true
	default:
		return false
	}
}

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// Task is a pending fetch. It is the only thing that flows from one stage
// to the next: a stage never calls another stage directly.
type Task struct {
	// URL is the absolute URL to fetch.
	URL string `json:"url"`

	// Stage is the step that handles the fetched page.
	Stage Stage `json:"stage"`

	// Referer is the URL of the page that produced this task.
	// Empty for seeds.
	Referer string `json:"referer,omitempty"`
}

// NewSeed creates a title-stage task for a seed URL.
func NewSeed(url string) Task {
	return Task{URL: url, Stage: StageTitle}
}

// String implements fmt.Stringer for log output.
func (t Task) String() string {
	return fmt.Sprintf("%s %s", t.Stage, t.URL)
}
