package crawler

import (
	"context"

	"github.com/nao1215/castcrawl/internal/markup"
	"github.com/nao1215/castcrawl/internal/model"
)

// Page is a fetched and parsed response handed to a Handler.
type Page struct {
	// Task is the task that produced this page.
	Task model.Task

	// URL is the final URL after redirects.
	URL string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Document is the parsed body.
	Document *markup.Document
}

// Result is what a Handler extracted from a page.
type Result struct {
	// Tasks are scheduled after the page is handled.
	Tasks []model.Task

	// Records are written to the Sink in order.
	Records []model.Association
}

// Handler turns a page into follow-up tasks and records.
type Handler interface {
	Handle(ctx context.Context, page *Page) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, page *Page) (Result, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, page *Page) (Result, error) {
	return f(ctx, page)
}

// Sink receives the records produced by a crawl.
type Sink interface {
	Write(rec model.Association) error
}
