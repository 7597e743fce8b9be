package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/castcrawl/internal/crawler"
	"github.com/nao1215/castcrawl/internal/imdb"
	"github.com/nao1215/castcrawl/internal/model"
)

// TitleStep turns a title page into a single credits task.
// The credits URL is built from the requested URL, not the page content.
type TitleStep struct{}

// Name implements Step.
func (TitleStep) Name() string { return "title" }

// Handle implements Step.
func (TitleStep) Handle(_ context.Context, page *crawler.Page) (crawler.Result, error) {
	return crawler.Result{
		Tasks: []model.Task{{
			URL:     imdb.CreditsURL(page.Task.URL),
			Stage:   model.StageCredits,
			Referer: page.URL,
		}},
	}, nil
}

// CreditsStep turns a full credits page into one performer task per cast entry.
type CreditsStep struct {
	// BaseURL is the origin cast links are resolved against.
	BaseURL string
}

// Name implements Step.
func (CreditsStep) Name() string { return "credits" }

// Handle implements Step.
func (s CreditsStep) Handle(_ context.Context, page *crawler.Page) (crawler.Result, error) {
	links := imdb.CastLinks(page.Document, s.BaseURL)

	tasks := make([]model.Task, 0, len(links))
	for _, link := range links {
		tasks = append(tasks, model.Task{
			URL:     link,
			Stage:   model.StagePerformer,
			Referer: page.URL,
		})
	}
	return crawler.Result{Tasks: tasks}, nil
}

// PerformerStep emits one association per qualifying filmography row.
type PerformerStep struct {
	// Categories are the credit categories that count; empty means actor only.
	Categories []string

	// Logger receives a debug line per performer. Nil means slog.Default().
	Logger *slog.Logger
}

// Name implements Step.
func (PerformerStep) Name() string { return "performer" }

// Handle implements Step.
func (s PerformerStep) Handle(_ context.Context, page *crawler.Page) (crawler.Result, error) {
	performer := imdb.Filmography(page.Document, page.URL, s.Categories)

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("performer parsed", "actor", performer.Name, "works", len(performer.Works))

	return crawler.Result{Records: performer.Associations()}, nil
}
