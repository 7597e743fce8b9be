package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nao1215/castcrawl/internal/imdb"
	"github.com/nao1215/castcrawl/internal/model"
)

// Options configures the steps of a spider pipeline.
type Options struct {
	// BaseURL is the origin cast links are resolved against.
	// Empty means imdb.DefaultBaseURL.
	BaseURL string

	// CreditCategories are the filmography row categories emitted.
	// Empty means actor only.
	CreditCategories []string

	// Logger is used by the pipeline and its steps.
	Logger *slog.Logger
}

// NewIMDb returns the title -> credits -> performer pipeline.
func NewIMDb(opts Options) *Pipeline {
	p := New(WithLogger(opts.Logger))
	p.Register(model.StageTitle, TitleStep{})
	p.Register(model.StageCredits, CreditsStep{BaseURL: opts.BaseURL})
	p.Register(model.StagePerformer, PerformerStep{
		Categories: opts.CreditCategories,
		Logger:     p.logger,
	})
	return p
}

// Spider is a named crawl: a pipeline factory and the seeds used when the
// user gives none.
type Spider struct {
	Name         string
	Description  string
	DefaultSeeds []string
	New          func(Options) *Pipeline
}

var spiders = map[string]Spider{
	"imdb_spider": {
		Name:         "imdb_spider",
		Description:  "IMDb title -> full credits -> performer filmography",
		DefaultSeeds: []string{imdb.DefaultSeedURL},
		New:          NewIMDb,
	},
}

// Lookup returns the spider registered under name.
func Lookup(name string) (Spider, error) {
	s, ok := spiders[name]
	if !ok {
		return Spider{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSpider, name, SpiderNames())
	}
	return s, nil
}

// SpiderNames returns the registered spider names, sorted.
func SpiderNames() []string {
	names := make([]string, 0, len(spiders))
	for name := range spiders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
