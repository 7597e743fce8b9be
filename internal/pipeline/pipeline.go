package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/castcrawl/internal/crawler"
	"github.com/nao1215/castcrawl/internal/model"
)

// Step extracts follow-up tasks and records from one kind of page.
type Step interface {
	// Handle processes a page fetched for the step's stage.
	Handle(ctx context.Context, page *crawler.Page) (crawler.Result, error)

	// Name returns a short name used in logs.
	Name() string
}

// Pipeline dispatches pages to steps by stage.
type Pipeline struct {
	steps  map[model.Stage]Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New returns an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make(map[model.Stage]Step),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Register sets the step for stage, replacing any previous one.
func (p *Pipeline) Register(stage model.Stage, step Step) {
	p.steps[stage] = step
}

// Handle implements crawler.Handler.
func (p *Pipeline) Handle(ctx context.Context, page *crawler.Page) (crawler.Result, error) {
	if err := ctx.Err(); err != nil {
		return crawler.Result{}, err
	}

	stage := page.Task.Stage
	step, ok := p.steps[stage]
	if !ok {
		return crawler.Result{}, fmt.Errorf("%w: %q", ErrNoStep, stage)
	}

	res, err := step.Handle(ctx, page)
	if err != nil {
		return crawler.Result{}, fmt.Errorf("%s: %w", step.Name(), err)
	}

	p.logger.Debug("step completed",
		"step", step.Name(),
		"url", page.URL,
		"tasks", len(res.Tasks),
		"records", len(res.Records),
	)
	return res, nil
}

// Stages returns the registered stages in traversal order.
func (p *Pipeline) Stages() []model.Stage {
	var out []model.Stage
	for _, s := range model.Stages() {
		if _, ok := p.steps[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// StepNames returns the names of the registered steps in traversal order.
func (p *Pipeline) StepNames() []string {
	stages := p.Stages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = p.steps[s].Name()
	}
	return names
}
