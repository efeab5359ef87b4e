package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/page"
)

// OutputStore persists rendered documents
type OutputStore interface {
	OutputName(input string) string
	IsRendered(name string) bool
	Save(r io.Reader, name string) (string, error)
}

// Renderer turns input documents into documents with their album link
// replaced by a gallery
type Renderer struct {
	fetcher      gallery.Fetcher
	options      gallery.Overrides
	format       page.Format
	fragmentOnly bool
	store        OutputStore
	logger       logger.Logger
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithFormat fixes the input format instead of detecting it
func WithFormat(format page.Format) RendererOption {
	return func(r *Renderer) { r.format = format }
}

// WithFragmentOnly writes just the gallery markup instead of the document
func WithFragmentOnly(fragmentOnly bool) RendererOption {
	return func(r *Renderer) { r.fragmentOnly = fragmentOnly }
}

// WithStore sets where Process writes its output
func WithStore(store OutputStore) RendererOption {
	return func(r *Renderer) { r.store = store }
}

// NewRenderer creates a renderer fetching through fetcher
func NewRenderer(fetcher gallery.Fetcher, options gallery.Overrides, log logger.Logger, opts ...RendererOption) *Renderer {
	if log == nil {
		log = logger.GetLogger()
	}
	r := &Renderer{
		fetcher: fetcher,
		options: options,
		format:  page.FormatAuto,
		logger:  log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetStore sets where Process writes its output
func (r *Renderer) SetStore(store OutputStore) {
	r.store = store
}

// FragmentOnly reports whether Render returns just the gallery markup
func (r *Renderer) FragmentOnly() bool {
	return r.fragmentOnly
}

// Render processes one document. Every document gets its own gallery, so
// each resolves its own album.
func (r *Renderer) Render(ctx context.Context, name string, src []byte) (string, gallery.Result, error) {
	doc, err := page.Read(src, page.DetectFormat(name, r.format))
	if err != nil {
		return "", gallery.Result{}, err
	}

	g := gallery.New(r.fetcher, r.options, r.logger.WithField("input", name))
	selector := g.Options().ContainerSelector

	content, ok := doc.Container(selector)
	if !ok {
		return "", gallery.Result{Outcome: gallery.OutcomeNoAlbum}, nil
	}

	var applied bool
	g.OnGenerated(func(event gallery.GeneratedEvent) {
		applied = page.Apply(doc, selector, event)
	})

	result := g.Generate(ctx, content)
	if !result.OK() {
		return "", result, nil
	}

	if r.fragmentOnly {
		return result.Fragment.HTML, result, nil
	}
	if !applied {
		return "", result, fmt.Errorf("container %q lost its album link", selector)
	}

	out, err := doc.HTML()
	if err != nil {
		return "", result, fmt.Errorf("failed to render document: %w", err)
	}
	return out, result, nil
}

// Process reads job.Input, renders it and saves the output
func (r *Renderer) Process(ctx context.Context, job Job) Result {
	result := Result{Job: job}
	if r.store == nil {
		result.Error = fmt.Errorf("no output store configured")
		return result
	}

	name := r.store.OutputName(job.Input)
	if r.store.IsRendered(name) {
		result.Skipped = true
		result.Reason = "output exists"
		return result
	}

	src, err := os.ReadFile(job.Input)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	out, gr, err := r.Render(ctx, job.Input, src)
	result.Outcome = gr.Outcome
	result.Rendered = gr.Fragment.Rendered
	result.Dropped = gr.Fragment.Dropped
	if err != nil {
		result.Error = err
		return result
	}

	switch gr.Outcome {
	case gallery.OutcomeRendered:
	case gallery.OutcomeNoAlbum:
		result.Skipped = true
		result.Reason = "no album link"
		return result
	default:
		result.Error = fmt.Errorf("%s: %w", gr.Outcome, gr.Err)
		return result
	}

	path, err := r.store.Save(strings.NewReader(out), name)
	if err != nil {
		result.Error = err
		return result
	}
	result.Output = path
	return result
}
