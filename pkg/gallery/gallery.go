package gallery

import (
	"context"
	"sync"

	errs "vkgallery/pkg/errors"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/vk"
)

// Fetcher retrieves the photo records of an album
type Fetcher interface {
	FetchAlbumPhotos(ctx context.Context, req vk.PhotosRequest) (*vk.PhotosResponse, error)
}

// State is the orchestrator's lifecycle position
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRendered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome classifies a Result
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeNoAlbum
	OutcomeFetchFailed
	OutcomeParseFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeNoAlbum:
		return "no_album"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeParseFailed:
		return "parse_failed"
	}
	return "unknown"
}

// GeneratedEvent is delivered to listeners after a successful render
type GeneratedEvent struct {
	Album    Album
	Fragment Fragment
	Options  Options
	// Content is the text the album link was found in
	Content string
}

// Result reports how one Handle call ended
type Result struct {
	Outcome  Outcome
	Album    Album
	Fragment Fragment
	Err      error
}

// OK reports whether a fragment was produced
func (r Result) OK() bool {
	return r.Outcome == OutcomeRendered
}

// Gallery turns content holding an album link into gallery markup.
//
// The album identity is resolved from the first content that contains a
// link and is kept for the life of the instance. Every Handle call after
// that fetches and renders the same album.
type Gallery struct {
	mu        sync.Mutex
	fetcher   Fetcher
	opts      Options
	album     *Album
	content   string
	state     State
	// gen counts Handle calls that reached a fetch. Only the latest may
	// move state out of Fetching.
	gen       uint64
	listeners []func(GeneratedEvent)
	logger    logger.Logger
}

// New creates a gallery with the defaults overlaid by opts
func New(fetcher Fetcher, opts Overrides, log logger.Logger) *Gallery {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Gallery{
		fetcher: fetcher,
		opts:    DefaultOptions().Merge(opts),
		state:   StateIdle,
		logger:  log.WithField("component", "gallery"),
	}
}

// SetOptions overlays o onto the current options
func (g *Gallery) SetOptions(o Overrides) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opts = g.opts.Merge(o)
}

// Options returns a copy of the current options
func (g *Gallery) Options() Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts.Merge(Overrides{})
}

// OnGenerated registers a listener for rendered fragments. Listeners run on
// the goroutine that completes the fetch.
func (g *Gallery) OnGenerated(fn func(GeneratedEvent)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Album returns the resolved album identity, if any
func (g *Gallery) Album() (Album, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.album == nil {
		return Album{}, false
	}
	return *g.album, true
}

// State returns the current lifecycle state
func (g *Gallery) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Handle resolves the album from content if not yet known, then fetches and
// renders it in the background. The returned channel yields exactly one
// Result and is then closed. When no album can be resolved nothing is
// fetched and the Result is OutcomeNoAlbum.
func (g *Gallery) Handle(ctx context.Context, content string) <-chan Result {
	results := make(chan Result, 1)

	album, opts, gen, ok := g.begin(content)
	if !ok {
		g.logger.Debug("no album link found in content")
		results <- Result{Outcome: OutcomeNoAlbum}
		close(results)
		return results
	}

	go func() {
		defer close(results)
		results <- g.fetchAndRender(ctx, album, opts, gen)
	}()

	return results
}

// Generate is the blocking form of Handle
func (g *Gallery) Generate(ctx context.Context, content string) Result {
	return <-g.Handle(ctx, content)
}

// begin resolves identity once and moves to Fetching
func (g *Gallery) begin(content string) (Album, Options, uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.album == nil {
		album, ok := ParseAlbum(content)
		if !ok {
			return Album{}, Options{}, 0, false
		}
		g.album = &album
		g.content = content
		g.logger.InfoWithFields("album resolved", map[string]interface{}{
			"owner_id": album.OwnerID,
			"album_id": album.AlbumID,
		})
	}

	g.gen++
	g.setState(StateFetching)
	return *g.album, g.opts.Merge(Overrides{}), g.gen, true
}

func (g *Gallery) fetchAndRender(ctx context.Context, album Album, opts Options, gen uint64) Result {
	resp, err := g.fetcher.FetchAlbumPhotos(ctx, vk.PhotosRequest{
		OwnerID: album.OwnerID,
		AlbumID: album.AlbumID,
		Rev:     int(opts.Order),
	})
	if err != nil {
		outcome := OutcomeFetchFailed
		if errs.Is(err, errs.ErrorTypeParsing) {
			outcome = OutcomeParseFailed
		}

		g.mu.Lock()
		g.finish(gen, StateFailed)
		g.mu.Unlock()

		g.logger.WithError(err).WarnWithFields("album fetch failed", map[string]interface{}{
			"album":   album.String(),
			"outcome": outcome.String(),
		})
		return Result{Outcome: outcome, Album: album, Err: err}
	}

	frag := Render(resp.Photos, album, opts)
	logger.LogRender(g.logger, album.String(), frag.Rendered, frag.Dropped)

	g.mu.Lock()
	g.finish(gen, StateRendered)
	listeners := make([]func(GeneratedEvent), len(g.listeners))
	copy(listeners, g.listeners)
	content := g.content
	g.mu.Unlock()

	event := GeneratedEvent{Album: album, Fragment: frag, Options: opts, Content: content}
	for _, fn := range listeners {
		fn(event)
	}

	return Result{Outcome: OutcomeRendered, Album: album, Fragment: frag}
}

// finish records the end state of fetch gen unless a later Handle call
// has started since. Must be called with mu held.
func (g *Gallery) finish(gen uint64, s State) {
	if gen != g.gen {
		g.logger.DebugWithFields("stale fetch finished", map[string]interface{}{
			"generation": gen,
			"latest":     g.gen,
			"state":      s.String(),
		})
		return
	}
	g.setState(s)
}

// setState must be called with mu held
func (g *Gallery) setState(s State) {
	if g.state == s {
		return
	}
	g.logger.DebugWithFields("state changed", map[string]interface{}{
		"from": g.state.String(),
		"to":   s.String(),
	})
	g.state = s
}
