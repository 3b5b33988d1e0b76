// Package orchestrate fans a URL list out into concurrent page fetches
// sharing one browser context, then linearizes the results back into the
// callers' original order.
package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/fetchpipe/core"
	"github.com/gaurav-prasanna/fetchpipe/core/fetch"
)

// Session is the browser/context surface the orchestrator needs. The
// session manager implements it.
type Session interface {
	Acquire(ctx context.Context, opts core.FetchOptions) error
	NewPage(ctx context.Context) (*rod.Page, error)
	ClosePage(page *rod.Page)
	EffectiveDebug(opts core.FetchOptions) bool
}

// Fetcher runs one page fetch. The page fetch unit implements it.
type Fetcher interface {
	Fetch(ctx context.Context, page *rod.Page, url string, opts core.FetchOptions) core.FetchResult
}

// Orchestrator coordinates session acquisition, concurrent per-URL fetch
// tasks and result ordering.
type Orchestrator struct {
	session Session
	fetcher Fetcher
	log     zerolog.Logger
}

// New creates an Orchestrator.
func New(session Session, fetcher Fetcher, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		session: session,
		fetcher: fetcher,
		log:     log.With().Str("component", "orchestrate").Logger(),
	}
}

// FetchOne fetches a single URL and returns its formatted text block. An
// empty URL is a caller error, signaled before any browser work begins.
func (o *Orchestrator) FetchOne(ctx context.Context, rawURL string, opts core.FetchOptions) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("url parameter is required")
	}
	results, err := o.FetchDocuments(ctx, []string{rawURL}, opts)
	if err != nil {
		return "", err
	}
	return results[0].Content, nil
}

// FetchAll fetches every URL concurrently and concatenates the results in
// the original list order, each wrapped in [webpage N begin]/[webpage N end]
// delimiters with N the 1-based output position.
func (o *Orchestrator) FetchAll(ctx context.Context, urls []string, opts core.FetchOptions) (string, error) {
	results, err := o.FetchDocuments(ctx, urls, opts)
	if err != nil {
		return "", err
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[webpage %d begin]\n%s\n[webpage %d end]", i+1, r.Content, i+1)
	}
	return strings.Join(blocks, "\n\n"), nil
}

// FetchDocuments runs the fan-out and returns one result per input URL, in
// input order. Every per-URL task is independently fault-isolated: a
// failure becomes that slot's result and never aborts siblings. Only an
// empty URL list and an unrecoverable browser acquisition escalate as
// errors.
func (o *Orchestrator) FetchDocuments(ctx context.Context, urls []string, opts core.FetchOptions) ([]core.FetchResult, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("urls parameter is required and must be a non-empty list")
	}

	opts = fetch.Normalized(opts)
	if err := o.session.Acquire(ctx, opts); err != nil {
		return nil, err
	}
	debug := o.session.EffectiveDebug(opts)

	// Results land in a fixed-size arena indexed by origin position, so no
	// post-hoc sort is needed to restore input order.
	results := make([]core.FetchResult, len(urls))

	var g errgroup.Group
	for i, rawURL := range urls {
		g.Go(func() error {
			page, err := o.session.NewPage(ctx)
			if err != nil {
				results[i] = fetch.Failure(rawURL, fmt.Sprintf("creating page: %v", err))
				results[i].Index = i
				return nil
			}
			res := o.fetcher.Fetch(ctx, page, rawURL, opts)
			res.Index = i
			results[i] = res
			if !debug {
				o.session.ClosePage(page)
			}
			return nil
		})
	}
	// Tasks never return errors; Wait is just the join point.
	_ = g.Wait()

	if debug {
		o.log.Debug().Int("pages", len(urls)).Msg("debug mode: pages left open for inspection")
	}
	return results, nil
}
