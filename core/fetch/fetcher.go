package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/fetchpipe/core"
	"github.com/gaurav-prasanna/fetchpipe/core/pipeline"
)

// PageFetcher turns one page handle + URL + options into a FetchResult,
// isolating all failures. Fetch never returns an error.
type PageFetcher struct {
	pipeline *pipeline.Pipeline
	log      zerolog.Logger
}

// New creates a PageFetcher over the given content pipeline.
func New(p *pipeline.Pipeline, log zerolog.Logger) *PageFetcher {
	return &PageFetcher{
		pipeline: p,
		log:      log.With().Str("component", "fetch").Logger(),
	}
}

// lifecycleEvent maps a WaitUntil signal to the rod lifecycle event to wait
// for. Commit needs no extra wait: Navigate returns once the navigation
// response commits.
func lifecycleEvent(w core.WaitUntil) (proto.PageLifecycleEventName, bool) {
	switch w {
	case core.WaitUntilDOMContentLoaded:
		return proto.PageLifecycleEventNameDOMContentLoaded, true
	case core.WaitUntilNetworkIdle:
		return proto.PageLifecycleEventNameNetworkAlmostIdle, true
	case core.WaitUntilCommit:
		return "", false
	default:
		return proto.PageLifecycleEventNameLoad, true
	}
}

// Fetch navigates the page to rawURL, runs the content pipeline over the
// rendered markup, and returns a structured result. Navigation failures,
// deadline overruns and empty content all become success=false results.
func (f *PageFetcher) Fetch(ctx context.Context, page *rod.Page, rawURL string, opts core.FetchOptions) core.FetchResult {
	opts = Normalized(opts)

	navCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	p := page.Context(navCtx)

	var wait func()
	if event, ok := lifecycleEvent(opts.WaitUntil); ok {
		wait = p.WaitNavigation(event)
	}
	if err := p.Navigate(rawURL); err != nil {
		f.log.Debug().Err(err).Str("url", rawURL).Msg("navigation failed")
		return Failure(rawURL, fmt.Sprintf("navigation failed: %v", err))
	}
	if wait != nil {
		wait()
	}
	if navCtx.Err() != nil {
		f.log.Debug().Str("url", rawURL).Dur("timeout", opts.Timeout).Msg("navigation timed out")
		return Failure(rawURL, fmt.Sprintf("navigation timed out after %s", opts.Timeout))
	}

	// An optional secondary navigation (redirect, challenge completion).
	// Timing out here means no further navigation occurred; fetching
	// proceeds with whatever the page currently holds.
	if opts.WaitForNavigation {
		waitCtx, cancelWait := context.WithTimeout(ctx, opts.NavigationTimeout)
		secondary := page.Context(waitCtx).WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		secondary()
		cancelWait()
		f.log.Debug().Str("url", rawURL).Msg("secondary-navigation wait finished")
	}

	title := ""
	if info, err := page.Info(); err == nil {
		title = info.Title
	}

	html, err := page.HTML()
	if err != nil {
		return Failure(rawURL, fmt.Sprintf("reading page content: %v", err))
	}
	if strings.TrimSpace(html) == "" {
		return Failure(rawURL, "page returned empty content")
	}

	body := f.pipeline.Run(html, rawURL, opts)

	return core.FetchResult{
		Success: true,
		Title:   title,
		Body:    body,
		Content: fmt.Sprintf("Title: %s\nURL: %s\nContent:\n\n%s", title, rawURL, body),
	}
}

// Failure builds the soft-failure result: success=false, but still a
// well-formed text body so downstream consumers treat every response
// uniformly as text.
func Failure(rawURL string, msg string) core.FetchResult {
	return core.FetchResult{
		Success: false,
		Error:   msg,
		Content: fmt.Sprintf("Title: Error\nURL: %s\nContent:\n\nFailed to fetch page: %s", rawURL, msg),
	}
}
