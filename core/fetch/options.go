// Package fetch implements the page fetch unit: it drives one browser page
// through navigation and the content pipeline, turning a URL and options
// into a FetchResult. It never returns an error to its caller; every
// failure is captured inside the result.
package fetch

import (
	"time"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

// Documented option defaults.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultNavigationTimeout = 10 * time.Second
	DefaultWaitUntil         = core.WaitUntilLoad
)

// DefaultOptions returns the documented per-call defaults: extraction on,
// Markdown output, media blocked, unbounded length.
func DefaultOptions() core.FetchOptions {
	return core.FetchOptions{
		Timeout:           DefaultTimeout,
		WaitUntil:         DefaultWaitUntil,
		ExtractContent:    true,
		MaxLength:         0,
		ReturnHTML:        false,
		WaitForNavigation: false,
		NavigationTimeout: DefaultNavigationTimeout,
		DisableMedia:      true,
	}
}

// Normalized returns a copy of opts with absent or invalid numeric fields
// replaced by their defaults. Invalid values never fail a call.
func Normalized(opts core.FetchOptions) core.FetchOptions {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if !opts.WaitUntil.Valid() {
		opts.WaitUntil = DefaultWaitUntil
	}
	if opts.MaxLength < 0 {
		opts.MaxLength = 0
	}
	return opts
}
