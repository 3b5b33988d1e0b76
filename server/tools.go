package server

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gaurav-prasanna/fetchpipe/core"
	"github.com/gaurav-prasanna/fetchpipe/core/fetch"
)

// fetchArgs are the option fields shared by fetch_url and fetch_urls.
// Pointers distinguish "absent" from zero; absent or invalid values fall
// back to the documented defaults.
type fetchArgs struct {
	Timeout           *int    `json:"timeout,omitempty"`
	WaitUntil         *string `json:"waitUntil,omitempty"`
	ExtractContent    *bool   `json:"extractContent,omitempty"`
	MaxLength         *int    `json:"maxLength,omitempty"`
	ReturnHTML        *bool   `json:"returnHtml,omitempty"`
	WaitForNavigation *bool   `json:"waitForNavigation,omitempty"`
	NavigationTimeout *int    `json:"navigationTimeout,omitempty"`
	DisableMedia      *bool   `json:"disableMedia,omitempty"`
	Debug             *bool   `json:"debug,omitempty"`
}

type fetchURLArgs struct {
	URL string `json:"url"`
	fetchArgs
}

type fetchURLsArgs struct {
	URLs []string `json:"urls"`
	fetchArgs
}

type closeBrowserArgs struct{}

// buildOptions converts tool arguments into FetchOptions, applying defaults
// for absent fields and ignoring invalid values.
func buildOptions(a fetchArgs) core.FetchOptions {
	opts := fetch.DefaultOptions()
	if a.Timeout != nil && *a.Timeout > 0 {
		opts.Timeout = time.Duration(*a.Timeout) * time.Millisecond
	}
	if a.WaitUntil != nil {
		if w := core.WaitUntil(*a.WaitUntil); w.Valid() {
			opts.WaitUntil = w
		}
	}
	if a.ExtractContent != nil {
		opts.ExtractContent = *a.ExtractContent
	}
	if a.MaxLength != nil && *a.MaxLength > 0 {
		opts.MaxLength = *a.MaxLength
	}
	if a.ReturnHTML != nil {
		opts.ReturnHTML = *a.ReturnHTML
	}
	if a.WaitForNavigation != nil {
		opts.WaitForNavigation = *a.WaitForNavigation
	}
	if a.NavigationTimeout != nil && *a.NavigationTimeout > 0 {
		opts.NavigationTimeout = time.Duration(*a.NavigationTimeout) * time.Millisecond
	}
	if a.DisableMedia != nil {
		opts.DisableMedia = *a.DisableMedia
	}
	opts.Debug = a.Debug
	return opts
}

// optionProperties is the JSON-schema fragment for the shared fetch options.
func optionProperties() map[string]any {
	return map[string]any{
		"timeout": map[string]any{
			"type":        "integer",
			"description": "Navigation timeout in milliseconds (default: 30000)",
		},
		"waitUntil": map[string]any{
			"type":        "string",
			"enum":        []string{"load", "domcontentloaded", "networkidle", "commit"},
			"description": "Navigation signal to wait for (default: load)",
		},
		"extractContent": map[string]any{
			"type":        "boolean",
			"description": "Extract the main article content via readability (default: true)",
		},
		"maxLength": map[string]any{
			"type":        "integer",
			"description": "Maximum content length in characters, 0 = unbounded (default: 0)",
		},
		"returnHtml": map[string]any{
			"type":        "boolean",
			"description": "Return HTML instead of Markdown (default: false)",
		},
		"waitForNavigation": map[string]any{
			"type":        "boolean",
			"description": "Wait for a redirect or challenge navigation after the initial load (default: false)",
		},
		"navigationTimeout": map[string]any{
			"type":        "integer",
			"description": "Timeout for the secondary-navigation wait in milliseconds (default: 10000)",
		},
		"disableMedia": map[string]any{
			"type":        "boolean",
			"description": "Block image/stylesheet/font/media requests (default: true)",
		},
		"debug": map[string]any{
			"type":        "boolean",
			"description": "Run windowed and keep pages open for inspection (overrides the server-wide debug flag)",
		},
	}
}

func (s *Server) registerTools() {
	fetchURLProps := optionProperties()
	fetchURLProps["url"] = map[string]any{
		"type":        "string",
		"description": "URL of the webpage to fetch",
	}
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "fetch_url",
		Description: "Fetch a webpage with a real browser and return its main content as Markdown.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": fetchURLProps,
			"required":   []string{"url"},
		},
	}, s.handleFetchURL)

	fetchURLsProps := optionProperties()
	fetchURLsProps["urls"] = map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "URLs of the webpages to fetch",
	}
	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "fetch_urls",
		Description: "Fetch multiple webpages concurrently with a real browser and return their contents in input order, delimited per page.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": fetchURLsProps,
			"required":   []string{"urls"},
		},
	}, s.handleFetchURLs)

	mcp.AddTool(s.srv, &mcp.Tool{
		Name:        "close_browser",
		Description: "Persist session state and close the shared browser instance.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, s.handleCloseBrowser)
}

func (s *Server) handleFetchURL(ctx context.Context, req *mcp.CallToolRequest, args fetchURLArgs) (*mcp.CallToolResult, any, error) {
	s.log.Info().Str("tool", "fetch_url").Str("url", args.URL).Msg("tool call")
	out, err := s.orch.FetchOne(ctx, args.URL, buildOptions(args.fetchArgs))
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

func (s *Server) handleFetchURLs(ctx context.Context, req *mcp.CallToolRequest, args fetchURLsArgs) (*mcp.CallToolResult, any, error) {
	s.log.Info().Str("tool", "fetch_urls").Int("count", len(args.URLs)).Msg("tool call")
	out, err := s.orch.FetchAll(ctx, args.URLs, buildOptions(args.fetchArgs))
	if err != nil {
		return nil, nil, err
	}
	return textResult(out), nil, nil
}

func (s *Server) handleCloseBrowser(ctx context.Context, req *mcp.CallToolRequest, args closeBrowserArgs) (*mcp.CallToolResult, any, error) {
	s.log.Info().Str("tool", "close_browser").Msg("tool call")
	active, err := s.manager.Cleanup(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !active {
		return textResult("No active browser instance to close."), nil, nil
	}
	return textResult("Browser closed; session state persisted."), nil, nil
}
