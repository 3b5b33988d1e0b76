// Package core defines the shared types and pipeline interfaces for FetchPipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "time"

// WaitUntil selects the navigation signal a fetch waits for before reading
// the rendered page.
type WaitUntil string

const (
	// WaitUntilLoad waits for the page load event (the default).
	WaitUntilLoad WaitUntil = "load"
	// WaitUntilDOMContentLoaded waits for DOMContentLoaded only.
	WaitUntilDOMContentLoaded WaitUntil = "domcontentloaded"
	// WaitUntilNetworkIdle waits until the network is (almost) idle.
	WaitUntilNetworkIdle WaitUntil = "networkidle"
	// WaitUntilCommit returns as soon as the navigation response commits.
	WaitUntilCommit WaitUntil = "commit"
)

// Valid reports whether w is one of the known navigation signals.
func (w WaitUntil) Valid() bool {
	switch w {
	case WaitUntilLoad, WaitUntilDOMContentLoaded, WaitUntilNetworkIdle, WaitUntilCommit:
		return true
	}
	return false
}

// FetchOptions is the per-call configuration for a fetch. Zero or invalid
// fields fall back to documented defaults instead of failing; use
// (FetchOptions).Normalized before handing it to the fetch unit.
type FetchOptions struct {
	Timeout           time.Duration // navigation deadline
	WaitUntil         WaitUntil     // navigation signal to wait for
	ExtractContent    bool          // run readability extraction
	MaxLength         int           // max content length in runes, 0 = unbounded
	ReturnHTML        bool          // skip Markdown conversion
	WaitForNavigation bool          // wait for a secondary navigation after load
	NavigationTimeout time.Duration // bound for the secondary-navigation wait
	DisableMedia      bool          // abort image/stylesheet/font/media requests
	Debug             *bool         // overrides the process-wide debug flag when set
}

// FetchResult is the outcome of fetching one URL. Content is always a
// well-formed text body, even when Success is false.
type FetchResult struct {
	Success bool
	Content string // formatted text block (header + body)
	Error   string // present iff Success is false
	Index   int    // position in the originating request list
	Title   string // page title as reported by the browser
	Body    string // pipeline output without the header, for renderers
}

// ExtractOutcome tags how the extraction stage produced its content, so the
// fallback policy stays visible instead of hiding behind an empty string.
type ExtractOutcome string

const (
	// OutcomeExtracted means readability found an article.
	OutcomeExtracted ExtractOutcome = "extracted"
	// OutcomeFullDocument means extraction found no article and the cleaned
	// full document was used instead. A recoverable degradation, not an error.
	OutcomeFullDocument ExtractOutcome = "full-document"
)

// Extraction holds the content produced by the extraction stage and the
// outcome tag describing how it was obtained.
type Extraction struct {
	Content string
	Outcome ExtractOutcome
	Title   string // article title when extracted, empty otherwise
}

// Extractor pulls the main content from rendered HTML.
type Extractor interface {
	Extract(html string, pageURL string) Extraction
}

// Normalizer converts HTML into Markdown (the canonical text format).
type Normalizer interface {
	Normalize(html string) (string, error)
}

// PageMetadata holds metadata attached to rendered CLI outputs.
type PageMetadata struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Language  string `json:"language"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Section represents a heading-delimited section of content.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// PageContent holds the text and structured content of a page.
type PageContent struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Sections []Section `json:"sections"`
}

// PageStructure holds structural metadata parsed from the content.
type PageStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	Lists      int       `json:"lists"`
}

// PageJSON is the complete JSON output for a single page.
type PageJSON struct {
	Metadata  PageMetadata  `json:"metadata"`
	Content   PageContent   `json:"content"`
	Structure PageStructure `json:"structure"`
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
