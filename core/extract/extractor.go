// Package extract implements the Extractor interface.
// It isolates the main article content from rendered HTML using readability,
// falling back to a noise-stripped full document when no article is found.
// The fallback is a recoverable degradation, never an error.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

// noiseSelectors are HTML elements removed from the full-document fallback.
// These contribute no meaningful content to the page text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// ReadabilityExtractor extracts main content via readability with a
// cleaned-full-document fallback.
type ReadabilityExtractor struct {
	log zerolog.Logger
}

// New creates a ReadabilityExtractor.
func New(log zerolog.Logger) *ReadabilityExtractor {
	return &ReadabilityExtractor{log: log.With().Str("component", "extract").Logger()}
}

// Extract runs readability against the markup with the source URL as base.
// When extraction yields no article the unmodified document is cleaned of
// noise elements and returned with the OutcomeFullDocument tag.
func (e *ReadabilityExtractor) Extract(html string, pageURL string) core.Extraction {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		e.log.Warn().Err(err).Str("url", pageURL).Msg("no article found, falling back to full document")
		return core.Extraction{
			Content: cleanDocument(html),
			Outcome: core.OutcomeFullDocument,
		}
	}

	return core.Extraction{
		Content: article.Content,
		Outcome: core.OutcomeExtracted,
		Title:   article.Title,
	}
}

// cleanDocument strips noise elements from the full markup. If the document
// cannot even be parsed, the raw markup is returned unchanged; this stage
// never fails outright.
func cleanDocument(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	// Prefer the most semantically specific container still present.
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			if out, err := goquery.OuterHtml(sel.First()); err == nil {
				return out
			}
		}
	}
	return html
}
