// Package pipeline is the pure transformation from rendered markup to the
// final text payload: optional main-content extraction, optional
// HTML→Markdown conversion, optional length truncation.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

// Pipeline composes the extraction and normalization stages. Run never
// fails: extraction degrades to the full document and a conversion error
// degrades to the unconverted content.
type Pipeline struct {
	extractor  core.Extractor
	normalizer core.Normalizer
	log        zerolog.Logger
}

// New creates a Pipeline over the given collaborators.
func New(extractor core.Extractor, normalizer core.Normalizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		normalizer: normalizer,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Run transforms raw markup into the final text per the options. The output
// is always a single string.
func (p *Pipeline) Run(html string, pageURL string, opts core.FetchOptions) string {
	content := html

	if opts.ExtractContent {
		extraction := p.extractor.Extract(html, pageURL)
		content = extraction.Content
		if extraction.Outcome == core.OutcomeFullDocument {
			p.log.Debug().Str("url", pageURL).Msg("extraction degraded to full document")
		}
	}

	if !opts.ReturnHTML {
		markdown, err := p.normalizer.Normalize(content)
		if err != nil {
			p.log.Warn().Err(err).Str("url", pageURL).Msg("markdown conversion failed, returning unconverted content")
		} else {
			content = markdown
		}
	}

	return Truncate(content, opts.MaxLength)
}

// Truncate hard-cuts text to at most maxLength characters (code points).
// No ellipsis, no word-boundary adjustment: the contract is
// length-deterministic. maxLength <= 0 means unbounded.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength])
}
