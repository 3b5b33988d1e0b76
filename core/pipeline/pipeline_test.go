package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/fetchpipe/core"
	"github.com/gaurav-prasanna/fetchpipe/core/extract"
	"github.com/gaurav-prasanna/fetchpipe/core/normalize"
)

type stubExtractor struct {
	extraction core.Extraction
}

func (s *stubExtractor) Extract(html, pageURL string) core.Extraction {
	return s.extraction
}

type stubNormalizer struct {
	out string
	err error
}

func (s *stubNormalizer) Normalize(html string) (string, error) {
	return s.out, s.err
}

func newTestPipeline() *Pipeline {
	return New(extract.New(zerolog.Nop()), normalize.New(), zerolog.Nop())
}

func TestRunConvertsToMarkdown(t *testing.T) {
	p := newTestPipeline()

	html := `<html><body><main><h1>Welcome</h1><p>Some <strong>bold</strong> text.</p></main></body></html>`
	out := p.Run(html, "https://example.com", core.FetchOptions{ExtractContent: false})

	assert.Contains(t, out, "# Welcome")
	assert.Contains(t, out, "**bold**")
	assert.NotContains(t, out, "<h1>")
}

func TestRunReturnHTMLSkipsConversion(t *testing.T) {
	p := newTestPipeline()

	html := `<html><body><main><h1>Welcome</h1><p>Text.</p></main></body></html>`
	out := p.Run(html, "https://example.com", core.FetchOptions{ReturnHTML: true})

	assert.Contains(t, out, "<h1>")
	assert.NotContains(t, out, "# Welcome")
}

func TestRunNormalizeErrorDegradesToContent(t *testing.T) {
	p := New(
		&stubExtractor{extraction: core.Extraction{Content: "<p>kept</p>", Outcome: core.OutcomeExtracted}},
		&stubNormalizer{err: errors.New("boom")},
		zerolog.Nop(),
	)

	out := p.Run("<html></html>", "https://example.com", core.FetchOptions{ExtractContent: true})
	assert.Equal(t, "<p>kept</p>", out)
}

func TestRunAppliesMaxLength(t *testing.T) {
	p := New(
		&stubExtractor{extraction: core.Extraction{Content: strings.Repeat("x", 100), Outcome: core.OutcomeExtracted}},
		&stubNormalizer{out: strings.Repeat("y", 100)},
		zerolog.Nop(),
	)

	out := p.Run("irrelevant", "https://example.com", core.FetchOptions{ExtractContent: true, MaxLength: 50})
	require.Len(t, out, 50)
}

func TestTruncate(t *testing.T) {
	t.Run("unbounded when zero", func(t *testing.T) {
		long := strings.Repeat("a", 10000)
		assert.Equal(t, long, Truncate(long, 0))
	})

	t.Run("exact hard cut", func(t *testing.T) {
		out := Truncate(strings.Repeat("a", 100), 50)
		assert.Len(t, []rune(out), 50)
		assert.NotContains(t, out, "...")
	})

	t.Run("shorter input untouched", func(t *testing.T) {
		assert.Equal(t, "short", Truncate("short", 50))
	})

	t.Run("counts code points not bytes", func(t *testing.T) {
		out := Truncate(strings.Repeat("é", 10), 5)
		assert.Equal(t, strings.Repeat("é", 5), out)
	})
}
