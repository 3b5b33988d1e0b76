package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

const sampleMarkdown = `# Title

Intro paragraph with a [link](https://example.com/more).

## Section A

- item one
- item two

` + "```go\nfmt.Println(\"hi\")\n```" + `

## Section B

| a | b |
|---|---|
| 1 | 2 |
`

func TestJSONRendererStructure(t *testing.T) {
	r := NewJSONRenderer()
	meta := core.PageMetadata{URL: "https://example.com/page", Domain: "example.com", Title: "Title"}

	data, err := r.Render(sampleMarkdown, meta)
	require.NoError(t, err)

	var page core.PageJSON
	require.NoError(t, json.Unmarshal(data, &page))

	assert.Equal(t, "https://example.com/page", page.Metadata.URL)
	assert.Equal(t, sampleMarkdown, page.Content.Markdown)

	require.Len(t, page.Structure.Headings, 3)
	assert.Equal(t, 1, page.Structure.Headings[0].Level)
	assert.Equal(t, "Title", page.Structure.Headings[0].Text)

	require.Len(t, page.Structure.Links, 1)
	assert.Equal(t, "https://example.com/more", page.Structure.Links[0].Href)

	assert.Equal(t, 1, page.Structure.CodeBlocks)
	assert.Equal(t, 1, page.Structure.Tables)
	assert.Equal(t, 2, page.Structure.Lists)
}

func TestMarkdownRendererPassthrough(t *testing.T) {
	r := NewMarkdownRenderer()

	data, err := r.Render("# Hi", core.PageMetadata{})
	require.NoError(t, err)
	assert.Equal(t, "# Hi", string(data))
	assert.Equal(t, ".md", r.Extension())
}

func TestPDFRendererProducesDocument(t *testing.T) {
	r := NewPDFRenderer()

	data, err := r.Render(sampleMarkdown, core.PageMetadata{Title: "Title", URL: "https://example.com"})
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, ".pdf", r.Extension())
}
