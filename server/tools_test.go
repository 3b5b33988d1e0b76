package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestBuildOptionsDefaults(t *testing.T) {
	opts := buildOptions(fetchArgs{})

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, core.WaitUntilLoad, opts.WaitUntil)
	assert.True(t, opts.ExtractContent)
	assert.Equal(t, 0, opts.MaxLength)
	assert.False(t, opts.ReturnHTML)
	assert.False(t, opts.WaitForNavigation)
	assert.Equal(t, 10*time.Second, opts.NavigationTimeout)
	assert.True(t, opts.DisableMedia)
	assert.Nil(t, opts.Debug)
}

func TestBuildOptionsOverrides(t *testing.T) {
	opts := buildOptions(fetchArgs{
		Timeout:           intPtr(5000),
		WaitUntil:         strPtr("networkidle"),
		ExtractContent:    boolPtr(false),
		MaxLength:         intPtr(2000),
		ReturnHTML:        boolPtr(true),
		WaitForNavigation: boolPtr(true),
		NavigationTimeout: intPtr(3000),
		DisableMedia:      boolPtr(false),
		Debug:             boolPtr(true),
	})

	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, core.WaitUntilNetworkIdle, opts.WaitUntil)
	assert.False(t, opts.ExtractContent)
	assert.Equal(t, 2000, opts.MaxLength)
	assert.True(t, opts.ReturnHTML)
	assert.True(t, opts.WaitForNavigation)
	assert.Equal(t, 3*time.Second, opts.NavigationTimeout)
	assert.False(t, opts.DisableMedia)
	if assert.NotNil(t, opts.Debug) {
		assert.True(t, *opts.Debug)
	}
}

func TestBuildOptionsIgnoresInvalidValues(t *testing.T) {
	opts := buildOptions(fetchArgs{
		Timeout:   intPtr(-100),
		WaitUntil: strPtr("eventually"),
		MaxLength: intPtr(0),
	})

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, core.WaitUntilLoad, opts.WaitUntil)
	assert.Equal(t, 0, opts.MaxLength)
}

func TestBuildOptionsDebugFalseOverride(t *testing.T) {
	// An explicit false must survive so it can override a server-wide debug flag.
	opts := buildOptions(fetchArgs{Debug: boolPtr(false)})

	if assert.NotNil(t, opts.Debug) {
		assert.False(t, *opts.Debug)
	}
}

func TestTextResult(t *testing.T) {
	res := textResult("hello")
	assert.Len(t, res.Content, 1)
}
