package session

import (
	"context"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

func TestBrowserClientOutlivesCallContext(t *testing.T) {
	m := NewManager(Config{}, zerolog.Nop())

	// The first tool call triggers the launch; its context is canceled as
	// soon as the call completes. The shared browser must not die with it.
	callCtx, cancel := context.WithCancel(context.Background())
	cancel()

	b := m.newBrowserClient("ws://127.0.0.1:9222")
	require.NoError(t, b.GetContext().Err())
	assert.NotEqual(t, callCtx, b.GetContext())
}

func TestNewPageRequiresAcquire(t *testing.T) {
	m := NewManager(Config{}, zerolog.Nop())

	_, err := m.NewPage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active browser context")
}

func TestEffectiveDebug(t *testing.T) {
	on, off := true, false

	t.Run("process-wide default", func(t *testing.T) {
		m := NewManager(Config{Debug: true}, zerolog.Nop())
		assert.True(t, m.EffectiveDebug(core.FetchOptions{}))
	})

	t.Run("per-call override wins", func(t *testing.T) {
		m := NewManager(Config{Debug: true}, zerolog.Nop())
		assert.False(t, m.EffectiveDebug(core.FetchOptions{Debug: &off}))

		m = NewManager(Config{Debug: false}, zerolog.Nop())
		assert.True(t, m.EffectiveDebug(core.FetchOptions{Debug: &on}))
	})
}

func TestBlockedResourceType(t *testing.T) {
	blocked := []proto.NetworkResourceType{
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeStylesheet,
		proto.NetworkResourceTypeFont,
		proto.NetworkResourceTypeMedia,
	}
	for _, rt := range blocked {
		assert.True(t, blockedResourceType(rt), string(rt))
	}

	allowed := []proto.NetworkResourceType{
		proto.NetworkResourceTypeDocument,
		proto.NetworkResourceTypeScript,
		proto.NetworkResourceTypeXHR,
		proto.NetworkResourceTypeFetch,
		proto.NetworkResourceTypeWebSocket,
	}
	for _, rt := range allowed {
		assert.False(t, blockedResourceType(rt), string(rt))
	}
}

func TestShouldBlockRespectsMediaSwitch(t *testing.T) {
	bctx := &browserContext{}

	bctx.blockMedia.Store(true)
	assert.True(t, bctx.shouldBlock(proto.NetworkResourceTypeImage))
	assert.True(t, bctx.shouldBlock(proto.NetworkResourceTypeStylesheet))
	assert.False(t, bctx.shouldBlock(proto.NetworkResourceTypeDocument))

	bctx.blockMedia.Store(false)
	assert.False(t, bctx.shouldBlock(proto.NetworkResourceTypeImage))
	assert.False(t, bctx.shouldBlock(proto.NetworkResourceTypeMedia))
}
