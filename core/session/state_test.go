package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	saved := &State{
		Cookies: []*proto.NetworkCookie{
			{Name: "sid", Value: "abc123", Domain: "example.com", Path: "/"},
		},
		SavedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveState(path, saved))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	require.Len(t, loaded.Cookies, 1)
	assert.Equal(t, "sid", loaded.Cookies[0].Name)
	assert.Equal(t, "abc123", loaded.Cookies[0].Value)
	assert.True(t, saved.SavedAt.Equal(loaded.SavedAt))
}

func TestLoadStateMissingFileIsEmpty(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Empty(t, st.Cookies)
}

func TestLoadStateCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadState(path)
	assert.Error(t, err)
}

func TestCookieParams(t *testing.T) {
	cookies := []*proto.NetworkCookie{
		{Name: "a", Value: "1", Domain: "x.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "b", Value: "2", Domain: "y.com", Path: "/p"},
	}

	params := cookieParams(cookies)
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[0].Name)
	assert.True(t, params[0].Secure)
	assert.True(t, params[0].HTTPOnly)
	assert.Equal(t, "y.com", params[1].Domain)
	assert.Equal(t, "/p", params[1].Path)
}
