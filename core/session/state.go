package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-rod/rod/lib/proto"
)

// State is the persisted session snapshot: the cookies of the shared
// context plus the time they were captured. It is read when a context is
// created and written only by Cleanup.
type State struct {
	Cookies []*proto.NetworkCookie `json:"cookies"`
	SavedAt time.Time              `json:"saved_at"`
}

// DefaultStatePath returns the fixed on-disk location for session state.
func DefaultStatePath() string {
	return filepath.Join(xdg.StateHome, "fetchpipe", "session.json")
}

// LoadState reads the persisted snapshot. A missing file yields an empty
// state, not an error.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	return &st, nil
}

// SaveState writes the snapshot, creating parent directories as needed.
func SaveState(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

// cookieParams converts stored cookies into the parameter form SetCookies
// expects.
func cookieParams(cookies []*proto.NetworkCookie) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite,
			Priority: c.Priority,
		})
	}
	return params
}
