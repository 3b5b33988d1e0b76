package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
	"github.com/ysmood/gson"

	"github.com/gaurav-prasanna/fetchpipe/core"
)

// Config controls the manager's process-wide behavior.
type Config struct {
	Debug     bool   // windowed browser + suppressed teardown, unless overridden per call
	Bin       string // optional browser binary path; empty lets the launcher resolve one
	StatePath string // session-state location; empty uses DefaultStatePath
}

// Manager owns the shared browser process and its single browsing context.
// Browser and context are created lazily, at most once between Cleanup
// calls; concurrent callers observe one shared instance.
type Manager struct {
	cfg Config
	log zerolog.Logger

	// ctx is the browser's lifecycle context. The browser must outlive the
	// call that happened to launch it, so it never binds a per-call context.
	ctx context.Context

	mu       sync.Mutex
	rnd      *rand.Rand
	browser  *rod.Browser
	launcher *launcher.Launcher
	bctx     *browserContext
}

// browserContext is the shared sandbox every page inherits: the fingerprint
// presented to sites, the request-interception router, and the media-block
// switch the current call configures.
type browserContext struct {
	fingerprint Fingerprint
	router      *rod.HijackRouter
	blockMedia  atomic.Bool
}

// NewManager creates a Manager. Nothing is launched until the first Acquire.
func NewManager(cfg Config, log zerolog.Logger) *Manager {
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath()
	}
	return &Manager{
		cfg: cfg,
		log: log.With().Str("component", "session").Logger(),
		ctx: context.Background(),
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EffectiveDebug resolves the debug flag for one call: the per-call override
// wins over the process-wide setting.
func (m *Manager) EffectiveDebug(opts core.FetchOptions) bool {
	if opts.Debug != nil {
		return *opts.Debug
	}
	return m.cfg.Debug
}

// Acquire makes sure the shared browser and context exist and configures the
// context's media blocking for the current call. An unrecoverable launch
// failure is the one error that escalates to the caller. ctx scopes only
// this call; the browser it may launch lives until Cleanup.
func (m *Manager) Acquire(ctx context.Context, opts core.FetchOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureBrowserLocked(m.EffectiveDebug(opts)); err != nil {
		return err
	}
	if err := m.ensureContextLocked(); err != nil {
		return err
	}
	m.bctx.blockMedia.Store(opts.DisableMedia)
	return nil
}

// Active reports whether a browser is currently live.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// ensureBrowserLocked launches the browser if needed. Caller holds m.mu.
func (m *Manager) ensureBrowserLocked(debug bool) error {
	if m.browser != nil {
		return nil
	}

	fp := RandomFingerprint(m.rnd)

	l := launcher.New().
		Headless(!debug).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", fmt.Sprintf("%d,%d", fp.Width, fp.Height))
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := m.newBrowserClient(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = l
	m.bctx = &browserContext{fingerprint: fp}
	m.log.Debug().
		Str("userAgent", fp.UserAgent).
		Int("width", fp.Width).Int("height", fp.Height).
		Bool("headless", !debug).
		Msg("browser launched")
	return nil
}

// newBrowserClient builds the rod client bound to the manager's lifecycle
// context. Binding the per-call context instead would cancel the shared
// browser (and the hijack router riding on it) the moment that call
// completed, killing every later page, fetch and cookie snapshot.
func (m *Manager) newBrowserClient(controlURL string) *rod.Browser {
	return rod.New().ControlURL(controlURL).Context(m.ctx)
}

// ensureContextLocked configures the shared context on first use: persisted
// cookies are restored and the interception router installed. Caller holds
// m.mu and a live browser.
func (m *Manager) ensureContextLocked() error {
	if m.bctx.router != nil {
		return nil
	}

	st, err := LoadState(m.cfg.StatePath)
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.cfg.StatePath).Msg("session state unreadable, starting empty")
		st = &State{}
	}
	if len(st.Cookies) > 0 {
		if err := m.browser.SetCookies(cookieParams(st.Cookies)); err != nil {
			m.log.Warn().Err(err).Msg("restoring session cookies failed")
		} else {
			m.log.Debug().Int("cookies", len(st.Cookies)).Time("savedAt", st.SavedAt).Msg("session state restored")
		}
	}

	bctx := m.bctx
	router := m.browser.HijackRequests()
	err = router.Add("*", "", func(h *rod.Hijack) {
		if bctx.shouldBlock(h.Request.Type()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return fmt.Errorf("installing request interception: %w", err)
	}
	go router.Run()

	bctx.router = router
	return nil
}

// shouldBlock reports whether the context's current media policy drops a
// request of the given resource class.
func (c *browserContext) shouldBlock(t proto.NetworkResourceType) bool {
	return c.blockMedia.Load() && blockedResourceType(t)
}

// blockedResourceType reports whether a resource class is dropped when media
// loading is disabled.
func blockedResourceType(t proto.NetworkResourceType) bool {
	switch t {
	case proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeStylesheet,
		proto.NetworkResourceTypeFont,
		proto.NetworkResourceTypeMedia:
		return true
	}
	return false
}

// NewPage opens a page in the shared context and applies the context's
// fingerprint: viewport, user agent, locale/timezone, default headers, and
// the anti-detection init script.
func (m *Manager) NewPage(ctx context.Context) (*rod.Page, error) {
	m.mu.Lock()
	browser, bctx := m.browser, m.bctx
	m.mu.Unlock()
	if browser == nil || bctx == nil || bctx.router == nil {
		return nil, fmt.Errorf("no active browser context; call Acquire first")
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	page = page.Context(ctx)

	fp := bctx.fingerprint
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             fp.Width,
		Height:            fp.Height,
		DeviceScaleFactor: fp.Scale,
		Mobile:            false,
	}); err != nil {
		m.log.Warn().Err(err).Msg("setting viewport failed")
	}
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      fp.UserAgent,
		AcceptLanguage: fp.AcceptLanguage,
		Platform:       fp.Platform,
	}).Call(page); err != nil {
		m.log.Warn().Err(err).Msg("setting user agent failed")
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: fp.Timezone}).Call(page); err != nil {
		m.log.Warn().Err(err).Msg("setting timezone failed")
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: fp.Locale}).Call(page); err != nil {
		m.log.Warn().Err(err).Msg("setting locale failed")
	}
	headers := proto.NetworkHeaders{
		"Accept-Language":           gson.New(fp.AcceptLanguage),
		"Upgrade-Insecure-Requests": gson.New("1"),
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{Headers: headers}).Call(page); err != nil {
		m.log.Warn().Err(err).Msg("setting extra headers failed")
	}
	if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
		m.log.Warn().Err(err).Msg("installing stealth script failed")
	}

	return page, nil
}

// ClosePage closes a page best-effort. A close failure is logged and never
// fails the surrounding fetch.
func (m *Manager) ClosePage(page *rod.Page) {
	if page == nil {
		return
	}
	if err := page.Close(); err != nil {
		m.log.Warn().Err(err).Msg("closing page failed")
	}
}

// Cleanup persists the context's session state, closes the browser and
// clears the singleton so the next Acquire starts from scratch. It reports
// whether a browser was active. This is the only path that writes session
// state.
func (m *Manager) Cleanup(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return false, nil
	}

	if m.bctx != nil && m.bctx.router != nil {
		cookies, err := m.browser.GetCookies()
		if err != nil {
			m.log.Warn().Err(err).Msg("snapshotting cookies failed, state not persisted")
		} else {
			st := &State{Cookies: cookies, SavedAt: time.Now().UTC()}
			if err := SaveState(m.cfg.StatePath, st); err != nil {
				m.log.Warn().Err(err).Str("path", m.cfg.StatePath).Msg("persisting session state failed")
			} else {
				m.log.Debug().Int("cookies", len(cookies)).Msg("session state persisted")
			}
		}
		if err := m.bctx.router.Stop(); err != nil {
			m.log.Warn().Err(err).Msg("stopping interception router failed")
		}
	}

	if err := m.browser.Close(); err != nil {
		m.log.Warn().Err(err).Msg("closing browser failed")
	}
	if m.launcher != nil {
		m.launcher.Cleanup()
	}

	m.browser = nil
	m.launcher = nil
	m.bctx = nil
	m.log.Debug().Msg("browser torn down")
	return true, nil
}
