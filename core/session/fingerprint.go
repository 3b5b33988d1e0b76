// Package session owns the shared browser lifecycle: launching Chromium,
// configuring the browsing context (fingerprint, headers, media blocking,
// persisted cookies), and handing out pages.
package session

import (
	"math/rand"
)

// Fingerprint is the realistic browser identity a context presents. A new
// one is picked at random per context so separate server runs decorrelate.
type Fingerprint struct {
	UserAgent      string
	Platform       string // navigator.platform value matching the UA
	AcceptLanguage string
	Locale         string
	Timezone       string
	Width          int
	Height         int
	Scale          float64 // device scale factor, jittered
}

// uaProfile pairs a user-agent string with the navigator.platform value a
// real browser with that UA would report.
type uaProfile struct {
	userAgent string
	platform  string
}

var uaPool = []uaProfile{
	{
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		platform:  "Win32",
	},
	{
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		platform:  "MacIntel",
	},
	{
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
		platform:  "Linux x86_64",
	},
	{
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
		platform:  "Win32",
	},
}

// viewportPool holds common desktop resolutions.
var viewportPool = [][2]int{
	{1920, 1080},
	{1680, 1050},
	{1536, 864},
	{1440, 900},
	{1366, 768},
}

// RandomFingerprint picks a UA/viewport pair from the fixed candidate pools
// and jitters the device scale factor.
func RandomFingerprint(rnd *rand.Rand) Fingerprint {
	ua := uaPool[rnd.Intn(len(uaPool))]
	vp := viewportPool[rnd.Intn(len(viewportPool))]
	return Fingerprint{
		UserAgent:      ua.userAgent,
		Platform:       ua.platform,
		AcceptLanguage: "en-US,en;q=0.9",
		Locale:         "en-US",
		Timezone:       "America/New_York",
		Width:          vp[0],
		Height:         vp[1],
		Scale:          1.0 + float64(rnd.Intn(3))*0.25, // 1.0, 1.25 or 1.5
	}
}

// stealthScript is injected into every new page before any site script runs.
// It neutralizes the common automation probes: the webdriver flag, the
// cdc_ globals Chrome's driver leaves behind, and the empty plugin/language
// fingerprints headless browsers expose.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
for (const key of Object.keys(window)) {
	if (key.startsWith('cdc_') || key.startsWith('$cdc_')) {
		try { delete window[key]; } catch (e) {}
	}
}
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || {};
window.chrome.runtime = window.chrome.runtime || {};
if (window.navigator.permissions && window.navigator.permissions.query) {
	const originalQuery = window.navigator.permissions.query.bind(window.navigator.permissions);
	window.navigator.permissions.query = (parameters) =>
		parameters && parameters.name === 'notifications'
			? Promise.resolve({ state: 'default' })
			: originalQuery(parameters);
}
`
