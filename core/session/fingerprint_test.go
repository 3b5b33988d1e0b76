package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomFingerprintDrawsFromPools(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		fp := RandomFingerprint(rnd)

		var uaKnown bool
		for _, p := range uaPool {
			if p.userAgent == fp.UserAgent {
				uaKnown = true
				assert.Equal(t, p.platform, fp.Platform)
			}
		}
		require.True(t, uaKnown, "user agent not from the pool: %s", fp.UserAgent)

		var vpKnown bool
		for _, vp := range viewportPool {
			if vp[0] == fp.Width && vp[1] == fp.Height {
				vpKnown = true
			}
		}
		require.True(t, vpKnown, "viewport not from the pool: %dx%d", fp.Width, fp.Height)

		assert.Contains(t, []float64{1.0, 1.25, 1.5}, fp.Scale)
		assert.Equal(t, "en-US,en;q=0.9", fp.AcceptLanguage)
	}
}

func TestRandomFingerprintVaries(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[RandomFingerprint(rnd).UserAgent] = true
	}
	assert.Greater(t, len(seen), 1, "expected more than one distinct user agent over 50 draws")
}

func TestStealthScriptCoversKnownProbes(t *testing.T) {
	assert.Contains(t, stealthScript, "webdriver")
	assert.Contains(t, stealthScript, "cdc_")
	assert.Contains(t, stealthScript, "navigator, 'languages'")
	assert.Contains(t, stealthScript, "navigator, 'plugins'")
}
