package geocodio

import (
	"testing"
	"time"

	"github.com/sells-group/baltgeo/internal/resilience"
)

// charlesStResponse is a trimmed geocod.io response for 1309 N Charles St.
const charlesStResponse = `{
	"results": [{
		"address_components": {
			"number": "1309",
			"predirectional": "N",
			"street": "Charles",
			"suffix": "St",
			"formatted_street": "N Charles St",
			"city": "Baltimore",
			"county": "Baltimore city",
			"state": "MD",
			"zip": "21202",
			"country": "US"
		},
		"formatted_address": "1309 N Charles St, Baltimore, MD 21202",
		"location": {"lat": 39.305076, "lng": -76.615854},
		"accuracy": 1,
		"accuracy_type": "rooftop",
		"source": "Statewide",
		"fields": {"census": {"2019": {"tract_code": "110200"}}}
	}]
}`

// newTestGeocoder builds a geocoder pointed at a test server, without
// persistence, rate limiting, or retry sleeps.
func newTestGeocoder(t *testing.T, baseURL string, apiKeys ...string) *Geocoder {
	t.Helper()

	if len(apiKeys) == 0 {
		apiKeys = []string{"TEST"}
	}

	g, err := New(apiKeys, nil,
		WithBaseURL(baseURL),
		WithRateLimit(10000),
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
			JitterFraction: 0,
		}),
	)
	if err != nil {
		t.Fatalf("new geocoder: %v", err)
	}
	return g
}
