// Package geocodio is a caching client for the geocod.io geocoding API.
// It resolves street addresses to coordinates and census metadata (and
// back), persisting results across runs so repeated lookups avoid network
// calls. A Geocoder instance is not safe for concurrent use; callers that
// share one must serialize access externally.
package geocodio

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/baltgeo/internal/resilience"
	"github.com/sells-group/baltgeo/internal/store"
)

const (
	defaultBaseURL        = "https://api.geocod.io/v1.6"
	defaultExpectedCounty = "Baltimore City"

	// Snapshot names mirror the two on-disk caches: one keyed by address
	// text, one keyed by rounded coordinates.
	defaultForwardSnapshot = "geo_forward"
	defaultReverseSnapshot = "geo_reverse"
)

// Geocoder handles geocod.io lookups with dual-key result caching and
// rotation through an ordered list of API keys.
type Geocoder struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retryCfg   resilience.RetryConfig
	store      store.Store

	baseURL        string
	expectedCounty string
	forwardName    string
	reverseName    string

	apiKeys  []string
	keyIndex int

	forward map[string]Result
	reverse map[coordKey]Result
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithHTTPClient sets a custom HTTP client for provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(g *Geocoder) {
		g.baseURL = baseURL
	}
}

// WithExpectedCounty sets the county that results are checked against.
func WithExpectedCounty(county string) Option {
	return func(g *Geocoder) {
		g.expectedCounty = county
	}
}

// WithRateLimit sets the requests-per-second limit for provider calls.
func WithRateLimit(rps float64) Option {
	return func(g *Geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryConfig overrides the transient-failure retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(g *Geocoder) {
		g.retryCfg = cfg
	}
}

// WithSnapshotNames overrides the store names of the two cache snapshots.
func WithSnapshotNames(forward, reverse string) Option {
	return func(g *Geocoder) {
		g.forwardName = forward
		g.reverseName = reverse
	}
}

// New creates a Geocoder that rotates through apiKeys in order and persists
// its caches through st. A nil st disables persistence (Open and Close
// become no-ops). At least one real API key is required; the "xxx"
// placeholder from a template credentials file is rejected.
func New(apiKeys []string, st store.Store, opts ...Option) (*Geocoder, error) {
	if len(apiKeys) == 0 {
		return nil, eris.New("geocodio: at least one api key is required")
	}
	if len(apiKeys) == 1 && apiKeys[0] == "xxx" {
		return nil, eris.New("geocodio: api key placeholder was never replaced")
	}

	g := &Geocoder{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(10, 1),
		retryCfg:       resilience.DefaultRetryConfig(),
		store:          st,
		baseURL:        defaultBaseURL,
		expectedCounty: defaultExpectedCounty,
		forwardName:    defaultForwardSnapshot,
		reverseName:    defaultReverseSnapshot,
		apiKeys:        apiKeys,
		forward:        make(map[string]Result),
		reverse:        make(map[coordKey]Result),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Open loads both cache snapshots from the store. Call it once before the
// first lookup.
func (g *Geocoder) Open(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	return g.loadSnapshots(ctx)
}

// Close flushes both caches to the store. Call it exactly once when done;
// lookups made after Close are not persisted.
func (g *Geocoder) Close(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	return g.flushSnapshots(ctx)
}

// Geocode resolves a street address to coordinates and census metadata. The
// cache is authoritative: a hit is returned without re-validation against
// the provider. A (nil, nil) return means the provider had no usable
// candidate for the address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	norm := NormalizeAddress(address)
	zap.L().Info("geocode lookup", zap.String("address", norm))

	if res, ok := g.forward[norm]; ok {
		return &res, nil
	}

	locs, err := g.lookup(ctx, geocodePath, norm)
	if err != nil {
		return nil, err
	}
	for _, loc := range locs {
		g.UpdateCache(g.newResult(loc), norm, nil)
	}

	if res, ok := g.forward[norm]; ok {
		return &res, nil
	}
	return nil, nil
}

// ReverseGeocode resolves a coordinate pair to an address. Coordinates are
// rounded to 4 decimal places for both lookup and storage, so nearby raw
// pairs converge on the same cache bucket. Non-finite input returns
// (nil, nil) without a network call.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*Result, error) {
	zap.L().Info("reverse geocode lookup", zap.Float64("lat", lat), zap.Float64("lng", lng))

	if !finite(lat) || !finite(lng) {
		zap.L().Error("invalid coordinates", zap.Float64("lat", lat), zap.Float64("lng", lng))
		return nil, nil
	}

	key := newCoordKey(lat, lng)
	if res, ok := g.reverse[key]; ok {
		return &res, nil
	}

	query := strconv.FormatFloat(key.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(key.Lng, 'f', -1, 64)
	locs, err := g.lookup(ctx, reversePath, query)
	if err != nil {
		return nil, err
	}
	for _, loc := range locs {
		g.UpdateCache(g.newResult(loc), "", &Coord{Lat: lat, Lng: lng})
	}

	if res, ok := g.reverse[key]; ok {
		return &res, nil
	}
	return nil, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
