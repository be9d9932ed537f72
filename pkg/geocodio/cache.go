package geocodio

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat float64
	Lng float64
}

// coordKey is a coordinate pair rounded to 4 decimal places (~11m), the
// dedup granularity of the reverse cache. Two raw pairs that round the same
// way collide on purpose.
type coordKey struct {
	Lat float64
	Lng float64
}

func newCoordKey(lat, lng float64) coordKey {
	return coordKey{Lat: round4(lat), Lng: round4(lng)}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// MarshalText renders the key as "lat,lng" so the reverse cache can be
// persisted as a plain JSON object.
func (k coordKey) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(k.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(k.Lng, 'f', 4, 64)), nil
}

func (k *coordKey) UnmarshalText(text []byte) error {
	lat, lng, ok := strings.Cut(string(text), ",")
	if !ok {
		return eris.Errorf("geocodio: malformed coordinate key %q", text)
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return eris.Wrapf(err, "geocodio: parse coordinate key %q", text)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return eris.Wrapf(err, "geocodio: parse coordinate key %q", text)
	}
	*k = coordKey{Lat: latF, Lng: lngF}
	return nil
}

// UpdateCache files res under every applicable cache key: its own formatted
// address, the original forward query when given, its own rounded
// coordinates, and the requested coordinate pair when given. For each key
// the new result wins only if no entry exists or the existing entry has
// strictly lower accuracy; ties keep the old entry.
func (g *Geocoder) UpdateCache(res Result, forwardLookup string, revLookup *Coord) {
	g.mergeForward(res.FormattedAddress, res)
	if forwardLookup != "" {
		g.mergeForward(forwardLookup, res)
	}
	if res.Latitude != 0 && res.Longitude != 0 {
		g.mergeReverse(newCoordKey(res.Latitude, res.Longitude), res)
	}
	if revLookup != nil {
		g.mergeReverse(newCoordKey(revLookup.Lat, revLookup.Lng), res)
	}
}

func (g *Geocoder) mergeForward(key string, res Result) {
	if existing, ok := g.forward[key]; ok && existing.Accuracy >= res.Accuracy {
		return
	}
	g.forward[key] = res
}

func (g *Geocoder) mergeReverse(key coordKey, res Result) {
	if existing, ok := g.reverse[key]; ok && existing.Accuracy >= res.Accuracy {
		return
	}
	g.reverse[key] = res
}

// CacheSizes reports the current entry counts of the forward and reverse
// caches.
func (g *Geocoder) CacheSizes() (forward, reverse int) {
	return len(g.forward), len(g.reverse)
}

// loadSnapshots restores both caches from the store. A missing snapshot
// leaves the corresponding cache empty.
func (g *Geocoder) loadSnapshots(ctx context.Context) error {
	blob, err := g.store.Load(ctx, g.forwardName)
	if err != nil {
		return eris.Wrapf(err, "geocodio: load snapshot %s", g.forwardName)
	}
	if blob != nil {
		if err := json.Unmarshal(blob, &g.forward); err != nil {
			return eris.Wrapf(err, "geocodio: decode snapshot %s", g.forwardName)
		}
	}

	blob, err = g.store.Load(ctx, g.reverseName)
	if err != nil {
		return eris.Wrapf(err, "geocodio: load snapshot %s", g.reverseName)
	}
	if blob != nil {
		if err := json.Unmarshal(blob, &g.reverse); err != nil {
			return eris.Wrapf(err, "geocodio: decode snapshot %s", g.reverseName)
		}
	}

	return nil
}

// flushSnapshots writes both caches to the store wholesale. There is no
// incremental flush; deltas since the last flush are lost on a crash.
func (g *Geocoder) flushSnapshots(ctx context.Context) error {
	blob, err := json.Marshal(g.forward)
	if err != nil {
		return eris.Wrap(err, "geocodio: encode forward cache")
	}
	if err := g.store.Save(ctx, g.forwardName, blob); err != nil {
		return eris.Wrapf(err, "geocodio: save snapshot %s", g.forwardName)
	}

	blob, err = json.Marshal(g.reverse)
	if err != nil {
		return eris.Wrap(err, "geocodio: encode reverse cache")
	}
	if err := g.store.Save(ctx, g.reverseName, blob); err != nil {
		return eris.Wrapf(err, "geocodio: save snapshot %s", g.reverseName)
	}

	return nil
}
