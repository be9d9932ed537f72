package geocodio

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/baltgeo/internal/store"
)

func newBareGeocoder(t *testing.T, st store.Store) *Geocoder {
	t.Helper()
	g, err := New([]string{"TEST"}, st)
	require.NoError(t, err)
	return g
}

func TestUpdateCache_MergeMonotonic(t *testing.T) {
	g := newBareGeocoder(t, nil)

	old := Result{FormattedAddress: "123 TEST RD", City: "Old Town", Accuracy: 0.5}
	g.UpdateCache(old, "", nil)
	require.Equal(t, "Old Town", g.forward["123 TEST RD"].City)

	// Equal accuracy keeps the existing entry.
	tie := Result{FormattedAddress: "123 TEST RD", City: "Tie Town", Accuracy: 0.5}
	g.UpdateCache(tie, "", nil)
	assert.Equal(t, "Old Town", g.forward["123 TEST RD"].City)

	// Lower accuracy keeps the existing entry.
	worse := Result{FormattedAddress: "123 TEST RD", City: "Worse Town", Accuracy: 0.3}
	g.UpdateCache(worse, "", nil)
	assert.Equal(t, "Old Town", g.forward["123 TEST RD"].City)

	// Strictly higher accuracy replaces it.
	better := Result{FormattedAddress: "123 TEST RD", City: "New Town", Accuracy: 0.51}
	g.UpdateCache(better, "", nil)
	assert.Equal(t, "New Town", g.forward["123 TEST RD"].City)
}

func TestUpdateCache_FilesAllKeys(t *testing.T) {
	g := newBareGeocoder(t, nil)

	res := Result{
		FormattedAddress: "123 TEST RD",
		Latitude:         55.549999, // rounds to 55.5500
		Longitude:        66.66,
		Accuracy:         1,
	}
	g.UpdateCache(res, "123 test road original", &Coord{Lat: 77.77001, Lng: 88.88})

	assert.Contains(t, g.forward, "123 TEST RD")
	assert.Contains(t, g.forward, "123 test road original")
	assert.Contains(t, g.reverse, coordKey{Lat: 55.55, Lng: 66.66})
	assert.Contains(t, g.reverse, coordKey{Lat: 77.77, Lng: 88.88})

	forward, reverse := g.CacheSizes()
	assert.Equal(t, 2, forward)
	assert.Equal(t, 2, reverse)
}

func TestUpdateCache_SkipsZeroCoordinates(t *testing.T) {
	g := newBareGeocoder(t, nil)

	g.UpdateCache(Result{FormattedAddress: "123 TEST RD", Accuracy: 1}, "", nil)

	_, reverse := g.CacheSizes()
	assert.Equal(t, 0, reverse)
}

func TestCoordKey_JSONRoundTrip(t *testing.T) {
	in := map[coordKey]Result{
		{Lat: 39.3051, Lng: -76.6158}: {FormattedAddress: "A", Accuracy: 1},
		{Lat: -55.5, Lng: 66.66}:      {FormattedAddress: "B", Accuracy: 0.5},
	}

	blob, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[coordKey]Result
	require.NoError(t, json.Unmarshal(blob, &out))
	assert.Equal(t, in, out)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "geo.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	first := newBareGeocoder(t, st)
	require.NoError(t, first.Open(ctx))
	first.UpdateCache(Result{
		FormattedAddress: "123 TEST RD",
		Latitude:         55.55,
		Longitude:        66.66,
		CensusTract:      "090600",
		Accuracy:         1,
	}, "123 test rd raw", nil)
	require.NoError(t, first.Close(ctx))

	second := newBareGeocoder(t, st)
	require.NoError(t, second.Open(ctx))

	forward, reverse := second.CacheSizes()
	assert.Equal(t, 2, forward)
	assert.Equal(t, 1, reverse)

	res, ok := second.forward["123 TEST RD"]
	require.True(t, ok)
	assert.Equal(t, "090600", res.CensusTract)

	rev, ok := second.reverse[coordKey{Lat: 55.55, Lng: 66.66}]
	require.True(t, ok)
	assert.Equal(t, "123 TEST RD", rev.FormattedAddress)
}

func TestSnapshotRoundTrip_CustomNames(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "geo.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	newNamed := func() *Geocoder {
		g, err := New([]string{"TEST"}, st, WithSnapshotNames("city_forward", "city_reverse"))
		require.NoError(t, err)
		return g
	}

	first := newNamed()
	require.NoError(t, first.Open(ctx))
	first.UpdateCache(Result{
		FormattedAddress: "123 TEST RD",
		Latitude:         55.55,
		Longitude:        66.66,
		Accuracy:         1,
	}, "", nil)
	require.NoError(t, first.Close(ctx))

	names, err := st.Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"city_forward", "city_reverse"}, names)

	second := newNamed()
	require.NoError(t, second.Open(ctx))
	forward, reverse := second.CacheSizes()
	assert.Equal(t, 1, forward)
	assert.Equal(t, 1, reverse)

	// A geocoder on the default names shares nothing with it.
	other := newBareGeocoder(t, st)
	require.NoError(t, other.Open(ctx))
	forward, reverse = other.CacheSizes()
	assert.Equal(t, 0, forward)
	assert.Equal(t, 0, reverse)
}

func TestOpen_MissingSnapshotsStartEmpty(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "geo.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	g := newBareGeocoder(t, st)
	require.NoError(t, g.Open(ctx))

	forward, reverse := g.CacheSizes()
	assert.Equal(t, 0, forward)
	assert.Equal(t, 0, reverse)
}
