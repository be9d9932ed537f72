package geocodio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLocation(t *testing.T, raw string) location {
	t.Helper()
	var loc location
	require.NoError(t, json.Unmarshal([]byte(raw), &loc))
	return loc
}

func TestNewResult_CensusTract(t *testing.T) {
	loc := decodeLocation(t, `{
		"formatted_address": "1309 N Charles St, Baltimore, MD 21202",
		"location": {"lat": 39.305076, "lng": -76.615854},
		"accuracy": 1,
		"accuracy_type": "rooftop",
		"source": "Statewide",
		"fields": {"census": {"2019": {"tract_code": "110200"}}}
	}`)

	g := newBareGeocoder(t, nil)
	res := g.newResult(loc)

	assert.Equal(t, "110200", res.CensusTract)
	assert.InDelta(t, 39.305076, res.Latitude, 0.0001)
	assert.InDelta(t, -76.615854, res.Longitude, 0.0001)
	assert.Equal(t, 1.0, res.Accuracy)
}

func TestCensusTract_PicksLatestYear(t *testing.T) {
	census := map[string]censusYear{
		"2010": {TractCode: "000100"},
		"2019": {TractCode: "110200"},
		"2015": {TractCode: "050500"},
	}
	assert.Equal(t, "110200", censusTract(census))

	assert.Equal(t, "", censusTract(nil))
	assert.Equal(t, "", censusTract(map[string]censusYear{}))
}

func TestNewResult_DefaultsWhenFieldsAbsent(t *testing.T) {
	loc := decodeLocation(t, `{"accuracy": 0.8, "accuracy_type": "range", "source": "TIGER"}`)

	g := newBareGeocoder(t, nil)
	res := g.newResult(loc)

	assert.Zero(t, res.Latitude)
	assert.Zero(t, res.Longitude)
	assert.Empty(t, res.FormattedAddress)
	assert.Empty(t, res.Number)
	assert.Empty(t, res.City)
	assert.Empty(t, res.County)
	assert.Empty(t, res.CensusTract)
	assert.Equal(t, 0.8, res.Accuracy)
	assert.Equal(t, "range", res.AccuracyType)
	assert.Equal(t, "TIGER", res.Source)
}

func TestNewResult_ForeignCountyStillAccepted(t *testing.T) {
	loc := decodeLocation(t, `{
		"address_components": {
			"city": "Towson",
			"county": "Baltimore County",
			"state": "MD",
			"zip": "21204",
			"country": "US"
		},
		"formatted_address": "400 Washington Ave, Towson, MD 21204",
		"location": {"lat": 39.4015, "lng": -76.6019},
		"accuracy": 1,
		"accuracy_type": "rooftop",
		"source": "Statewide"
	}`)

	g := newBareGeocoder(t, nil)
	res := g.newResult(loc)

	// County mismatch is logged, never rejected.
	assert.Equal(t, "Baltimore County", res.County)
	assert.Equal(t, "Towson", res.City)
}

func TestEnvelope_Classification(t *testing.T) {
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(`{"results": []}`), &env))
	assert.True(t, env.hasResults(), "an empty result list is still a success")

	locs, err := env.locations()
	require.NoError(t, err)
	assert.Empty(t, locs)

	env = envelope{}
	require.NoError(t, json.Unmarshal([]byte(`{"error": "Invalid API key"}`), &env))
	assert.False(t, env.hasResults())
	assert.Equal(t, "Invalid API key", env.Error)
}

func TestEnvelope_SingularResult(t *testing.T) {
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(`{
		"result": {"formatted_address": "123 TEST RD", "accuracy": 0.9}
	}`), &env))
	require.True(t, env.hasResults())

	locs, err := env.locations()
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "123 TEST RD", locs[0].FormattedAddress)
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, isCredentialError("Please add a payment method. You have run out of credits."))
	assert.True(t, isCredentialError("Invalid API key"))
	assert.True(t, isCredentialError("This is just a demo account."))
	assert.False(t, isCredentialError("Could not geocode address."))
	assert.False(t, isCredentialError(""))
}
