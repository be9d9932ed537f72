package geocodio

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Result is the normalized output of a geocode or reverse geocode lookup.
// Every field defaults to empty/zero when the provider omits it. Results are
// immutable once built; cache entries are only ever replaced wholesale.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	Number           string  `json:"number"`
	Predirectional   string  `json:"predirectional"`
	Street           string  `json:"street"`
	Suffix           string  `json:"suffix"`
	FormattedStreet  string  `json:"formatted_street"`
	City             string  `json:"city"`
	County           string  `json:"county"`
	State            string  `json:"state"`
	Zip              string  `json:"zip"`
	Country          string  `json:"country"`
	CensusTract      string  `json:"census_tract"`
	Accuracy         float64 `json:"accuracy"`
	AccuracyType     string  `json:"accuracy_type"`
	Source           string  `json:"source"`
}

// envelope is the top-level geocod.io response. results/result presence
// (not emptiness) distinguishes success from error, so both are kept raw.
type envelope struct {
	Results json.RawMessage `json:"results"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
}

func (e *envelope) hasResults() bool {
	return e.Results != nil || e.Result != nil
}

// locations decodes the result list, accepting either the plural list form
// or the singular object form.
func (e *envelope) locations() ([]location, error) {
	if e.Results != nil {
		var locs []location
		if err := json.Unmarshal(e.Results, &locs); err != nil {
			return nil, err
		}
		return locs, nil
	}

	var loc location
	if err := json.Unmarshal(e.Result, &loc); err != nil {
		return nil, err
	}
	return []location{loc}, nil
}

// location is a single candidate in a geocod.io response.
type location struct {
	AddressComponents *addressComponents `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	Location          *coordinates       `json:"location"`
	Accuracy          float64            `json:"accuracy"`
	AccuracyType      string             `json:"accuracy_type"`
	Source            string             `json:"source"`
	Fields            *locationFields    `json:"fields"`
}

type addressComponents struct {
	Number          string `json:"number"`
	Predirectional  string `json:"predirectional"`
	Street          string `json:"street"`
	Suffix          string `json:"suffix"`
	FormattedStreet string `json:"formatted_street"`
	City            string `json:"city"`
	County          string `json:"county"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
	Country         string `json:"country"`
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationFields struct {
	Census map[string]censusYear `json:"census"`
}

type censusYear struct {
	TractCode string `json:"tract_code"`
}

// newResult normalizes a provider location record into a Result. A county
// outside the expected municipality is logged but never rejected.
func (g *Geocoder) newResult(loc location) Result {
	res := Result{
		FormattedAddress: loc.FormattedAddress,
		Accuracy:         loc.Accuracy,
		AccuracyType:     loc.AccuracyType,
		Source:           loc.Source,
	}

	if ac := loc.AddressComponents; ac != nil {
		if !strings.EqualFold(ac.County, g.expectedCounty) {
			zap.L().Warn("result outside expected county",
				zap.String("county", ac.County),
				zap.String("expected", g.expectedCounty),
				zap.String("address", loc.FormattedAddress),
			)
		}
		res.Number = ac.Number
		res.Predirectional = ac.Predirectional
		res.Street = ac.Street
		res.Suffix = ac.Suffix
		res.FormattedStreet = ac.FormattedStreet
		res.City = ac.City
		res.County = ac.County
		res.State = ac.State
		res.Zip = ac.Zip
		res.Country = ac.Country
	}

	if loc.Location != nil {
		res.Latitude = loc.Location.Lat
		res.Longitude = loc.Location.Lng
	}

	if loc.Fields != nil {
		res.CensusTract = censusTract(loc.Fields.Census)
	}

	return res
}

// censusTract picks the tract code from the latest census year present.
// The provider nests census data under dynamic year keys; taking the
// maximum keeps the choice deterministic.
func censusTract(census map[string]censusYear) string {
	var latest string
	for year := range census {
		if year > latest {
			latest = year
		}
	}
	if latest == "" {
		return ""
	}
	return census[latest].TractCode
}
