package geocodio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/baltgeo/internal/resilience"
)

const (
	geocodePath = "/geocode"
	reversePath = "/reverse"
)

// lookup runs one provider query through both retry layers. The outer layer
// retries transient failures (network errors, undecodable bodies) with
// backoff; the inner loop retries immediately on a key rejection, bounded by
// the key cursor hitting the end of the list.
func (g *Geocoder) lookup(ctx context.Context, path, query string) ([]location, error) {
	cfg := g.retryCfg
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("geocodio", path)
	}

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]location, error) {
		for {
			locs, err := g.lookupOnce(ctx, path, query)
			if err != nil {
				var rejected *credentialRejectedError
				if errors.As(err, &rejected) {
					continue
				}
				return nil, err
			}
			return locs, nil
		}
	})
}

// lookupOnce issues a single GET against the provider with the current API
// key and classifies the response.
func (g *Geocoder) lookupOnce(ctx context.Context, path, query string) ([]location, error) {
	if g.keyIndex >= len(g.apiKeys) {
		return nil, ErrNoCredentials
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocodio: rate limit")
	}

	params := url.Values{
		"q":       {query},
		"fields":  {"census"},
		"api_key": {g.apiKeys[g.keyIndex]},
	}
	reqURL := g.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocodio: build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "geocodio: request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(eris.Errorf("geocodio: status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "geocodio: read body"), resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "geocodio: parse response"), resp.StatusCode)
	}

	switch {
	case env.hasResults():
		locs, err := env.locations()
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "geocodio: parse results"), resp.StatusCode)
		}
		return locs, nil

	case env.Error != "" && isCredentialError(env.Error):
		// The key is permanently unusable. Advance past it; it is never
		// retried.
		zap.L().Warn("api key rejected",
			zap.Int("key_index", g.keyIndex),
			zap.String("error", env.Error),
		)
		g.keyIndex++
		return nil, &credentialRejectedError{message: env.Error}

	case env.Error != "":
		return nil, &ProviderError{Message: env.Error}

	default:
		return nil, resilience.NewTransientError(eris.Errorf("geocodio: unexpected response: %s", body), resp.StatusCode)
	}
}
