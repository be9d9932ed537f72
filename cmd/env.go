package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/baltgeo/internal/resilience"
	"github.com/sells-group/baltgeo/internal/store"
	"github.com/sells-group/baltgeo/pkg/geocodio"
)

// openGeocoder builds the snapshot store and a geocoder with its caches
// loaded. The caller owns both and must close the geocoder before the store.
func openGeocoder(ctx context.Context) (*geocodio.Geocoder, *store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}

	opts := []geocodio.Option{
		geocodio.WithExpectedCounty(cfg.Geocodio.ExpectedCounty),
		geocodio.WithRateLimit(cfg.Geocodio.RateLimitRPS),
		geocodio.WithRetryConfig(resilience.FromRetryConfig(
			cfg.Retry.MaxAttempts,
			cfg.Retry.InitialBackoffMs,
			cfg.Retry.MaxBackoffMs,
			cfg.Retry.Multiplier,
			cfg.Retry.JitterFraction,
		)),
	}
	if cfg.Geocodio.BaseURL != "" {
		opts = append(opts, geocodio.WithBaseURL(cfg.Geocodio.BaseURL))
	}

	g, err := geocodio.New(cfg.Geocodio.APIKeys, st, opts...)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	if err := g.Open(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}

	return g, st, nil
}

// closeGeocoder flushes the caches and closes the store, logging rather
// than failing the command on flush errors.
func closeGeocoder(ctx context.Context, g *geocodio.Geocoder, st *store.SQLiteStore) {
	if err := g.Close(ctx); err != nil {
		zap.L().Error("flush caches", zap.Error(err))
	}
	if err := st.Close(); err != nil {
		zap.L().Error("close store", zap.Error(err))
	}
}

// printResult writes a lookup result as indented JSON, or a no-match note.
func printResult(res *geocodio.Result) error {
	if res == nil {
		fmt.Println("no match")
		return nil
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
