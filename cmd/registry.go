package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	"apollonode/internal/apollo"
	"apollonode/internal/engine"
	"apollonode/internal/httpx"
	"apollonode/internal/metrics"
)

func newRouter() *apollo.Router {
	return apollo.NewRouter()
}

// newAPIClient builds the Apollo transport on top of the host HTTP client.
func newAPIClient(m *metrics.Collectors) (*apollo.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return apollo.NewClient(apollo.ClientConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		HTTPClient: httpx.NewClient(httpx.Options{
			Timeout:      cfg.HTTPTimeout,
			RateLimitRPS: cfg.RateLimitRPS,
			Metrics:      m,
		}),
		Logger: logger,
	})
}

// newEngine wires router, client and metrics. With offline set no client is
// built, so commands that never call Apollo work without an API key.
func newEngine(reg prometheus.Registerer, offline bool) (*engine.Engine, error) {
	m := metrics.New(reg)
	eng := engine.NewEngine(newRouter(), nil, logger)
	eng.Metrics = m
	if offline {
		return eng, nil
	}
	client, err := newAPIClient(m)
	if err != nil {
		return nil, err
	}
	eng.Client = client
	return eng, nil
}
