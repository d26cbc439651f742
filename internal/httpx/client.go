// Package httpx builds the host's outbound HTTP client: timeout, optional
// client-side rate limit and Prometheus instrumentation.
package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"apollonode/internal/metrics"
)

// Options configures NewClient.
type Options struct {
	Timeout time.Duration

	// RateLimitRPS caps outbound requests per second. Zero disables the limit.
	RateLimitRPS float64

	Metrics *metrics.Collectors

	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// NewClient returns an *http.Client wrapping Base with the configured limits and metrics.
func NewClient(opts Options) *http.Client {
	rt := opts.Base
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.RateLimitRPS > 0 {
		rt = &limitedTransport{
			next:    rt,
			limiter: rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1),
		}
	}
	if m := opts.Metrics; m != nil {
		rt = promhttp.InstrumentRoundTripperInFlight(m.APIInFlight,
			promhttp.InstrumentRoundTripperCounter(m.APIRequests,
				promhttp.InstrumentRoundTripperDuration(m.APIDuration, rt),
			),
		)
	}
	return &http.Client{Timeout: opts.Timeout, Transport: rt}
}

// limitedTransport waits on a token bucket before each request.
type limitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.RoundTrip(req)
}
