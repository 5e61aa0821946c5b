package collector

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedTransport throttles outbound requests before delegating to the
// underlying transport. The limiter is owned by the client instance; nothing
// here is process-global.
type rateLimitedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient builds the shared throttled HTTP client used by all fetchers,
// with optional proxy support. External-call timeouts are enforced here, not
// in the analysis engine.
func NewHTTPClient(rps float64, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rps <= 0 {
		rps = 2
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &rateLimitedTransport{
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
			base:    transport,
		},
	}
}
