package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/camp-directory/internal/domain"
)

const (
	// DefaultEndpoint is the Google Maps Geocoding JSON API.
	DefaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	// DefaultRegionSuffix narrows free-text addresses to the island of Montreal.
	DefaultRegionSuffix = ", Montreal, QC, Canada"

	defaultAttempts       = 3
	defaultBackoff        = time.Second
	defaultAttemptTimeout = 10 * time.Second
	defaultLookupTimeout  = time.Minute

	// throttledBackoffFactor stretches the wait after OVER_QUERY_LIMIT.
	throttledBackoffFactor = 2
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("geocode: api key not configured")

var errOverQueryLimit = errors.New("status OVER_QUERY_LIMIT")

// Metrics counts geocoding outcomes.
type Metrics struct {
	lookups *prometheus.CounterVec
}

// NewMetrics registers the geocoder's counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camp_geocode_lookups_total",
			Help: "Geocoding lookups by result: found, not_found or error.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.lookups)
	return m
}

func (m *Metrics) observe(coords *domain.Coordinates, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.lookups.WithLabelValues("error").Inc()
	case coords == nil:
		m.lookups.WithLabelValues("not_found").Inc()
	default:
		m.lookups.WithLabelValues("found").Inc()
	}
}

// GoogleClient geocodes addresses with the Google Maps Geocoding API.
// Concurrent lookups of the same address share one request.
type GoogleClient struct {
	apiKey       string
	endpoint     string
	regionSuffix string
	httpClient   *http.Client
	attempts     uint64
	backoff      time.Duration
	metrics      *Metrics
	group        singleflight.Group
}

// Option configures a GoogleClient.
type Option func(*GoogleClient)

// WithEndpoint overrides the API URL. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *GoogleClient) { c.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GoogleClient) { c.httpClient = hc }
}

// WithRegionSuffix sets the text appended to every address before lookup.
func WithRegionSuffix(suffix string) Option {
	return func(c *GoogleClient) { c.regionSuffix = suffix }
}

// WithRetry sets the total number of attempts and the base delay of the
// exponential backoff between them.
func WithRetry(attempts uint64, backoff time.Duration) Option {
	return func(c *GoogleClient) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

// WithMetrics records lookup outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *GoogleClient) { c.metrics = m }
}

// NewGoogleClient constructs a GoogleClient. An empty apiKey yields a client
// whose every lookup fails with ErrNotConfigured.
func NewGoogleClient(apiKey string, opts ...Option) *GoogleClient {
	c := &GoogleClient{
		apiKey:       apiKey,
		endpoint:     DefaultEndpoint,
		regionSuffix: DefaultRegionSuffix,
		httpClient:   http.DefaultClient,
		attempts:     defaultAttempts,
		backoff:      defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode implements Geocoder.
//
// The shared request is detached from ctx so one caller giving up does not
// fail the others waiting on the same address; it is bounded by its own
// timeout instead.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	ch := c.group.DoChan(address, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultLookupTimeout)
		defer cancel()
		return c.lookup(lookupCtx, address)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		res.Err = ctx.Err()
	case res = <-ch:
	}
	coords, _ := res.Val.(*domain.Coordinates)
	c.metrics.observe(coords, res.Err)
	if res.Err != nil {
		return nil, fmt.Errorf("geocode.GoogleClient.Geocode: %w", res.Err)
	}
	return copyCoordinates(coords), nil
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *GoogleClient) lookup(ctx context.Context, address string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("address", address+c.regionSuffix)
	q.Set("key", c.apiKey)
	reqURL := c.endpoint + "?" + q.Encode()

	var throttled bool
	base := retry.WithMaxRetries(c.attempts-1, retry.NewExponential(c.backoff))
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := base.Next()
		if throttled {
			next *= throttledBackoffFactor
		}
		return next, stop
	})
	return retry.DoValue(ctx, backoff, func(ctx context.Context) (*domain.Coordinates, error) {
		coords, err := c.attempt(ctx, reqURL)
		throttled = errors.Is(err, errOverQueryLimit)
		return coords, err
	})
}

// attempt performs one request. Errors worth retrying are wrapped with
// retry.RetryableError.
func (c *GoogleClient) attempt(ctx context.Context, reqURL string) (*domain.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultAttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.RetryableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, retry.RetryableError(fmt.Errorf("decoding response: %w", err))
	}

	switch body.Status {
	case "OK":
		if len(body.Results) == 0 {
			return nil, nil
		}
		loc := body.Results[0].Geometry.Location
		return &domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
	case "ZERO_RESULTS":
		return nil, nil
	case "OVER_QUERY_LIMIT":
		return nil, retry.RetryableError(errOverQueryLimit)
	case "UNKNOWN_ERROR":
		return nil, retry.RetryableError(fmt.Errorf("status %s", body.Status))
	default:
		if body.ErrorMessage != "" {
			return nil, fmt.Errorf("status %s: %s", body.Status, body.ErrorMessage)
		}
		return nil, fmt.Errorf("status %s", body.Status)
	}
}
