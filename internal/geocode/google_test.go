package geocode_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/geocode"
)

const okBody = `{"status":"OK","results":[{"geometry":{"location":{"lat":45.52,"lng":-73.58}}}]}`

func newClient(t *testing.T, srv *httptest.Server, opts ...geocode.Option) *geocode.GoogleClient {
	t.Helper()
	base := []geocode.Option{
		geocode.WithEndpoint(srv.URL),
		geocode.WithHTTPClient(srv.Client()),
		geocode.WithRetry(3, time.Millisecond),
	}
	return geocode.NewGoogleClient("test-key", append(base, opts...)...)
}

func TestGoogleClient_Found(t *testing.T) {
	var gotAddress, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	coords, err := newClient(t, srv).Geocode(context.Background(), "4200 Rue Saint-Denis")

	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.InDelta(t, 45.52, coords.Lat, 1e-9)
	assert.InDelta(t, -73.58, coords.Lng, 1e-9)
	assert.Equal(t, "4200 Rue Saint-Denis, Montreal, QC, Canada", gotAddress)
	assert.Equal(t, "test-key", gotKey)
}

func TestGoogleClient_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	}))
	defer srv.Close()

	coords, err := newClient(t, srv).Geocode(context.Background(), "nowhere")

	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestGoogleClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT"}`)
		default:
			fmt.Fprint(w, okBody)
		}
	}))
	defer srv.Close()

	coords, err := newClient(t, srv).Geocode(context.Background(), "somewhere")

	require.NoError(t, err)
	assert.NotNil(t, coords)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGoogleClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Geocode(context.Background(), "somewhere")

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGoogleClient_RequestDenied_NotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Geocode(context.Background(), "somewhere")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is invalid")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoogleClient_NoAPIKey(t *testing.T) {
	_, err := geocode.NewGoogleClient("").Geocode(context.Background(), "somewhere")
	assert.ErrorIs(t, err, geocode.ErrNotConfigured)
}

func TestGoogleClient_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") == "nowhere"+geocode.DefaultRegionSuffix {
			fmt.Fprint(w, `{"status":"ZERO_RESULTS"}`)
			return
		}
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	client := newClient(t, srv, geocode.WithMetrics(geocode.NewMetrics(reg)))

	_, err := client.Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	_, err = client.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "camp_geocode_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series each for found and not_found")
}

func TestGoogleClient_OverQueryLimit_WaitsLonger(t *testing.T) {
	const backoff = 25 * time.Millisecond
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT"}`)
			return
		}
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	start := time.Now()
	coords, err := newClient(t, srv, geocode.WithRetry(2, backoff)).Geocode(context.Background(), "somewhere")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, coords)
	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, elapsed, 2*backoff, "a throttled attempt doubles the wait before the retry")
}

func TestGoogleClient_OverQueryLimit_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OVER_QUERY_LIMIT"}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv).Geocode(context.Background(), "somewhere")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OVER_QUERY_LIMIT")
}

func TestGoogleClient_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()
	client := newClient(t, srv)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.Geocode(firstCtx, "4200 Rue Saint-Denis")
		firstErr <- err
	}()
	<-started

	type result struct {
		lat float64
		err error
	}
	second := make(chan result, 1)
	go func() {
		coords, err := client.Geocode(context.Background(), "4200 Rue Saint-Denis")
		if err != nil {
			second <- result{err: err}
			return
		}
		second <- result{lat: coords.Lat}
	}()
	// Give the second caller time to join the in-flight lookup.
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		assert.InDelta(t, 45.52, got.lat, 1e-9)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, int32(1), calls.Load(), "both callers share one request")
}
