package geocode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkordes/camp-directory/internal/domain"
)

// Serial wraps a Geocoder so that lookups run one at a time with at least
// delay between the start of consecutive requests. Bulk operations use it
// to stay under the upstream rate limit.
type Serial struct {
	next    Geocoder
	limiter *rate.Limiter
	mu      sync.Mutex
}

// NewSerial constructs a Serial. A delay of zero or less disables spacing
// but still serializes calls.
func NewSerial(next Geocoder, delay time.Duration) *Serial {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Serial{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// Geocode implements Geocoder.
func (s *Serial) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocode.Serial.Geocode: %w", err)
	}
	return s.next.Geocode(ctx, address)
}

// Result is the outcome of geocoding one camp in a batch.
type Result struct {
	Name        string
	Coordinates *domain.Coordinates
	Err         error
}

// Missing geocodes every camp that has an address but no coordinates, in
// order, and returns one Result per such camp. Once ctx is done the
// remaining camps are reported with ctx.Err() without a lookup.
func Missing(ctx context.Context, g Geocoder, camps []domain.Camp) []Result {
	var out []Result
	for _, c := range camps {
		if c.Coordinates != nil || Decide(true, "", c.Address) != Lookup {
			continue
		}
		if ctx.Err() != nil {
			out = append(out, Result{Name: c.Name, Err: ctx.Err()})
			continue
		}
		coords, err := g.Geocode(ctx, c.Address)
		out = append(out, Result{Name: c.Name, Coordinates: coords, Err: err})
	}
	return out
}
