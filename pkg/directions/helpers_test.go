package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NERVsystems/routemcp/pkg/geo"
	"github.com/NERVsystems/routemcp/pkg/testutil"
)

// newTestClient returns a client that never waits on rate limits.
func newTestClient() *Client {
	limits := map[string]Limit{
		ServiceGoogle:    {RPS: 1000, Burst: 100},
		ServiceOSRM:      {RPS: 1000, Burst: 100},
		ServiceNominatim: {RPS: 1000, Burst: 100},
	}
	return NewClient(
		WithHTTPClient(NewHTTPClient(5*time.Second)),
		WithRateLimiter(NewRateLimiter(limits)),
		WithUserAgent("routemcp-test"),
		WithLogger(testutil.DiscardLogger()),
	)
}

// newJSONServer serves body with status for every request and counts hits.
func newJSONServer(t *testing.T, status int, body string, check func(*http.Request)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// stubGeocoder resolves names from a fixed table.
type stubGeocoder struct {
	places map[string]geo.Location
	err    error
}

func (g *stubGeocoder) Geocode(ctx context.Context, query string) (*Place, error) {
	if g.err != nil {
		return nil, g.err
	}
	loc, ok := g.places[query]
	if !ok {
		return nil, ErrNoRoute
	}
	return &Place{Name: query, Location: loc}, nil
}

// stubProvider returns a canned result and counts calls.
type stubProvider struct {
	route *Route
	err   error
	calls atomic.Int32
	last  Request
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Directions(ctx context.Context, req Request) (*Route, error) {
	p.calls.Add(1)
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	r := *p.route
	return &r, nil
}
