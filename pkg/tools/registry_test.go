package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NERVsystems/routemcp/pkg/directions"
	"github.com/NERVsystems/routemcp/pkg/geo"
	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/testutil"
)

// fakeProvider answers every lookup with route or err.
type fakeProvider struct {
	route *directions.Route
	err   error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Directions(ctx context.Context, req directions.Request) (*directions.Route, error) {
	if p.err != nil {
		return nil, p.err
	}
	r := *p.route
	return &r, nil
}

func newRegistry(p directions.Provider) *Registry {
	logger := testutil.DiscardLogger()
	return NewRegistry(logger, directions.NewService(p, directions.WithServiceLogger(logger)))
}

func TestGetToolDefinitions(t *testing.T) {
	offline := NewRegistry(testutil.DiscardLogger(), nil)
	var names []string
	for _, def := range offline.GetToolDefinitions() {
		names = append(names, def.Name)
		assert.Equal(t, def.Name, def.Tool.Name)
		assert.NotNil(t, def.Handler)
	}
	assert.Equal(t, []string{"decode_polyline", "encode_polyline", "route_geojson"}, names)

	online := newRegistry(&fakeProvider{})
	defs := online.GetToolDefinitions()
	require.Len(t, defs, 4)
	assert.Equal(t, "get_directions", defs[3].Name)
	assert.Equal(t, "get_directions", defs[3].Tool.Name)
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))
	assert.NotPanics(t, func() {
		newRegistry(&fakeProvider{}).RegisterTools(s)
	})
}

func TestInstrumentCountsOutcomes(t *testing.T) {
	okBefore := promtest.ToFloat64(metrics.ToolCalls.WithLabelValues("decode_polyline", "ok"))
	errBefore := promtest.ToFloat64(metrics.ToolCalls.WithLabelValues("decode_polyline", "error"))

	h := instrument("decode_polyline", HandleDecodePolyline)

	_, err := h(context.Background(), newRequest("decode_polyline", map[string]any{"encoded": "??"}))
	require.NoError(t, err)
	_, err = h(context.Background(), newRequest("decode_polyline", map[string]any{"encoded": "?"}))
	require.NoError(t, err)

	assert.Equal(t, okBefore+1, promtest.ToFloat64(metrics.ToolCalls.WithLabelValues("decode_polyline", "ok")))
	assert.Equal(t, errBefore+1, promtest.ToFloat64(metrics.ToolCalls.WithLabelValues("decode_polyline", "error")))
}

func TestHandleGetDirections(t *testing.T) {
	route := &directions.Route{
		Points: geo.Route{
			{Latitude: 37.7749, Longitude: -122.4194},
			{Latitude: 37.8044, Longitude: -122.2711},
		},
		EncodedPolyline: "c|peFf`ejVkwD{}[",
		Distance:        "13.4 km",
		Duration:        "25 mins",
		Provider:        "fake",
	}
	r := newRegistry(&fakeProvider{route: route})

	result, err := r.handleGetDirections(context.Background(), newRequest("get_directions", map[string]any{
		"origin":      "San Francisco",
		"destination": "Oakland",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var out GetDirectionsOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, directions.StatusFound, out.Status)
	require.NotNil(t, out.Route)
	assert.Equal(t, "13.4 km", out.Route.Distance)
	assert.Equal(t, "25 mins", out.Route.Duration)
	require.Len(t, out.Route.Points, 2)
	assert.InDelta(t, 37.8044, out.Route.Points[1].Latitude, 1e-9)
}

func TestHandleGetDirectionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		args     map[string]any
		contains []string
	}{
		{
			name:     "no route",
			err:      fmt.Errorf("geocode origin: %w", directions.ErrNoRoute),
			args:     map[string]any{"origin": "Atlantis", "destination": "Oakland"},
			contains: []string{"no_route", directions.GuidanceOSRMRouteNotFound},
		},
		{
			name:     "network",
			err:      fmt.Errorf("%w: dial tcp: connection refused", directions.ErrNetwork),
			args:     map[string]any{"origin": "a", "destination": "b"},
			contains: []string{"network_error", directions.GuidanceNetworkError},
		},
		{
			name:     "unreadable response",
			err:      fmt.Errorf("%w: Google Directions: unexpected EOF", directions.ErrBadResponse),
			args:     map[string]any{"origin": "a", "destination": "b"},
			contains: []string{"parse_error", directions.GuidanceDataError},
		},
		{
			name:     "missing destination",
			args:     map[string]any{"origin": "a"},
			contains: []string{"invalid_request", "destination must not be empty"},
		},
		{
			name:     "unknown mode",
			args:     map[string]any{"origin": "a", "destination": "b", "mode": "rocket"},
			contains: []string{"invalid_request", "rocket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistry(&fakeProvider{err: tt.err, route: &directions.Route{}})

			result, err := r.handleGetDirections(context.Background(), newRequest("get_directions", tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)

			text := resultText(t, result)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestErrorWithGuidance(t *testing.T) {
	result := ErrorWithGuidance("something broke", "try again")
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: something broke\n\nGuidance: try again", resultText(t, result))
}
