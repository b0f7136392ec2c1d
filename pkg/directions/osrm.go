package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/polyline"
)

// OSRMBaseURL is the public OSRM demo server.
const OSRMBaseURL = "https://router.project-osrm.org"

// osrmResponse represents the response from the OSRM routing service
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Routes  []osrmRoute `json:"routes,omitempty"`
}

// osrmRoute represents a single route in the OSRM response
type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry string  `json:"geometry"`
	Legs     []struct {
		Summary string `json:"summary"`
	} `json:"legs"`
}

// OSRMProvider geocodes free text with a Geocoder and routes with OSRM.
type OSRMProvider struct {
	client   *Client
	geocoder Geocoder
	baseURL  string
}

// NewOSRMProvider creates a provider. An empty baseURL selects OSRMBaseURL.
func NewOSRMProvider(client *Client, geocoder Geocoder, baseURL string) *OSRMProvider {
	if baseURL == "" {
		baseURL = OSRMBaseURL
	}
	return &OSRMProvider{
		client:   client,
		geocoder: geocoder,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Name implements Provider.
func (p *OSRMProvider) Name() string { return ServiceOSRM }

// osrmProfile maps a TravelMode to an OSRM profile
func osrmProfile(mode TravelMode) string {
	switch mode {
	case TravelModeCycling:
		return "bike"
	case TravelModeWalking:
		return "foot"
	default:
		return "car"
	}
}

// Directions implements Provider.
func (p *OSRMProvider) Directions(ctx context.Context, req Request) (*Route, error) {
	origin, err := p.geocoder.Geocode(ctx, req.Origin)
	if err != nil {
		return nil, fmt.Errorf("geocode origin: %w", err)
	}
	destination, err := p.geocoder.Geocode(ctx, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("geocode destination: %w", err)
	}

	// OSRM takes lon,lat pairs
	coordinates := fmt.Sprintf("%f,%f;%f,%f",
		origin.Location.Longitude, origin.Location.Latitude,
		destination.Location.Longitude, destination.Location.Latitude,
	)

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline")
	q.Set("steps", "false")
	q.Set("alternatives", "false")
	reqURL := fmt.Sprintf("%s/route/v1/%s/%s?%s", p.baseURL, osrmProfile(req.Mode), coordinates, q.Encode())

	var resp osrmResponse
	if err := p.client.GetJSON(ctx, ServiceOSRM, "OSRM", reqURL, &resp); err != nil {
		// OSRM answers NoRoute with a 400 and a JSON body
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest &&
			(strings.Contains(apiErr.Message, `"NoRoute"`) || strings.Contains(apiErr.Message, `"NoSegment"`)) {
			return nil, fmt.Errorf("%w: %s", ErrNoRoute, GuidanceOSRMRouteNotFound)
		}
		return nil, err
	}

	switch resp.Code {
	case "Ok":
	case "NoRoute", "NoSegment":
		return nil, fmt.Errorf("%w: %s", ErrNoRoute, resp.Message)
	default:
		return nil, NewAPIError("OSRM", http.StatusBadRequest, fmt.Sprintf("%s: %s", resp.Code, resp.Message), "")
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoRoute
	}

	best := resp.Routes[0]
	points, err := polyline.Decode(best.Geometry)
	metrics.ObserveDecode(err)
	if err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}

	route := &Route{
		Points:          points,
		EncodedPolyline: best.Geometry,
		Distance:        FormatDistance(best.Distance),
		Duration:        FormatDuration(best.Duration),
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		StartAddress:    origin.Name,
		EndAddress:      destination.Name,
		Provider:        p.Name(),
	}
	if len(best.Legs) > 0 {
		route.Summary = best.Legs[0].Summary
	}
	return route, nil
}
