package directions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/polyline"
)

// GoogleBaseURL is the Google Maps Platform host.
const GoogleBaseURL = "https://maps.googleapis.com"

// googleResponse is the subset of the Directions API JSON we read.
type googleResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Routes       []googleRoute `json:"routes"`
}

type googleRoute struct {
	Summary          string `json:"summary"`
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	Legs []googleLeg `json:"legs"`
}

type googleLeg struct {
	Distance     googleTextValue `json:"distance"`
	Duration     googleTextValue `json:"duration"`
	StartAddress string          `json:"start_address"`
	EndAddress   string          `json:"end_address"`
}

type googleTextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

// GoogleProvider calls the Google Directions API, which accepts free-text
// origins and destinations directly.
type GoogleProvider struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewGoogleProvider creates a provider. An empty baseURL selects
// GoogleBaseURL.
func NewGoogleProvider(client *Client, baseURL, apiKey string) *GoogleProvider {
	if baseURL == "" {
		baseURL = GoogleBaseURL
	}
	return &GoogleProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return ServiceGoogle }

// googleMode maps a TravelMode to the API's mode parameter.
func googleMode(mode TravelMode) string {
	switch mode {
	case TravelModeWalking:
		return "walking"
	case TravelModeCycling:
		return "bicycling"
	default:
		return "driving"
	}
}

// Directions implements Provider.
func (p *GoogleProvider) Directions(ctx context.Context, req Request) (*Route, error) {
	q := url.Values{}
	q.Set("origin", req.Origin)
	q.Set("destination", req.Destination)
	q.Set("mode", googleMode(req.Mode))
	q.Set("key", p.apiKey)
	reqURL := p.baseURL + "/maps/api/directions/json?" + q.Encode()

	var resp googleResponse
	if err := p.client.GetJSON(ctx, ServiceGoogle, "Google Directions", reqURL, &resp); err != nil {
		return nil, err
	}

	if err := googleStatusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	gr := resp.Routes[0]
	points, err := polyline.Decode(gr.OverviewPolyline.Points)
	metrics.ObserveDecode(err)
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}

	route := &Route{
		Points:          points,
		EncodedPolyline: gr.OverviewPolyline.Points,
		Distance:        gr.Legs[0].Distance.Text,
		Duration:        gr.Legs[0].Duration.Text,
		StartAddress:    gr.Legs[0].StartAddress,
		EndAddress:      gr.Legs[len(gr.Legs)-1].EndAddress,
		Summary:         gr.Summary,
		Provider:        p.Name(),
	}
	for _, leg := range gr.Legs {
		route.DistanceMeters += leg.Distance.Value
		route.DurationSeconds += leg.Duration.Value
	}
	return route, nil
}

// googleStatusError maps the in-body status to our error taxonomy.
func googleStatusError(status, message string) error {
	if message == "" {
		message = status
	}

	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return fmt.Errorf("%w: %s", ErrNoRoute, message)
	case "INVALID_REQUEST", "MAX_WAYPOINTS_EXCEEDED", "MAX_ROUTE_LENGTH_EXCEEDED":
		return NewAPIError("Google Directions", http.StatusBadRequest, message, GuidanceGoogleInvalid)
	case "REQUEST_DENIED":
		return NewAPIError("Google Directions", http.StatusForbidden, message, GuidanceGoogleDenied)
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return NewAPIError("Google Directions", http.StatusTooManyRequests, message, GuidanceGoogleQuota)
	case "":
		return fmt.Errorf("%w: Google Directions response has no status", ErrBadResponse)
	default:
		return NewAPIError("Google Directions", http.StatusInternalServerError, message, "")
	}
}
