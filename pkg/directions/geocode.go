package directions

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/NERVsystems/routemcp/pkg/geo"
)

// NominatimBaseURL is OSM's public geocoding service.
const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// Place is a geocoded location.
type Place struct {
	Name     string       `json:"name"`
	Location geo.Location `json:"location"`
}

// Geocoder resolves free text to a single place.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Place, error)
}

// NominatimGeocoder geocodes with Nominatim's /search endpoint.
type NominatimGeocoder struct {
	client  *Client
	baseURL string
}

// NewNominatimGeocoder creates a geocoder. An empty baseURL selects the
// public Nominatim instance.
func NewNominatimGeocoder(client *Client, baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	return &NominatimGeocoder{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

var (
	parenthetical = regexp.MustCompile(`\s*\(([^)]*)\)`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// sanitizeAddress strips parenthetical content and collapses whitespace.
// It returns the cleaned address and the text that was inside the
// parentheses, which Nominatim tends to match poorly.
func sanitizeAddress(address string) (string, string) {
	var inner []string
	for _, m := range parenthetical.FindAllStringSubmatch(address, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			inner = append(inner, s)
		}
	}
	cleaned := parenthetical.ReplaceAllString(address, "")
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
	return cleaned, strings.Join(inner, " ")
}

// parseLatLng accepts a literal "lat,lng" pair.
func parseLatLng(s string) (geo.Location, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Location{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Location{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return geo.Location{}, false
	}
	if geo.ValidateCoords(lat, lng) != nil {
		return geo.Location{}, false
	}
	return geo.Location{Latitude: lat, Longitude: lng}, true
}

// Geocode resolves query to the best Nominatim match. Literal "lat,lng"
// input is returned without a request.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*Place, error) {
	if loc, ok := parseLatLng(query); ok {
		return &Place{Name: query, Location: loc}, nil
	}

	cleaned, _ := sanitizeAddress(query)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty place name", ErrInvalidRequest)
	}

	q := url.Values{}
	q.Set("q", cleaned)
	q.Set("format", "json")
	q.Set("limit", "1")
	reqURL := g.baseURL + "/search?" + q.Encode()

	var results []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := g.client.GetJSON(ctx, ServiceNominatim, "Nominatim", reqURL, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no place matches %q. %s", ErrNoRoute, query, GuidanceGeocodeNoResults)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: Nominatim latitude %q: %w", ErrBadResponse, results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: Nominatim longitude %q: %w", ErrBadResponse, results[0].Lon, err)
	}

	return &Place{
		Name:     results[0].DisplayName,
		Location: geo.Location{Latitude: lat, Longitude: lon},
	}, nil
}
