package directions

import (
	"context"
	"fmt"
	"strings"

	"github.com/NERVsystems/routemcp/pkg/geo"
)

// TravelMode represents different transportation methods
type TravelMode string

const (
	TravelModeDriving TravelMode = "driving"
	TravelModeWalking TravelMode = "walking"
	TravelModeCycling TravelMode = "cycling"
)

// ParseTravelMode maps a user-supplied mode to a TravelMode. Empty input
// means driving.
func ParseTravelMode(mode string) (TravelMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "driving", "drive", "car":
		return TravelModeDriving, nil
	case "walking", "walk", "foot":
		return TravelModeWalking, nil
	case "cycling", "bicycling", "bicycle", "bike":
		return TravelModeCycling, nil
	default:
		return "", fmt.Errorf("%w: unknown travel mode %q", ErrInvalidRequest, mode)
	}
}

// Request is a free-text directions query.
type Request struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Mode        TravelMode `json:"mode"`
}

// Normalize trims the request and fills in the default mode.
func (r Request) Normalize() (Request, error) {
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Origin == "" {
		return r, fmt.Errorf("%w: origin must not be empty", ErrInvalidRequest)
	}
	if r.Destination == "" {
		return r, fmt.Errorf("%w: destination must not be empty", ErrInvalidRequest)
	}

	mode, err := ParseTravelMode(string(r.Mode))
	if err != nil {
		return r, err
	}
	r.Mode = mode
	return r, nil
}

// Route is the first route found for a request, ready for rendering.
type Route struct {
	Points          geo.Route `json:"points"`
	EncodedPolyline string    `json:"encoded_polyline"`
	Distance        string    `json:"distance"` // human readable, e.g. "12.3 km"
	Duration        string    `json:"duration"` // human readable, e.g. "15 mins"
	DistanceMeters  float64   `json:"distance_meters"`
	DurationSeconds float64   `json:"duration_seconds"`
	StartAddress    string    `json:"start_address,omitempty"`
	EndAddress      string    `json:"end_address,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Provider        string    `json:"provider"`
}

// Provider looks up directions from an external routing service.
type Provider interface {
	Name() string
	Directions(ctx context.Context, req Request) (*Route, error)
}
