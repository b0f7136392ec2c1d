package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/NERVsystems/routemcp/pkg/polyline"
)

var (
	// ErrNoRoute means the service answered but found no route (or could
	// not resolve one of the places).
	ErrNoRoute = errors.New("no route found")

	// ErrInvalidRequest means the request was rejected before any call.
	ErrInvalidRequest = errors.New("invalid directions request")

	// ErrNetwork wraps transport failures talking to a service.
	ErrNetwork = errors.New("network error")

	// ErrBadResponse wraps bodies that could not be decoded.
	ErrBadResponse = errors.New("unreadable service response")
)

// APIError represents an error that occurred while communicating with
// an external API service, with information to help users recover.
type APIError struct {
	Service     string // The API service name (e.g., "Google", "OSRM")
	StatusCode  int    // HTTP status code, or the closest match for in-body statuses
	Message     string // Error message
	Recoverable bool   // Whether the error can be recovered from
	Guidance    string // Guidance for users on how to recover
}

// Error implements the error interface and provides a formatted error message.
func (e *APIError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s API error (%d): %s. %s", e.Service, e.StatusCode, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// Common error guidance messages
const (
	GuidanceGoogleDenied      = "The Directions API rejected the key. Check google.api_key and that the API is enabled."
	GuidanceGoogleQuota       = "The Directions API quota is exhausted. Please try again later."
	GuidanceGoogleInvalid     = "The request was rejected. Check that origin and destination are non-empty place names or addresses."
	GuidanceOSRMRouteNotFound = "No route could be found between the specified points. Try locations with accessible roads."
	GuidanceGeocodeNoResults  = "Try a more standard address format, or add city and country."

	GuidanceGeneral      = "Please try again later or modify your request parameters."
	GuidanceNetworkError = "Check your internet connection and try again."
	GuidanceDataError    = "The data received was incomplete or malformed. Try again or use a different provider."
)

// NewAPIError creates a new APIError with appropriate guidance based on status code.
func NewAPIError(service string, statusCode int, message, guidance string) *APIError {
	// Use provided guidance if available, otherwise infer based on status code
	if guidance == "" {
		switch statusCode {
		case http.StatusTooManyRequests:
			guidance = "Rate limit exceeded. Please try again in a few moments."
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			guidance = "The request timed out. Please try again."
		case http.StatusBadRequest:
			guidance = "The request was invalid. Check your parameters and try again."
		case http.StatusForbidden, http.StatusUnauthorized:
			guidance = "The service refused the credentials. Check the configured API key."
		case http.StatusInternalServerError:
			guidance = "The server encountered an error. This is likely temporary, please try again later."
		case http.StatusServiceUnavailable:
			guidance = "The service is temporarily unavailable. Please try again later."
		default:
			guidance = GuidanceGeneral
		}
	}

	return &APIError{
		Service:     service,
		StatusCode:  statusCode,
		Message:     message,
		Recoverable: statusCode != http.StatusBadRequest && statusCode != http.StatusForbidden,
		Guidance:    guidance,
	}
}

// Status is the triage outcome of a directions lookup, separating "no
// route" from transport failures from unreadable data.
type Status string

const (
	StatusFound          Status = "found"
	StatusNoRoute        Status = "no_route"
	StatusInvalidRequest Status = "invalid_request"
	StatusNetworkError   Status = "network_error"
	StatusParseError     Status = "parse_error"
	StatusServiceError   Status = "service_error"
)

// Classify maps the error returned by a lookup to its Status.
func Classify(err error) Status {
	var apiErr *APIError
	switch {
	case err == nil:
		return StatusFound
	case errors.Is(err, ErrNoRoute):
		return StatusNoRoute
	case errors.Is(err, ErrInvalidRequest):
		return StatusInvalidRequest
	case errors.Is(err, polyline.ErrMalformedPolyline), errors.Is(err, ErrBadResponse):
		return StatusParseError
	case errors.As(err, &apiErr):
		return StatusServiceError
	case errors.Is(err, ErrNetwork),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return StatusNetworkError
	default:
		return StatusServiceError
	}
}

// Guidance returns the recovery hint for err.
func Guidance(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Guidance
	}

	switch Classify(err) {
	case StatusNoRoute:
		return GuidanceOSRMRouteNotFound
	case StatusInvalidRequest:
		return "Provide both an origin and a destination."
	case StatusNetworkError:
		return GuidanceNetworkError
	case StatusParseError:
		return GuidanceDataError
	default:
		return GuidanceGeneral
	}
}
