package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/routemcp/pkg/directions"
	"github.com/NERVsystems/routemcp/pkg/polyline"
)

// Common error guidance messages
const (
	GuidancePolylineFormat = "Pass the encoded string exactly as the service returned it. Backslashes in JSON sources must be unescaped first."
	GuidancePrecision      = "Use precision 5 for Google polylines or 6 for OSRM polyline6."
	GuidancePoints         = "Provide an array of {\"latitude\": ..., \"longitude\": ...} objects with latitude in [-90, 90] and longitude in [-180, 180]."
)

// ErrorWithGuidance returns a properly formatted error response with user guidance.
func ErrorWithGuidance(message, guidance string) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s\n\nGuidance: %s", message, guidance)
	return mcp.NewToolResultError(errorText)
}

// PolylineError reports a decode or precision failure, including the
// byte offset for malformed input.
func PolylineError(err error) *mcp.CallToolResult {
	var malformed *polyline.MalformedError
	switch {
	case errors.As(err, &malformed):
		return ErrorWithGuidance(
			fmt.Sprintf("invalid polyline at offset %d: %s", malformed.Offset, malformed.Reason),
			GuidancePolylineFormat,
		)
	case errors.Is(err, polyline.ErrInvalidPrecision):
		return ErrorWithGuidance(err.Error(), GuidancePrecision)
	case errors.Is(err, polyline.ErrUnencodable):
		return ErrorWithGuidance(err.Error(), GuidancePoints)
	default:
		return ErrorResponse(err.Error())
	}
}

// DirectionsError reports a failed lookup with its triage status so the
// caller can tell "no route" from a network or data problem.
func DirectionsError(err error) *mcp.CallToolResult {
	status := directions.Classify(err)
	return ErrorWithGuidance(fmt.Sprintf("%s: %v", status, err), directions.Guidance(err))
}
