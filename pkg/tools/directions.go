package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/routemcp/pkg/directions"
)

// GetDirectionsOutput is the result of get_directions.
type GetDirectionsOutput struct {
	Status directions.Status `json:"status"`
	Route  *directions.Route `json:"route,omitempty"`
}

// GetDirectionsTool returns a tool definition for free-text directions
func GetDirectionsTool() mcp.Tool {
	return mcp.NewTool("get_directions",
		mcp.WithDescription("Get the route, distance and travel time between two places given as addresses, place names or lat,lng pairs"),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Where the trip starts, e.g. \"Ferry Building, San Francisco\""),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Where the trip ends"),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode (driving, walking, cycling)"),
			mcp.DefaultString(string(directions.TravelModeDriving)),
		),
	)
}

// handleGetDirections resolves the request through the directions service.
func (r *Registry) handleGetDirections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_directions")

	dirReq := directions.Request{
		Origin:      mcp.ParseString(req, "origin", ""),
		Destination: mcp.ParseString(req, "destination", ""),
		Mode:        directions.TravelMode(mcp.ParseString(req, "mode", string(directions.TravelModeDriving))),
	}

	route, err := r.directions.Directions(ctx, dirReq)
	if err != nil {
		return DirectionsError(err), nil
	}

	return jsonResult(logger, GetDirectionsOutput{
		Status: directions.StatusFound,
		Route:  route,
	}), nil
}
