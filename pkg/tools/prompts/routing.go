// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterRoutingPrompts registers all routing-related prompts with the MCP server
func RegisterRoutingPrompts(s *server.MCPServer) {
	// Register the main routing prompt
	s.AddPrompt(mcp.NewPrompt("routing",
		mcp.WithPromptDescription("Instructions for properly using the directions and polyline tools"),
	), RoutingPromptHandler)

	// Register examples for get_directions
	s.AddPrompt(mcp.NewPrompt("get_directions_examples",
		mcp.WithPromptDescription("Examples of properly formatted directions queries"),
	), DirectionsExamplesHandler)
}

// RoutingPromptHandler returns the main prompt for routing tools
func RoutingPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to tools that find routes between places and work with encoded polylines.
When using these tools:

1. Give get_directions an origin and a destination as clear place names or addresses, e.g. "Ferry Building, San Francisco, CA"
2. Always include city and country for international locations
3. Literal coordinates are accepted as "lat,lng", e.g. "37.7955,-122.3937"
4. The route's encoded_polyline can be passed to decode_polyline or route_geojson without modification
5. Use precision 6 only for OSRM polyline6 strings; everything else is precision 5

READING THE STATUS:
- "no_route": the service answered but no route exists, or a place could not be found. Rephrase the places.
- "invalid_request": origin or destination was empty, or the mode was unknown.
- "network_error": the routing service could not be reached. Retrying later may help.
- "parse_error": the service answered with data that could not be read, such as a malformed polyline.
- "service_error": the service refused the request. Follow the guidance in the error.

Never retry a failed request more than once without changing it.`

	return mcp.NewGetPromptResult(
		"Routing Tool Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// DirectionsExamplesHandler returns examples for get_directions
func DirectionsExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE GET_DIRECTIONS USAGE:

User: "How long does it take to drive from San Francisco to Oakland?"
AI: *uses get_directions with origin "San Francisco, CA", destination "Oakland, CA"*

User: "Can I walk from the Louvre to the Eiffel Tower?"
AI: *uses get_directions with origin "Louvre Museum, Paris, France", destination "Eiffel Tower, Paris, France", mode "walking"*

User: "Show me the bike route on a map"
AI: *uses get_directions with mode "cycling", then route_geojson with the returned encoded_polyline*`

	return mcp.NewGetPromptResult(
		"Directions Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
