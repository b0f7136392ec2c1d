package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/routemcp/pkg/directions"
	"github.com/NERVsystems/routemcp/pkg/metrics"
)

// Registry holds all MCP tool registrations for the routemcp service.
type Registry struct {
	logger     *slog.Logger
	directions *directions.Service
}

// NewRegistry creates a new MCP tool registry. svc may be nil, in which
// case only the offline polyline tools are offered.
func NewRegistry(logger *slog.Logger, svc *directions.Service) *Registry {
	return &Registry{
		logger:     logger,
		directions: svc,
	}
}

// ToolDefinition represents a routemcp MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     server.ToolHandlerFunc
}

// GetToolDefinitions returns all routemcp MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	defs := []ToolDefinition{
		// Polyline Tools
		{
			Name:        "decode_polyline",
			Description: "Decode an encoded polyline into latitude/longitude points",
			Tool:        DecodePolylineTool(),
			Handler:     HandleDecodePolyline,
		},
		{
			Name:        "encode_polyline",
			Description: "Encode latitude/longitude points as a polyline",
			Tool:        EncodePolylineTool(),
			Handler:     HandleEncodePolyline,
		},
		{
			Name:        "route_geojson",
			Description: "Render an encoded polyline as GeoJSON",
			Tool:        RouteGeoJSONTool(),
			Handler:     HandleRouteGeoJSON,
		},
	}

	// Directions Tools
	if r.directions != nil {
		defs = append(defs, ToolDefinition{
			Name:        "get_directions",
			Description: "Get a route with distance and duration between two places",
			Tool:        GetDirectionsTool(),
			Handler:     r.handleGetDirections,
		})
	}
	return defs
}

// instrument wraps a handler to count calls by outcome.
func instrument(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := h(ctx, req)
		metrics.ObserveToolCall(name, err != nil || (result != nil && result.IsError))
		return result, err
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, instrument(def.Name, def.Handler))
	}
}
