package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/routemcp/pkg/geo"
	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/polyline"
)

// DecodePolylineOutput is the result of decode_polyline.
type DecodePolylineOutput struct {
	Points       []geo.Location   `json:"points"`
	Count        int              `json:"count"`
	Start        *geo.Location    `json:"start,omitempty"`
	End          *geo.Location    `json:"end,omitempty"`
	Bounds       *geo.BoundingBox `json:"bounds,omitempty"`
	Center       *geo.Location    `json:"center,omitempty"`
	LengthMeters float64          `json:"length_meters"`
}

// EncodePolylineOutput is the result of encode_polyline.
type EncodePolylineOutput struct {
	Encoded string `json:"encoded"`
	Count   int    `json:"count"`
}

func precisionOption() mcp.ToolOption {
	return mcp.WithNumber("precision",
		mcp.Description("Decimal places of the encoding: 5 for Google, 6 for OSRM polyline6"),
		mcp.DefaultNumber(polyline.DefaultPrecision),
	)
}

// parsePrecision reads the optional precision argument.
func parsePrecision(req mcp.CallToolRequest) (int, error) {
	p := mcp.ParseFloat64(req, "precision", polyline.DefaultPrecision)
	if p != math.Trunc(p) || p < 1 || p > polyline.MaxPrecision {
		return 0, fmt.Errorf("%w: %v (must be an integer from 1 to %d)", polyline.ErrInvalidPrecision, p, polyline.MaxPrecision)
	}
	return int(p), nil
}

// DecodePolylineTool returns a tool definition for polyline decoding
func DecodePolylineTool() mcp.Tool {
	return mcp.NewTool("decode_polyline",
		mcp.WithDescription("Decode an encoded polyline into its ordered latitude/longitude points"),
		mcp.WithString("encoded",
			mcp.Required(),
			mcp.Description("The encoded polyline string, e.g. a route's overview_polyline.points"),
		),
		precisionOption(),
		mcp.WithNumber("padding_meters",
			mcp.Description("Padding added around the returned bounds so a map viewport does not clip the route"),
			mcp.DefaultNumber(0),
		),
	)
}

// HandleDecodePolyline implements polyline decoding
func HandleDecodePolyline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "decode_polyline")

	encoded := mcp.ParseString(req, "encoded", "")
	precision, err := parsePrecision(req)
	if err != nil {
		return PolylineError(err), nil
	}
	padding := mcp.ParseFloat64(req, "padding_meters", 0)
	if padding < 0 {
		return ErrorWithGuidance(fmt.Sprintf("padding_meters must not be negative, got %v", padding),
			"Omit padding_meters or pass a distance in meters such as 500."), nil
	}

	points, err := polyline.DecodeWithPrecision(encoded, precision)
	metrics.ObserveDecode(err)
	if err != nil {
		logger.Debug("rejected polyline", "length", len(encoded), "error", err)
		return PolylineError(err), nil
	}

	route := geo.Route(points)
	out := DecodePolylineOutput{
		Points:       points,
		Count:        len(points),
		Bounds:       route.Bounds(),
		LengthMeters: route.Length(),
	}
	if out.Bounds != nil {
		if padding > 0 {
			out.Bounds.Buffer(padding)
		}
		center := out.Bounds.Center()
		out.Center = &center
	}
	if start, ok := route.Start(); ok {
		out.Start = &start
	}
	if end, ok := route.End(); ok {
		out.End = &end
	}
	return jsonResult(logger, out), nil
}

// EncodePolylineTool returns a tool definition for polyline encoding
func EncodePolylineTool() mcp.Tool {
	return mcp.NewTool("encode_polyline",
		mcp.WithDescription("Encode an ordered list of points as a polyline string"),
		mcp.WithArray("points",
			mcp.Required(),
			mcp.Description("Array of {latitude, longitude} objects in path order"),
		),
		precisionOption(),
	)
}

// HandleEncodePolyline implements polyline encoding
func HandleEncodePolyline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "encode_polyline")

	points, err := extractPoints(req)
	if err != nil {
		return ErrorWithGuidance(err.Error(), GuidancePoints), nil
	}
	precision, err := parsePrecision(req)
	if err != nil {
		return PolylineError(err), nil
	}

	encoded, err := polyline.EncodeWithPrecision(points, precision)
	if err != nil {
		return PolylineError(err), nil
	}
	return jsonResult(logger, EncodePolylineOutput{Encoded: encoded, Count: len(points)}), nil
}

// RouteGeoJSONTool returns a tool definition for rendering a polyline as GeoJSON
func RouteGeoJSONTool() mcp.Tool {
	return mcp.NewTool("route_geojson",
		mcp.WithDescription("Render an encoded polyline as a GeoJSON FeatureCollection with Start and End markers"),
		mcp.WithString("encoded",
			mcp.Required(),
			mcp.Description("The encoded polyline string"),
		),
		precisionOption(),
	)
}

// HandleRouteGeoJSON implements polyline to GeoJSON conversion
func HandleRouteGeoJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "route_geojson")

	encoded := mcp.ParseString(req, "encoded", "")
	precision, err := parsePrecision(req)
	if err != nil {
		return PolylineError(err), nil
	}

	points, err := polyline.DecodeWithPrecision(encoded, precision)
	metrics.ObserveDecode(err)
	if err != nil {
		return PolylineError(err), nil
	}

	fc := geo.Route(points).FeatureCollection()
	return jsonResult(logger, fc), nil
}

// extractPoints extracts the points array parameter from the request.
func extractPoints(req mcp.CallToolRequest) ([]geo.Location, error) {
	pointsRaw, ok := req.Params.Arguments["points"]
	if !ok {
		return nil, fmt.Errorf("missing required points parameter")
	}

	// Marshal and unmarshal to convert to our struct
	pointsJSON, err := json.Marshal(pointsRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal points: %w", err)
	}

	var points []geo.Location
	if err := json.Unmarshal(pointsJSON, &points); err != nil {
		return nil, fmt.Errorf("failed to parse points array: %w", err)
	}

	for i, p := range points {
		if err := geo.ValidateCoords(p.Latitude, p.Longitude); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return points, nil
}
