// Package server provides the routemcp MCP server: polyline tools plus
// free-text directions backed by Google or OSRM.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/routemcp/pkg/config"
	"github.com/NERVsystems/routemcp/pkg/directions"
	"github.com/NERVsystems/routemcp/pkg/metrics"
	"github.com/NERVsystems/routemcp/pkg/tools"
	"github.com/NERVsystems/routemcp/pkg/tools/prompts"
	"github.com/NERVsystems/routemcp/pkg/version"
)

// ServerName is the name of the MCP server
const ServerName = version.Name

// Server encapsulates the MCP server with routing tools.
type Server struct {
	srv        *server.MCPServer
	cfg        *config.Config
	logger     *slog.Logger
	directions *directions.Service
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("initializing routemcp server",
		"build", version.Info(),
		"provider", cfg.Provider)

	client := directions.NewClient(
		directions.WithHTTPClient(directions.NewHTTPClient(cfg.HTTPTimeout)),
		directions.WithRateLimiter(directions.NewRateLimiter(cfg.Limits())),
		directions.WithUserAgent(cfg.UserAgent),
		directions.WithLogger(logger.With("component", "http")),
	)

	provider, err := newProvider(cfg, client)
	if err != nil {
		return nil, err
	}

	svc := directions.NewService(provider,
		directions.WithCache(cfg.Cache.Size, cfg.Cache.TTL),
		directions.WithServiceLogger(logger.With("component", "directions")),
	)

	// Create MCP server with options
	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	// Create tool registry and register all tools
	registry := tools.NewRegistry(logger, svc)
	registry.RegisterTools(srv)
	prompts.RegisterRoutingPrompts(srv)

	return &Server{
		srv:        srv,
		cfg:        cfg,
		logger:     logger,
		directions: svc,
	}, nil
}

// newProvider builds the directions provider named by cfg.Provider.
func newProvider(cfg *config.Config, client *directions.Client) (directions.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		return directions.NewGoogleProvider(client, cfg.Google.BaseURL, cfg.Google.APIKey), nil
	case config.ProviderOSRM:
		geocoder := directions.NewNominatimGeocoder(client, cfg.Nominatim.BaseURL)
		return directions.NewOSRMProvider(client, geocoder, cfg.OSRM.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// Directions returns the directions service the tools use.
func (s *Server) Directions() *directions.Service {
	return s.directions
}

// Run starts the MCP server using stdin/stdout for communication. When
// metrics.addr is configured, /metrics is served until Run returns.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, s.cfg.Metrics.Addr, s.logger); err != nil {
				s.logger.Error("metrics server failed", "addr", s.cfg.Metrics.Addr, "error", err)
			}
		}()
	}

	err := server.ServeStdio(s.srv)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
