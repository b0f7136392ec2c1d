package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/NERVsystems/routemcp/pkg/config"
	"github.com/NERVsystems/routemcp/pkg/server"
	"github.com/NERVsystems/routemcp/pkg/version"
)

// serverKey is our entry under mcpServers in the client config.
const serverKey = "routemcp"

var (
	showVersion    bool
	debug          bool
	configPath     string
	generateConfig string
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&configPath, "config", "", "Path to a routemcp config file (default: routemcp.yaml in . or ./configs)")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate or update an MCP client config file (.json) at the specified path")
}

func main() {
	flag.Parse()

	// Show version and exit if requested
	if showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(); err != nil {
		slog.Error("routemcp failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Bootstrap logging until the config is known. stdout carries the
	// MCP stdio transport, so logs always go to stderr.
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, "text")
	slog.SetDefault(logger)

	// Generate the MCP client config if requested
	if generateConfig != "" {
		var args []string
		if configPath != "" {
			abs, err := filepath.Abs(configPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			args = append(args, "-config", abs)
		}
		if err := generateClientConfig(generateConfig, args); err != nil {
			return fmt.Errorf("generate client config: %w", err)
		}
		logger.Info("successfully generated MCP client config", "path", generateConfig)
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if !debug {
		if level, err = config.ParseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	logger = newLogger(os.Stderr, level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting routemcp server",
		"version", version.BuildVersion,
		"provider", cfg.Provider,
		"log_level", level.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create and run the MCP server
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	logger.Info("server initialized, waiting for requests")
	return srv.Run(ctx)
}

// newLogger builds the process logger in text or json format.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// validateConfigPath rejects paths that are empty, not .json or that
// climb out of their directory.
func validateConfigPath(outputPath string) error {
	if outputPath == "" {
		return errors.New("config path must not be empty")
	}
	if !strings.EqualFold(filepath.Ext(outputPath), ".json") {
		return fmt.Errorf("config path %q must have a .json extension", outputPath)
	}
	for _, part := range strings.Split(filepath.ToSlash(outputPath), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", outputPath)
		}
	}
	return nil
}

// generateClientConfig creates or updates an MCP client config file so
// that mcpServers.routemcp launches this binary with args. Other entries
// in an existing file are preserved.
func generateClientConfig(outputPath string, args []string) error {
	logger := slog.Default()

	if err := validateConfigPath(outputPath); err != nil {
		return err
	}

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	if args == nil {
		args = []string{}
	}
	serverConfig := map[string]any{
		"command": absExecPath,
		"args":    args,
	}

	clientConfig := make(map[string]any)
	data, err := os.ReadFile(outputPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &clientConfig); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			clientConfig = make(map[string]any)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read existing config: %w", err)
	}

	// Check if mcpServers exists, create it if not
	mcpServers, ok := clientConfig["mcpServers"].(map[string]any)
	if !ok {
		mcpServers = make(map[string]any)
		clientConfig["mcpServers"] = mcpServers
	}

	// Add or update our server
	mcpServers[serverKey] = serverConfig

	// Marshal to JSON with pretty printing
	data, err = json.MarshalIndent(clientConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	// Make sure parent directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// The file may carry other servers' secrets
	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(outputPath, 0o600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	return nil
}
