// Package version provides build metadata and version information.
package version

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/NERVsystems/routemcp/pkg/polyline"
)

const (
	// Name identifies the binary to MCP clients and upstream services.
	Name = "routemcp"

	// Homepage is advertised in the User-Agent so service operators can
	// reach us, as the Nominatim usage policy asks.
	Homepage = "https://github.com/NERVsystems/routemcp"
)

var (
	// BuildVersion is the semantic version of the build
	BuildVersion = "0.1.0"

	// BuildCommit is the git commit hash of the build
	BuildCommit = "unknown"

	// BuildDate is the date and time of the build
	BuildDate = "unknown"

	// GoVersion is the version of Go used to build
	GoVersion = runtime.Version()
)

// String returns a formatted version string
func String() string {
	return fmt.Sprintf("%s version %s (%s) built on %s with %s",
		Name, BuildVersion, BuildCommit, BuildDate, GoVersion)
}

// UserAgent returns the identifying agent sent on upstream requests,
// e.g. "routemcp/0.1.0 (+https://github.com/NERVsystems/routemcp)".
func UserAgent() string {
	return fmt.Sprintf("%s/%s (+%s)", Name, BuildVersion, Homepage)
}

// Info returns build metadata along with the polyline precisions the
// codec accepts.
func Info() map[string]string {
	return map[string]string{
		"name":                       Name,
		"version":                    BuildVersion,
		"commit":                     BuildCommit,
		"build_date":                 BuildDate,
		"go_version":                 GoVersion,
		"polyline_default_precision": strconv.Itoa(polyline.DefaultPrecision),
		"polyline_max_precision":     strconv.Itoa(polyline.MaxPrecision),
	}
}
