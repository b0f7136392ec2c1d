// Command polyline decodes and encodes Google encoded polylines offline.
//
//	polyline decode [-precision 5] [-geojson] <encoded>
//	polyline encode [-precision 5] [--] lat,lng lat,lng ...
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/NERVsystems/routemcp/pkg/geo"
	"github.com/NERVsystems/routemcp/pkg/polyline"
)

const usage = `Usage:
  polyline decode [-precision 5] [-geojson] <encoded>
  polyline encode [-precision 5] [--] lat,lng [lat,lng ...]

Put -- before the points when the first latitude is negative.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "decode":
		err = runDecode(args[1:], stdout, stderr)
	case "encode":
		err = runEncode(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func runDecode(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	precision := fs.Int("precision", polyline.DefaultPrecision, "decimal places of the encoding (1-6)")
	asGeoJSON := fs.Bool("geojson", false, "print a GeoJSON FeatureCollection instead of points")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("decode takes exactly one encoded polyline")
	}

	points, err := polyline.DecodeWithPrecision(fs.Arg(0), *precision)
	if err != nil {
		return err
	}

	if *asGeoJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(geo.Route(points).FeatureCollection())
	}

	for i, pt := range points {
		fmt.Fprintf(stdout, "%d\t%.*f\t%.*f\n", i, *precision, pt.Latitude, *precision, pt.Longitude)
	}
	return nil
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	precision := fs.Int("precision", polyline.DefaultPrecision, "decimal places of the encoding (1-6)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("encode needs at least one lat,lng pair")
	}

	points := make([]geo.Location, 0, fs.NArg())
	for _, arg := range fs.Args() {
		loc, err := parsePoint(arg)
		if err != nil {
			return err
		}
		points = append(points, loc)
	}

	encoded, err := polyline.EncodeWithPrecision(points, *precision)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, encoded)
	return nil
}

// parsePoint parses "lat,lng".
func parsePoint(s string) (geo.Location, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Location{}, fmt.Errorf("point %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return geo.Location{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	if err := geo.ValidateCoords(lat, lng); err != nil {
		return geo.Location{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geo.Location{Latitude: lat, Longitude: lng}, nil
}
