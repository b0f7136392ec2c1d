// Package polyline implements Google's Encoded Polyline Algorithm Format.
//
// Each point is stored as a pair of signed deltas from the previous point
// (latitude first), scaled to fixed precision and packed into 5-bit groups
// offset by 63 so that every byte is printable ASCII.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"errors"
	"fmt"
	"math"

	"github.com/NERVsystems/routemcp/pkg/geo"
)

const (
	// DefaultPrecision is the number of decimal places used by Google and
	// by OSRM's "polyline" geometry format (scale factor 1e5).
	DefaultPrecision = 5

	// MaxPrecision is the highest precision whose deltas still fit the
	// 32-bit accumulators, i.e. OSRM's "polyline6".
	MaxPrecision = 6

	minChar = 63
	maxChar = 126

	chunkBits    = 5
	chunkMask    = 0x1f
	continueFlag = 0x20

	// A 32-bit zigzag value spans at most seven chunks; the last one may
	// only carry two bits.
	maxShift = 30
)

var (
	// ErrMalformedPolyline is matched by every decode failure.
	ErrMalformedPolyline = errors.New("malformed polyline")

	// ErrInvalidPrecision is returned for precisions outside 1..MaxPrecision.
	ErrInvalidPrecision = errors.New("invalid polyline precision")

	// ErrUnencodable is returned for points that are not finite, or whose
	// scaled values or deltas do not fit the 32 bits Decode accepts.
	ErrUnencodable = errors.New("unencodable polyline point")
)

// MalformedError describes where and why decoding stopped.
type MalformedError struct {
	Offset int    // byte offset into the encoded string
	Reason string // short description of the violation
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed polyline at offset %d: %s", e.Offset, e.Reason)
}

// Is reports whether target is ErrMalformedPolyline.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedPolyline
}

// Decode decodes a precision-5 encoded polyline into its ordered points.
// An empty string yields an empty slice. Any malformed input fails the
// whole call; no partial result is returned.
func Decode(encoded string) ([]geo.Location, error) {
	return decode(encoded, math.Pow10(DefaultPrecision))
}

// DecodeWithPrecision decodes a polyline encoded with the given number of
// decimal places (5 for Google, 6 for OSRM polyline6).
func DecodeWithPrecision(encoded string, precision int) ([]geo.Location, error) {
	factor, err := scaleFactor(precision)
	if err != nil {
		return nil, err
	}
	return decode(encoded, factor)
}

// Encode encodes points with precision 5. Coordinates are rounded half away
// from zero; Decode(Encode(points)) reproduces points within 1e-5 degrees.
//
// Points must be finite, and consecutive points no more than about 21474
// degrees apart, which every geographic coordinate satisfies. Encode returns
// "" for anything else; EncodeWithPrecision reports the offending point.
func Encode(points []geo.Location) string {
	s, err := encode(points, math.Pow10(DefaultPrecision))
	if err != nil {
		return ""
	}
	return s
}

// EncodeWithPrecision encodes points with the given number of decimal places.
func EncodeWithPrecision(points []geo.Location, precision int) (string, error) {
	factor, err := scaleFactor(precision)
	if err != nil {
		return "", err
	}
	return encode(points, factor)
}

func scaleFactor(precision int) (float64, error) {
	if precision < 1 || precision > MaxPrecision {
		return 0, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidPrecision, precision, MaxPrecision)
	}
	return math.Pow10(precision), nil
}

// decodeState is the value folded over the input: the read position and
// the running latitude/longitude, which carry across every pair.
type decodeState struct {
	pos int
	lat int32
	lng int32
}

// next consumes one latitude/longitude delta pair and returns the new state.
func (s decodeState) next(encoded string) (decodeState, error) {
	dLat, pos, err := readDelta(encoded, s.pos)
	if err != nil {
		return s, err
	}
	dLng, pos, err := readDelta(encoded, pos)
	if err != nil {
		return s, err
	}
	return decodeState{pos: pos, lat: s.lat + dLat, lng: s.lng + dLng}, nil
}

func (s decodeState) location(factor float64) geo.Location {
	return geo.Location{
		Latitude:  float64(s.lat) / factor,
		Longitude: float64(s.lng) / factor,
	}
}

func decode(encoded string, factor float64) ([]geo.Location, error) {
	// Short pairs take four bytes, so this rarely over-allocates
	points := make([]geo.Location, 0, len(encoded)/4)

	var err error
	for s := (decodeState{}); s.pos < len(encoded); {
		if s, err = s.next(encoded); err != nil {
			return nil, err
		}
		points = append(points, s.location(factor))
	}
	return points, nil
}

// readDelta reads one variable-length codeword starting at pos and returns
// the signed delta together with the position just past it.
func readDelta(encoded string, pos int) (int32, int, error) {
	var acc uint32
	for shift := 0; ; shift += chunkBits {
		if pos >= len(encoded) {
			return 0, pos, &MalformedError{Offset: pos, Reason: "truncated codeword"}
		}
		c := encoded[pos]
		if c < minChar || c > maxChar {
			return 0, pos, &MalformedError{Offset: pos, Reason: fmt.Sprintf("invalid character %q", c)}
		}
		b := uint32(c - minChar)
		chunk := b & chunkMask
		if shift > maxShift || (shift == maxShift && chunk > 0x3) {
			return 0, pos, &MalformedError{Offset: pos, Reason: "codeword overflows 32 bits"}
		}
		acc |= chunk << shift
		pos++
		if b < continueFlag {
			break
		}
	}

	delta := int32(acc >> 1)
	if acc&1 != 0 {
		delta = ^delta
	}
	return delta, pos, nil
}

// scale converts a coordinate to its fixed-point value, rejecting
// anything Decode could not reproduce.
func scale(v, factor float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrUnencodable, v)
	}
	r := math.Round(v * factor)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v exceeds 32 bits at this precision", ErrUnencodable, v)
	}
	return int64(r), nil
}

func encode(points []geo.Location, factor float64) (string, error) {
	if len(points) == 0 {
		return "", nil
	}

	// Six bytes per point is typical for road geometry
	buf := make([]byte, 0, len(points)*6)

	var prevLat, prevLng int64
	for i, p := range points {
		lat, err := scale(p.Latitude, factor)
		if err != nil {
			return "", fmt.Errorf("point %d latitude: %w", i, err)
		}
		lng, err := scale(p.Longitude, factor)
		if err != nil {
			return "", fmt.Errorf("point %d longitude: %w", i, err)
		}
		if !fitsInt32(lat-prevLat) || !fitsInt32(lng-prevLng) {
			return "", fmt.Errorf("%w: point %d is too far from point %d", ErrUnencodable, i, i-1)
		}

		buf = appendDelta(buf, lat-prevLat)
		buf = appendDelta(buf, lng-prevLng)

		prevLat, prevLng = lat, lng
	}
	return string(buf), nil
}

func fitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// appendDelta zigzags v and appends it as 5-bit groups, least significant
// first, with the continuation bit set on all but the last group.
func appendDelta(buf []byte, v int64) []byte {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= continueFlag {
		buf = append(buf, byte(continueFlag|(u&chunkMask))+minChar)
		u >>= chunkBits
	}
	return append(buf, byte(u)+minChar)
}
