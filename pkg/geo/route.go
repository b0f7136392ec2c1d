package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Route is an ordered sequence of locations. The first element is the start
// of the route and the last is the end; order defines travel direction.
type Route []Location

// Start returns the first point of the route.
func (r Route) Start() (Location, bool) {
	if len(r) == 0 {
		return Location{}, false
	}
	return r[0], true
}

// End returns the last point of the route.
func (r Route) End() (Location, bool) {
	if len(r) == 0 {
		return Location{}, false
	}
	return r[len(r)-1], true
}

// Length returns the total great-circle length of the route in meters.
func (r Route) Length() float64 {
	var total float64
	for i := 1; i < len(r); i++ {
		total += HaversineDistance(r[i-1].Latitude, r[i-1].Longitude, r[i].Latitude, r[i].Longitude)
	}
	return total
}

// Bounds returns the smallest box containing every point, or nil for an
// empty route.
func (r Route) Bounds() *BoundingBox {
	if len(r) == 0 {
		return nil
	}
	bb := NewBoundingBox()
	for _, p := range r {
		bb.ExtendWithPoint(p.Latitude, p.Longitude)
	}
	return bb
}

// LineString converts the route to an orb geometry. orb points are
// ordered [lon, lat].
func (r Route) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(r))
	for _, p := range r {
		ls = append(ls, orb.Point{p.Longitude, p.Latitude})
	}
	return ls
}

// FeatureCollection renders the route for a map client: the path as a
// LineString followed by "Start" and "End" point markers.
func (r Route) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(r) == 0 {
		return fc
	}

	line := geojson.NewFeature(r.LineString())
	line.Properties["kind"] = "route"
	line.Properties["length_meters"] = r.Length()
	fc.Append(line)

	start, _ := r.Start()
	end, _ := r.End()
	for _, marker := range []struct {
		title string
		loc   Location
	}{
		{"Start", start},
		{"End", end},
	} {
		f := geojson.NewFeature(orb.Point{marker.loc.Longitude, marker.loc.Latitude})
		f.Properties["kind"] = "marker"
		f.Properties["title"] = marker.title
		fc.Append(f)
	}
	return fc
}
