// internal/store/geo.go
package store

import "math"

// kmPerDegree is the approximate width of one degree of latitude.
const kmPerDegree = 111.0

// BoundingBox is a latitude/longitude rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox converts the radius filter to a rectangle using the flat-earth
// degrees-per-kilometre approximation. Good enough at city scale; this is a
// listing convenience, not a correctness boundary.
func (g GeoFilter) BoundingBox() BoundingBox {
	latDelta := g.RadiusKm / kmPerDegree
	lngDelta := g.RadiusKm / (kmPerDegree * math.Cos(g.Latitude*math.Pi/180))
	return BoundingBox{
		MinLat: g.Latitude - latDelta,
		MaxLat: g.Latitude + latDelta,
		MinLng: g.Longitude - lngDelta,
		MaxLng: g.Longitude + lngDelta,
	}
}
