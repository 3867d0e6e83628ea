package geo

import "math"

const earthRadiusKm = 6371.0

// Resolver maps coordinates to the nearest city of a fixed table.
type Resolver struct {
	cities   []City
	radiusKm float64
}

// NewResolver builds a resolver over cities. A nil table means the bundled
// one; a non-positive radius means DefaultRadiusKm.
func NewResolver(cities []City, radiusKm float64) *Resolver {
	if cities == nil {
		cities = Cities
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return &Resolver{cities: cities, radiusKm: radiusKm}
}

// NearestCity returns the closest city within the radius and its distance.
func (r *Resolver) NearestCity(lat, lng float64) (City, float64, bool) {
	var best City
	bestDist := math.Inf(1)
	for _, c := range r.cities {
		d := DistanceKm(lat, lng, c.Latitude, c.Longitude)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > r.radiusKm {
		return City{}, 0, false
	}
	return best, bestDist, true
}

// CityName is NearestCity reduced to an optional name.
func (r *Resolver) CityName(lat, lng float64) *string {
	c, _, ok := r.NearestCity(lat, lng)
	if !ok {
		return nil
	}
	name := c.Name
	return &name
}

// DistanceKm is the great-circle (haversine) distance between two points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
