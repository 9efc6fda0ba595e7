// Package geo selects candidate stores around a point.
package geo

import (
	"math"
	"sort"

	"shopsaver-api/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// ValidCoordinates reports whether lat/lon are finite WGS84 degrees.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a slightly above 1 for antipodal points.
	a = math.Min(1, a)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Candidates returns the stores within radiusKm of (lat, lon), nearest first.
// The radius is inclusive. Stores without coordinates are skipped. Equal distances
// are ordered by store id so the result is reproducible.
func Candidates(lat, lon, radiusKm float64, stores []models.Store) []models.StoreInfo {
	out := make([]models.StoreInfo, 0, len(stores))
	for _, s := range stores {
		if !s.HasCoordinates() {
			continue
		}
		d := DistanceKm(lat, lon, *s.Latitude, *s.Longitude)
		if d > radiusKm {
			continue
		}
		out = append(out, models.StoreInfo{Store: s, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})

	return out
}
