package models

// LocationQuery is the shopper's position. Latitude and Longitude are required; a zero
// or missing RadiusKm falls back to the configured default.
type LocationQuery struct {
	Latitude  *float64 `json:"latitude" form:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" form:"longitude" binding:"required"`
	RadiusKm  *float64 `json:"radius_km,omitempty" form:"radius_km"`
}

// NewLocationQuery builds a query for (lat, lon) with the default radius.
func NewLocationQuery(lat, lon float64) LocationQuery {
	return LocationQuery{Latitude: &lat, Longitude: &lon}
}

// WithRadius returns a copy of l searching radiusKm around the point.
func (l LocationQuery) WithRadius(radiusKm float64) LocationQuery {
	l.RadiusKm = &radiusKm
	return l
}

// Coordinates returns the point, or false when either coordinate is missing.
func (l LocationQuery) Coordinates() (lat, lon float64, ok bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return 0, 0, false
	}
	return *l.Latitude, *l.Longitude, true
}

// Radius returns the requested radius, or def when none was given.
func (l LocationQuery) Radius(def float64) float64 {
	if l.RadiusKm == nil || *l.RadiusKm == 0 {
		return def
	}
	return *l.RadiusKm
}
