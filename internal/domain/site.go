package domain

import "math"

// Site is anything with geographic coordinates that climate can be requested for.
// Predictors pass their own plot types; results carry the same Site back.
type Site interface {
	Latitude() float64  // degrees, signed
	Longitude() float64 // degrees, signed
	Elevation() float64 // meters, NaN when unknown
}

// Location is the plain Site implementation.
type Location struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"long" yaml:"long"`
	Elev float64 `json:"elev" yaml:"elev"`
}

// NewLocation returns a Location whose elevation is unknown.
func NewLocation(lat, lon float64) Location {
	return Location{Lat: lat, Lon: lon, Elev: math.NaN()}
}

// NewLocationWithElevation returns a Location at a known elevation in meters.
func NewLocationWithElevation(lat, lon, elev float64) Location {
	return Location{Lat: lat, Lon: lon, Elev: elev}
}

func (l Location) Latitude() float64  { return l.Lat }
func (l Location) Longitude() float64 { return l.Lon }
func (l Location) Elevation() float64 { return l.Elev }

// HasElevation reports whether the site carries a known elevation.
func HasElevation(s Site) bool {
	return !math.IsNaN(s.Elevation())
}
