package model

import "math"

// PlaceRef is a place as returned by the place search service. It is
// copied verbatim and never edited.
type PlaceRef struct {
	DisplayName      string  `yaml:"displayName"`
	FormattedAddress string  `yaml:"formattedAddress"`
	ExternalID       string  `yaml:"externalId"`
	Latitude         float64 `yaml:"latitude"`
	Longitude        float64 `yaml:"longitude"`
}

// Bounds is a latitude/longitude rectangle.
type Bounds struct {
	South float64
	West  float64
	North float64
	East  float64
}

func (b Bounds) Center() (lat, lng float64) {
	return (b.South + b.North) / 2, (b.West + b.East) / 2
}

const earthRadiusKm = 6371.0

// BoundsAround returns the square of half-side radiusKm centred on the
// given point.
func BoundsAround(lat, lng, radiusKm float64) Bounds {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	dLng := dLat
	if c := math.Cos(lat * math.Pi / 180); c > 1e-9 {
		dLng = dLat / c
	}
	return Bounds{
		South: math.Max(lat-dLat, -90),
		West:  math.Max(lng-dLng, -180),
		North: math.Min(lat+dLat, 90),
		East:  math.Min(lng+dLng, 180),
	}
}
