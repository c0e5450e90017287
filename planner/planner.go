// Package planner holds the pure trip-planning logic: draft list editing and
// the nearest-neighbor route ordering used by "smart plan". Nothing here
// touches the database or the network.
package planner

import (
	"errors"
	"math"

	"github.com/odyssey-app/api-go/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Validate rejects out-of-range coordinates. Callers must not clamp; an
// invalid pair is an input error, not something to repair.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrInvalidLatitude
	}
	if c.Lng < -180 || c.Lng > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// Haversine returns the great-circle distance between a and b in kilometers.
// Symmetric, and zero exactly when the coordinates are equal.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// AddSite appends s to the draft list unless a site with the same reference
// id is already present, in which case the list is returned unchanged.
func AddSite(current []models.Site, s models.Site) []models.Site {
	for _, existing := range current {
		if existing.RefID == s.RefID {
			return current
		}
	}
	return append(current, s)
}

// RemoveSite removes the first site whose reference id matches. A miss
// returns the list unchanged.
func RemoveSite(current []models.Site, refID string) []models.Site {
	for i, s := range current {
		if s.RefID == refID {
			out := make([]models.Site, 0, len(current)-1)
			out = append(out, current[:i]...)
			return append(out, current[i+1:]...)
		}
	}
	return current
}

// SmartPlan reorders items with a greedy nearest-neighbor walk. The route is
// anchored at the first item of the caller's current order, keeping the
// user's choice of starting point; from there each step picks the closest
// remaining item, ties going to the lowest original index. This is a
// heuristic, not an optimal tour: certain geometries make it double back.
// The result is always a permutation of the input.
func SmartPlan(items []models.ItineraryItem) []models.ItineraryItem {
	if len(items) <= 1 {
		return items
	}

	visited := make([]bool, len(items))
	ordered := make([]models.ItineraryItem, 0, len(items))

	current := 0
	visited[0] = true
	ordered = append(ordered, items[0])

	for len(ordered) < len(items) {
		nearest := -1
		nearestDist := math.MaxFloat64
		from := Coordinate{Lat: items[current].Latitude, Lng: items[current].Longitude}

		for i, it := range items {
			if visited[i] {
				continue
			}
			d := Haversine(from, Coordinate{Lat: it.Latitude, Lng: it.Longitude})
			if d < nearestDist {
				nearestDist = d
				nearest = i
			}
		}

		visited[nearest] = true
		ordered = append(ordered, items[nearest])
		current = nearest
	}

	return ordered
}
