package routing

import (
	"math"

	"github.com/wander-travel/wander-companion/internal/types"
)

// Haversine returns the great-circle distance between two coordinates in
// kilometers.
func Haversine(a, b types.Coordinates) float64 {
	const R = 6371 // Earth's radius in kilometers

	// Convert degrees to radians
	lat1Rad := a.Latitude * math.Pi / 180
	lon1Rad := a.Longitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	lon2Rad := b.Longitude * math.Pi / 180

	// Differences
	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	// Haversine formula
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return R * c
}
