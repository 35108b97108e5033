package routing

import (
	"github.com/wander-travel/wander-companion/internal/types"
)

// BuildWaypoints builds the route panel's waypoint sequence: the user's
// position first, then up to maxPoints recommended points in the order the
// backend ranked them.
func BuildWaypoints(user types.Coordinates, recs []types.Recommendation, maxPoints int) []types.Waypoint {
	if maxPoints <= 0 {
		maxPoints = 5
	}
	if len(recs) > maxPoints {
		recs = recs[:maxPoints]
	}

	waypoints := make([]types.Waypoint, 0, len(recs)+1)
	waypoints = append(waypoints, types.Waypoint{Name: "you", At: user})
	for _, rec := range recs {
		waypoints = append(waypoints, types.Waypoint{
			Name: rec.Name,
			At:   types.Coordinates{Latitude: rec.Latitude, Longitude: rec.Longitude},
		})
	}
	return waypoints
}

// DistancesFrom computes the great-circle distance from the user to each
// recommended point. It is shown per point regardless of routing success.
func DistancesFrom(user types.Coordinates, recs []types.Recommendation) []float64 {
	out := make([]float64, len(recs))
	for i, rec := range recs {
		out[i] = Haversine(user, types.Coordinates{Latitude: rec.Latitude, Longitude: rec.Longitude})
	}
	return out
}
