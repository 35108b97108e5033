package types

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Recommendation is one nearby place returned by the recommendation API.
// DistanceKm is the backend-computed great-circle distance from the user.
type Recommendation struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DistanceKm  float64 `json:"distance"`
}

// Waypoint is one stop in a route request, in visiting order.
type Waypoint struct {
	Name string      `json:"name,omitempty"`
	At   Coordinates `json:"at"`
}

// RouteRequest is an ordered waypoint sequence: the user's position first,
// then up to the configured number of recommended points. At most one route
// per session may be active; a superseded request is cancelled before the
// next one is issued.
type RouteRequest struct {
	Profile   string     `json:"profile"` // driving or walking
	Waypoints []Waypoint `json:"waypoints"`
}

// Route is the routing collaborator's answer.
type Route struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        string  `json:"geometry,omitempty"` // encoded polyline
}
