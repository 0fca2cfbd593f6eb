package models

// UserPreferences narrows which providers are considered for a swarm.
type UserPreferences struct {
	MaxDistance   float64 `json:"max_distance"`
	MinRating     float64 `json:"min_rating"`
	PreferredTime string  `json:"preferred_time"`
}

// DefaultUserPreferences mirrors the defaults applied when the preferences
// file is missing or unreadable.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		MaxDistance:   5.0,
		MinRating:     4.0,
		PreferredTime: "morning",
	}
}
