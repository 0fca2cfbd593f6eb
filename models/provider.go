package models

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `json:"type"`        // Always "Point"
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// Provider is one entry from the provider directory. Immutable once loaded;
// the ranking engine reads it, the dispatcher only references it.
type Provider struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	DistanceMi   float64   `json:"distance_miles"`
	Rating       float64   `json:"rating"`       // Expected value between 0 and 5.
	Availability float64   `json:"availability"` // Expected value between 0 and 1.
	Specialty    string    `json:"specialty,omitempty"`
	LocationGeo  *GeoPoint `json:"locationGeo,omitempty"`
}

// ScoredProvider is a Provider with its computed score and rank position.
// Created fresh on every ranking call and never mutated afterwards.
type ScoredProvider struct {
	Provider Provider `json:"provider"`
	Score    float64  `json:"score"`
	Rank     int      `json:"rank"` // 1-based position after sorting.
}
