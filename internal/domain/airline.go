package domain

import "time"

type Airline struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Number of the airline's flights with departure_at <= now <= arrival_at.
	ActiveFlightsCount int        `json:"active_flights_count"`
	CreatedAt          time.Time  `json:"-"`
	UpdatedAt          time.Time  `json:"-"`
	DeletedAt          *time.Time `json:"-"`
}

// AirlineRef is the id+name projection embedded in flight rows and
// returned by the cached "all airlines" lookup.
type AirlineRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
