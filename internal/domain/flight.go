package domain

import "time"

type Flight struct {
	ID                int64       `json:"id"`
	AirlineID         int64       `json:"airline_id"`
	DepartureCityID   int64       `json:"departure_city_id"`
	DestinationCityID int64       `json:"destination_city_id"`
	DepartureAt       time.Time   `json:"departure_at"`
	ArrivalAt         time.Time   `json:"arrival_at"`
	Airline           *AirlineRef `json:"airline,omitempty"`
	DepartureCity     *CityRef    `json:"departure_city,omitempty"`
	DestinationCity   *CityRef    `json:"destination_city,omitempty"`
	CreatedAt         time.Time   `json:"-"`
	UpdatedAt         time.Time   `json:"-"`
	DeletedAt         *time.Time  `json:"-"`
}

// Active reports whether the flight is in the air at the given instant.
func (f Flight) Active(now time.Time) bool {
	return !f.DepartureAt.After(now) && !f.ArrivalAt.Before(now)
}
