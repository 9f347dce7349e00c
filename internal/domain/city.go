package domain

import "time"

type City struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	IncomingFlightsCount int        `json:"incoming_flights_count"`
	OutgoingFlightsCount int        `json:"outgoing_flights_count"`
	CreatedAt            time.Time  `json:"-"`
	UpdatedAt            time.Time  `json:"-"`
	DeletedAt            *time.Time `json:"-"`
}

type CityRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
