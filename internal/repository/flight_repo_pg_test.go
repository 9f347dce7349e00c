package repository

import (
	"testing"
	"time"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

func TestBuildFlightListQuery_NoFilters(t *testing.T) {
	query, args := buildFlightListQuery(FlightListOptions{PerPage: 10})

	assert.Contains(t, query, "f.deleted_at IS NULL")
	assert.NotContains(t, query, "f.airline_id =")
	assert.NotContains(t, query, "f.departure_city_id =")
	assert.Contains(t, query, "ORDER BY f.id DESC")
	assert.Equal(t, []any{11}, args)
}

func TestBuildFlightListQuery_AllFilters(t *testing.T) {
	airline := int64(3)
	departure := int64(5)
	destination := int64(9)
	departureDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	arrivalDate := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	query, args := buildFlightListQuery(FlightListOptions{
		AirlineID:         &airline,
		DepartureCityID:   &departure,
		DestinationCityID: &destination,
		DepartureDate:     &departureDate,
		ArrivalDate:       &arrivalDate,
		PerPage:           10,
	})

	assert.Contains(t, query, "f.airline_id = $1")
	assert.Contains(t, query, "f.departure_city_id = $2")
	assert.Contains(t, query, "f.destination_city_id = $3")
	assert.Contains(t, query, "f.departure_at::date = $4::date")
	assert.Contains(t, query, "f.arrival_at::date = $5::date")
	assert.Equal(t, []any{airline, departure, destination, departureDate, arrivalDate, 11}, args)
}

func TestBuildFlightListQuery_ForwardCursor(t *testing.T) {
	query, args := buildFlightListQuery(FlightListOptions{
		PerPage: 10,
		Cursor:  &cursor.Cursor{ID: 42, PointsNext: true},
	})

	assert.Contains(t, query, "f.id < $1")
	assert.Contains(t, query, "ORDER BY f.id DESC")
	assert.Equal(t, []any{int64(42), 11}, args)
}

func TestBuildFlightListQuery_BackwardCursor(t *testing.T) {
	query, _ := buildFlightListQuery(FlightListOptions{
		PerPage: 10,
		Cursor:  &cursor.Cursor{ID: 42, PointsNext: false},
	})

	assert.Contains(t, query, "f.id > $1")
	assert.Contains(t, query, "ORDER BY f.id ASC")
}
