package repository

import (
	"testing"
	"time"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewAirlineRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewAirlineRepository(pool)
	assert.NotNil(t, repo)
}

func TestBuildAirlineListQuery_AlwaysComputesActiveCount(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	query, args := buildAirlineListQuery(AirlineListOptions{PerPage: 10}, now)

	assert.Contains(t, query, "AS active_flights_count")
	assert.Contains(t, query, "f.departure_at <= $1 AND f.arrival_at >= $1")
	assert.Contains(t, query, "a.deleted_at IS NULL")
	assert.Equal(t, []any{now, 11}, args)
}

func TestBuildAirlineListQuery_DestinationCityFilter(t *testing.T) {
	now := time.Now()
	city := int64(7)

	query, args := buildAirlineListQuery(AirlineListOptions{DestinationCityID: &city, PerPage: 10}, now)

	assert.Contains(t, query, "f.destination_city_id = $2")
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM flights f")
	assert.Equal(t, []any{now, city, 11}, args)
}

func TestBuildAirlineListQuery_ActiveFlightsFilter(t *testing.T) {
	now := time.Now()
	active := 2

	query, args := buildAirlineListQuery(AirlineListOptions{ActiveFlights: &active, PerPage: 10}, now)

	assert.Contains(t, query, "= $2")
	assert.Equal(t, []any{now, active, 11}, args)
}

func TestBuildAirlineListQuery_Cursor(t *testing.T) {
	now := time.Now()

	query, args := buildAirlineListQuery(AirlineListOptions{
		PerPage: 10,
		Cursor:  &cursor.Cursor{ID: 5, PointsNext: true},
	}, now)

	assert.Contains(t, query, "a.id < $2")
	assert.Contains(t, query, "ORDER BY a.id DESC")
	assert.Equal(t, []any{now, int64(5), 11}, args)
}
