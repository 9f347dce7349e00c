package repository

import (
	"testing"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewCityRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewCityRepository(pool)
	assert.NotNil(t, repo)
}

func TestBuildCityListQuery_Defaults(t *testing.T) {
	query, args := buildCityListQuery(CityListOptions{PerPage: 10})

	assert.Contains(t, query, "incoming_flights_count")
	assert.Contains(t, query, "outgoing_flights_count")
	assert.Contains(t, query, "c.deleted_at IS NULL")
	assert.Contains(t, query, "ORDER BY c.id DESC")
	assert.Equal(t, []any{11}, args)
}

// The airline filter ORs across the two flight directions only; other
// filters stay AND-combined.
func TestBuildCityListQuery_AirlineFilterSpansBothDirections(t *testing.T) {
	airline := int64(4)

	query, args := buildCityListQuery(CityListOptions{AirlineID: &airline, PerPage: 10, SortColumn: "id", SortDesc: true})

	assert.Contains(t, query, "f.destination_city_id = c.id AND f.airline_id = $1")
	assert.Contains(t, query, "f.departure_city_id = c.id AND f.airline_id = $1")
	assert.Contains(t, query, "OR EXISTS")
	assert.Equal(t, []any{airline, 11}, args)
}

// A zero-value options struct must page the same way an explicit
// id-descending sort does, cursor comparison included.
func TestBuildCityListQuery_DefaultSortCursor(t *testing.T) {
	query, args := buildCityListQuery(CityListOptions{
		PerPage: 10,
		Cursor:  &cursor.Cursor{ID: 5, PointsNext: true},
	})

	assert.Contains(t, query, "c.id < $1")
	assert.Contains(t, query, "ORDER BY c.id DESC")
	assert.Equal(t, []any{int64(5), 11}, args)
}

func TestBuildCityListQuery_NameSortAscending(t *testing.T) {
	query, _ := buildCityListQuery(CityListOptions{PerPage: 10, SortColumn: "name", SortDesc: false})

	assert.Contains(t, query, "ORDER BY c.name ASC, c.id ASC")
}

func TestBuildCityListQuery_NameSortCursorComparesTuple(t *testing.T) {
	query, args := buildCityListQuery(CityListOptions{
		PerPage:    10,
		SortColumn: "name",
		SortDesc:   false,
		Cursor:     &cursor.Cursor{ID: 3, Name: "Madrid", PointsNext: true},
	})

	assert.Contains(t, query, "(c.name, c.id) > ($1, $2)")
	assert.Equal(t, []any{"Madrid", int64(3), 11}, args)
}

func TestBuildCityListQuery_UnknownSortColumnFallsBackToID(t *testing.T) {
	query, _ := buildCityListQuery(CityListOptions{PerPage: 10, SortColumn: "deleted_at", SortDesc: true})

	assert.Contains(t, query, "ORDER BY c.id DESC")
	assert.NotContains(t, query, "ORDER BY c.deleted_at")
}

func TestCityDependents_Empty(t *testing.T) {
	assert.True(t, CityDependents{}.Empty())
	assert.False(t, CityDependents{IncomingFlights: 1}.Empty())
	assert.False(t, CityDependents{Airlines: 2}.Empty())
}
