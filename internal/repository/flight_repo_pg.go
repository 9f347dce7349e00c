package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightListOptions carries the optional flight filters. A nil field
// means the filter is absent; present filters are AND-combined.
type FlightListOptions struct {
	AirlineID         *int64
	DepartureCityID   *int64
	DestinationCityID *int64
	DepartureDate     *time.Time
	ArrivalDate       *time.Time
	PerPage           int
	Cursor            *cursor.Cursor
}

type FlightRepository interface {
	List(ctx context.Context, opts FlightListOptions) (*cursor.Page[domain.Flight], error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	SoftDelete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.airline_id, f.departure_city_id, f.destination_city_id,
	f.departure_at, f.arrival_at, f.created_at, f.updated_at,
	a.name, dc.name, ac.name`

// buildFlightListQuery translates the option struct into explicit WHERE
// clauses. Default and only sort is id, descending.
func buildFlightListQuery(opts FlightListOptions) (string, []any) {
	where := []string{"f.deleted_at IS NULL"}
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if opts.AirlineID != nil {
		add("f.airline_id = $%d", *opts.AirlineID)
	}
	if opts.DepartureCityID != nil {
		add("f.departure_city_id = $%d", *opts.DepartureCityID)
	}
	if opts.DestinationCityID != nil {
		add("f.destination_city_id = $%d", *opts.DestinationCityID)
	}
	if opts.DepartureDate != nil {
		add("f.departure_at::date = $%d::date", *opts.DepartureDate)
	}
	if opts.ArrivalDate != nil {
		add("f.arrival_at::date = $%d::date", *opts.ArrivalDate)
	}

	forward := isForward(opts.Cursor)
	if opts.Cursor != nil {
		add("f.id "+compareOp(true, forward)+" $%d", opts.Cursor.ID)
	}

	args = append(args, opts.PerPage+1)
	query := fmt.Sprintf(`SELECT %s
FROM flights f
JOIN airlines a ON a.id = f.airline_id
JOIN cities dc ON dc.id = f.departure_city_id
JOIN cities ac ON ac.id = f.destination_city_id
WHERE %s
ORDER BY f.id %s
LIMIT $%d`, flightColumns, strings.Join(where, " AND "), sqlDirection(true, forward), len(args))

	return query, args
}

func (r *PGFlightRepository) List(ctx context.Context, opts FlightListOptions) (*cursor.Page[domain.Flight], error) {
	query, args := buildFlightListQuery(opts)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0, opts.PerPage+1)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := assemblePage(flights, opts.PerPage, opts.Cursor, func(f domain.Flight, pointsNext bool) cursor.Cursor {
		return cursor.Cursor{ID: f.ID, PointsNext: pointsNext}
	})
	return &page, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f                                       domain.Flight
		airlineName, departureName, arrivalName string
	)
	if err := row.Scan(&f.ID, &f.AirlineID, &f.DepartureCityID, &f.DestinationCityID,
		&f.DepartureAt, &f.ArrivalAt, &f.CreatedAt, &f.UpdatedAt,
		&airlineName, &departureName, &arrivalName); err != nil {
		return nil, err
	}
	f.Airline = &domain.AirlineRef{ID: f.AirlineID, Name: airlineName}
	f.DepartureCity = &domain.CityRef{ID: f.DepartureCityID, Name: departureName}
	f.DestinationCity = &domain.CityRef{ID: f.DestinationCityID, Name: arrivalName}
	return &f, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s
FROM flights f
JOIN airlines a ON a.id = f.airline_id
JOIN cities dc ON dc.id = f.departure_city_id
JOIN cities ac ON ac.id = f.destination_city_id
WHERE f.id = $1 AND f.deleted_at IS NULL`, flightColumns), id)

	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (airline_id, departure_city_id, destination_city_id, departure_at, arrival_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		flight.AirlineID, flight.DepartureCityID, flight.DestinationCityID, flight.DepartureAt, flight.ArrivalAt).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights
		SET airline_id=$1, departure_city_id=$2, destination_city_id=$3, departure_at=$4, arrival_at=$5, updated_at=now()
		WHERE id=$6 AND deleted_at IS NULL`,
		flight.AirlineID, flight.DepartureCityID, flight.DestinationCityID, flight.DepartureAt, flight.ArrivalAt, flight.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET deleted_at=now(), updated_at=now() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
