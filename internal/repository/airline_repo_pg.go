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

// AirlineListOptions carries the optional airline filters; nil means
// the filter is absent.
type AirlineListOptions struct {
	// Keep airlines having at least one live flight into this city.
	DestinationCityID *int64
	// Exact match on the computed active flights count.
	ActiveFlights *int
	PerPage       int
	Cursor        *cursor.Cursor
}

type AirlineRepository interface {
	List(ctx context.Context, opts AirlineListOptions, now time.Time) (*cursor.Page[domain.Airline], error)
	All(ctx context.Context) ([]domain.AirlineRef, error)
	GetByID(ctx context.Context, id int64, now time.Time) (*domain.Airline, error)
	Exists(ctx context.Context, id int64) (bool, error)
	NameTaken(ctx context.Context, name string, ignoreID int64) (bool, error)
	ServesCity(ctx context.Context, airlineID, cityID int64) (bool, error)
	CitiesOf(ctx context.Context, airlineID int64) ([]domain.CityRef, error)
	Create(ctx context.Context, airline *domain.Airline, cityIDs []int64) error
	Update(ctx context.Context, airline *domain.Airline, cityIDs []int64) error
	CountFlights(ctx context.Context, airlineID int64) (int, error)
	// DeleteCascade detaches every city membership, soft-deletes the
	// airline's flights, then soft-deletes the airline, in one transaction.
	DeleteCascade(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

const activeFlightsSubquery = `(SELECT count(*) FROM flights f
		WHERE f.airline_id = a.id AND f.deleted_at IS NULL
		AND f.departure_at <= $1 AND f.arrival_at >= $1)`

// buildAirlineListQuery always computes active_flights_count per row;
// $1 is reserved for "now" so the subquery can be reused in the WHERE
// clause for the exact-count filter.
func buildAirlineListQuery(opts AirlineListOptions, now time.Time) (string, []any) {
	where := []string{"a.deleted_at IS NULL"}
	args := []any{now}

	if opts.DestinationCityID != nil {
		args = append(args, *opts.DestinationCityID)
		where = append(where, fmt.Sprintf(`EXISTS (SELECT 1 FROM flights f
		WHERE f.airline_id = a.id AND f.deleted_at IS NULL AND f.destination_city_id = $%d)`, len(args)))
	}
	if opts.ActiveFlights != nil {
		args = append(args, *opts.ActiveFlights)
		where = append(where, fmt.Sprintf("%s = $%d", activeFlightsSubquery, len(args)))
	}

	forward := isForward(opts.Cursor)
	if opts.Cursor != nil {
		args = append(args, opts.Cursor.ID)
		where = append(where, fmt.Sprintf("a.id %s $%d", compareOp(true, forward), len(args)))
	}

	args = append(args, opts.PerPage+1)
	query := fmt.Sprintf(`SELECT a.id, a.name, a.description, a.created_at, a.updated_at,
	%s AS active_flights_count
FROM airlines a
WHERE %s
ORDER BY a.id %s
LIMIT $%d`, activeFlightsSubquery, strings.Join(where, " AND "), sqlDirection(true, forward), len(args))

	return query, args
}

func (r *PGAirlineRepository) List(ctx context.Context, opts AirlineListOptions, now time.Time) (*cursor.Page[domain.Airline], error) {
	query, args := buildAirlineListQuery(opts, now)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0, opts.PerPage+1)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt, &a.ActiveFlightsCount); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := assemblePage(airlines, opts.PerPage, opts.Cursor, func(a domain.Airline, pointsNext bool) cursor.Cursor {
		return cursor.Cursor{ID: a.ID, PointsNext: pointsNext}
	})
	return &page, nil
}

func (r *PGAirlineRepository) All(ctx context.Context) ([]domain.AirlineRef, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM airlines WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]domain.AirlineRef, 0)
	for rows.Next() {
		var ref domain.AirlineRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64, now time.Time) (*domain.Airline, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT a.id, a.name, a.description, a.created_at, a.updated_at,
	%s AS active_flights_count
FROM airlines a WHERE a.id = $2 AND a.deleted_at IS NULL`, activeFlightsSubquery), now, id)

	var a domain.Airline
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt, &a.ActiveFlightsCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGAirlineRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM airlines WHERE id=$1 AND deleted_at IS NULL)`, id).Scan(&exists)
	return exists, err
}

func (r *PGAirlineRepository) NameTaken(ctx context.Context, name string, ignoreID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM airlines WHERE name=$1 AND id<>$2 AND deleted_at IS NULL)`, name, ignoreID).Scan(&taken)
	return taken, err
}

func (r *PGAirlineRepository) ServesCity(ctx context.Context, airlineID, cityID int64) (bool, error) {
	var serves bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM airline_city WHERE airline_id=$1 AND city_id=$2)`, airlineID, cityID).Scan(&serves)
	return serves, err
}

func (r *PGAirlineRepository) CitiesOf(ctx context.Context, airlineID int64) ([]domain.CityRef, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.name FROM cities c
		JOIN airline_city ac ON ac.city_id = c.id
		WHERE ac.airline_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.id`, airlineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]domain.CityRef, 0)
	for rows.Next() {
		var ref domain.CityRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline, cityIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO airlines (name, description) VALUES ($1, $2)
		RETURNING id, created_at, updated_at`, airline.Name, airline.Description).
		Scan(&airline.ID, &airline.CreatedAt, &airline.UpdatedAt); err != nil {
		return err
	}

	if err := attachCities(ctx, tx, airline.ID, cityIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update replaces the membership set wholesale: detach everything, then
// attach the submitted ids.
func (r *PGAirlineRepository) Update(ctx context.Context, airline *domain.Airline, cityIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `UPDATE airlines SET name=$1, description=$2, updated_at=now()
		WHERE id=$3 AND deleted_at IS NULL`, airline.Name, airline.Description, airline.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM airline_city WHERE airline_id=$1`, airline.ID); err != nil {
		return err
	}
	if err := attachCities(ctx, tx, airline.ID, cityIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func attachCities(ctx context.Context, tx pgx.Tx, airlineID int64, cityIDs []int64) error {
	for _, cityID := range cityIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO airline_city (airline_id, city_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, airlineID, cityID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGAirlineRepository) CountFlights(ctx context.Context, airlineID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM flights WHERE airline_id=$1 AND deleted_at IS NULL`, airlineID).Scan(&count)
	return count, err
}

func (r *PGAirlineRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM airline_city WHERE airline_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE flights SET deleted_at=now(), updated_at=now() WHERE airline_id=$1 AND deleted_at IS NULL`, id); err != nil {
		return err
	}

	res, err := tx.Exec(ctx, `UPDATE airlines SET deleted_at=now(), updated_at=now() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PGAirlineRepository) Restore(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE airlines SET deleted_at=NULL, updated_at=now() WHERE id=$1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
