package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CityListOptions carries the optional city filters and the sort
// specification. SortColumn is "id" or "name"; leaving it empty selects
// the default id-descending order.
type CityListOptions struct {
	// Keep cities where this airline flies at least one incoming OR
	// at least one outgoing flight.
	AirlineID  *int64
	SortColumn string
	SortDesc   bool
	PerPage    int
	Cursor     *cursor.Cursor
}

// CityDependents is the fresh dependent-record census the delete guard
// decides on.
type CityDependents struct {
	IncomingFlights int
	OutgoingFlights int
	Airlines        int
}

func (d CityDependents) Empty() bool {
	return d.IncomingFlights == 0 && d.OutgoingFlights == 0 && d.Airlines == 0
}

type CityRepository interface {
	List(ctx context.Context, opts CityListOptions) (*cursor.Page[domain.City], error)
	All(ctx context.Context) ([]domain.CityRef, error)
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	Exists(ctx context.Context, id int64) (bool, error)
	NameTaken(ctx context.Context, name string, ignoreID int64) (bool, error)
	Create(ctx context.Context, city *domain.City) error
	Update(ctx context.Context, city *domain.City) error
	Dependents(ctx context.Context, id int64) (CityDependents, error)
	// DeleteCascade soft-deletes the city's incoming and outgoing
	// flights, detaches memberships, then soft-deletes the city, in one
	// transaction.
	DeleteCascade(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

type PGCityRepository struct {
	db *pgxpool.Pool
}

func NewCityRepository(db *pgxpool.Pool) CityRepository {
	return &PGCityRepository{db: db}
}

const cityColumns = `c.id, c.name, c.created_at, c.updated_at,
	(SELECT count(*) FROM flights f WHERE f.destination_city_id = c.id AND f.deleted_at IS NULL) AS incoming_flights_count,
	(SELECT count(*) FROM flights f WHERE f.departure_city_id = c.id AND f.deleted_at IS NULL) AS outgoing_flights_count`

// buildCityListQuery supports sorting by id or name in either
// direction; an unset sort falls back to id descending. Name sorting
// compares (name, id) tuples at the cursor so duplicate names page
// deterministically.
func buildCityListQuery(opts CityListOptions) (string, []any) {
	where := []string{"c.deleted_at IS NULL"}
	args := []any{}

	if opts.AirlineID != nil {
		args = append(args, *opts.AirlineID)
		n := len(args)
		where = append(where, fmt.Sprintf(`(EXISTS (SELECT 1 FROM flights f WHERE f.destination_city_id = c.id AND f.airline_id = $%d AND f.deleted_at IS NULL)
		OR EXISTS (SELECT 1 FROM flights f WHERE f.departure_city_id = c.id AND f.airline_id = $%d AND f.deleted_at IS NULL))`, n, n))
	}

	column := opts.SortColumn
	desc := opts.SortDesc
	if column == "" {
		column, desc = "id", true
	} else if column != "name" {
		column = "id"
	}

	forward := isForward(opts.Cursor)
	op := compareOp(desc, forward)
	if opts.Cursor != nil {
		if column == "name" {
			args = append(args, opts.Cursor.Name, opts.Cursor.ID)
			where = append(where, fmt.Sprintf("(c.name, c.id) %s ($%d, $%d)", op, len(args)-1, len(args)))
		} else {
			args = append(args, opts.Cursor.ID)
			where = append(where, fmt.Sprintf("c.id %s $%d", op, len(args)))
		}
	}

	direction := sqlDirection(desc, forward)
	orderBy := fmt.Sprintf("c.id %s", direction)
	if column == "name" {
		orderBy = fmt.Sprintf("c.name %s, c.id %s", direction, direction)
	}

	args = append(args, opts.PerPage+1)
	query := fmt.Sprintf(`SELECT %s
FROM cities c
WHERE %s
ORDER BY %s
LIMIT $%d`, cityColumns, strings.Join(where, " AND "), orderBy, len(args))

	return query, args
}

func (r *PGCityRepository) List(ctx context.Context, opts CityListOptions) (*cursor.Page[domain.City], error) {
	query, args := buildCityListQuery(opts)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]domain.City, 0, opts.PerPage+1)
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.IncomingFlightsCount, &c.OutgoingFlightsCount); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	withName := opts.SortColumn == "name"
	page := assemblePage(cities, opts.PerPage, opts.Cursor, func(c domain.City, pointsNext bool) cursor.Cursor {
		cur := cursor.Cursor{ID: c.ID, PointsNext: pointsNext}
		if withName {
			cur.Name = c.Name
		}
		return cur
	})
	return &page, nil
}

func (r *PGCityRepository) All(ctx context.Context) ([]domain.CityRef, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM cities WHERE deleted_at IS NULL ORDER BY id`)
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

func (r *PGCityRepository) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM cities c WHERE c.id = $1 AND c.deleted_at IS NULL`, cityColumns), id)

	var c domain.City
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.IncomingFlightsCount, &c.OutgoingFlightsCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cities WHERE id=$1 AND deleted_at IS NULL)`, id).Scan(&exists)
	return exists, err
}

func (r *PGCityRepository) NameTaken(ctx context.Context, name string, ignoreID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cities WHERE name=$1 AND id<>$2 AND deleted_at IS NULL)`, name, ignoreID).Scan(&taken)
	return taken, err
}

func (r *PGCityRepository) Create(ctx context.Context, city *domain.City) error {
	return r.db.QueryRow(ctx, `INSERT INTO cities (name) VALUES ($1) RETURNING id, created_at, updated_at`, city.Name).
		Scan(&city.ID, &city.CreatedAt, &city.UpdatedAt)
}

func (r *PGCityRepository) Update(ctx context.Context, city *domain.City) error {
	res, err := r.db.Exec(ctx, `UPDATE cities SET name=$1, updated_at=now() WHERE id=$2 AND deleted_at IS NULL`, city.Name, city.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGCityRepository) Dependents(ctx context.Context, id int64) (CityDependents, error) {
	var d CityDependents
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM flights WHERE destination_city_id=$1 AND deleted_at IS NULL),
		(SELECT count(*) FROM flights WHERE departure_city_id=$1 AND deleted_at IS NULL),
		(SELECT count(*) FROM airline_city WHERE city_id=$1)`, id).
		Scan(&d.IncomingFlights, &d.OutgoingFlights, &d.Airlines)
	return d, err
}

func (r *PGCityRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE flights SET deleted_at=now(), updated_at=now()
		WHERE (departure_city_id=$1 OR destination_city_id=$1) AND deleted_at IS NULL`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM airline_city WHERE city_id=$1`, id); err != nil {
		return err
	}

	res, err := tx.Exec(ctx, `UPDATE cities SET deleted_at=now(), updated_at=now() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PGCityRepository) Restore(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE cities SET deleted_at=NULL, updated_at=now() WHERE id=$1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ CityRepository = (*PGCityRepository)(nil)
