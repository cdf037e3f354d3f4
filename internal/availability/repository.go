package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/noq-backend/internal/db"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// Repository defines data access methods for the availability projection.
type Repository interface {
	// Upsert writes one row per entry, overwriting places_left where (product, date) already exists.
	Upsert(ctx context.Context, rows []Availability) error
	Get(ctx context.Context, productID string, date time.Time) (*Availability, error)
	ListRange(ctx context.Context, productID string, span daterange.Range) ([]*Availability, error)
	// LatestDate returns the last date with a stored row for the product; ok is false when there is none.
	LatestDate(ctx context.Context, productID string) (date time.Time, ok bool, err error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, rows []Availability) error {
	if len(rows) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Insert("public.availability").
		Columns("product_id", "available_date", "places_left")
	for _, a := range rows {
		builder = builder.Values(a.ProductID, a.Date, a.PlacesLeft)
	}
	query, args, err := builder.
		Suffix("ON CONFLICT (product_id, available_date) DO UPDATE SET places_left = EXCLUDED.places_left").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert availability query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert availability failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Get(ctx context.Context, productID string, date time.Time) (*Availability, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "product_id", "available_date", "places_left").
		From("public.availability").
		Where(squirrel.Eq{"product_id": productID, "available_date": daterange.Day(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get availability query failed: %w", err)
	}

	var a Availability
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&a.ID, &a.ProductID, &a.Date, &a.PlacesLeft)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get availability failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) ListRange(ctx context.Context, productID string, span daterange.Range) ([]*Availability, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "product_id", "available_date", "places_left").
		From("public.availability").
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.GtOrEq{"available_date": span.Start}).
		Where(squirrel.Lt{"available_date": span.End}).
		OrderBy("available_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list availability query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability failed: %w", err)
	}
	defer rows.Close()

	var result []*Availability
	for rows.Next() {
		var a Availability
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Date, &a.PlacesLeft); err != nil {
			return nil, fmt.Errorf("scan availability failed: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) LatestDate(ctx context.Context, productID string) (time.Time, bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("max(available_date)").
		From("public.availability").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build latest availability query failed: %w", err)
	}

	var latest *time.Time
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("get latest availability date failed: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return daterange.Day(*latest), true, nil
}
