package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/noq-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	// Lock reads the product and holds a row lock on it until the surrounding transaction ends.
	Lock(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter) ([]*Product, int, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var productColumns = []string{
	"p.id", "p.host_id", "h.name", "p.name", "p.description", "p.total_places", "p.type",
	"p.created_at", "h.max_days_per_booking",
}

func scanProduct(row pgx.Row, p *Product, extra ...any) error {
	dest := []any{
		&p.ID, &p.HostID, &p.HostName, &p.Name, &p.Description, &p.TotalPlaces, &p.Type,
		&p.CreatedAt, &p.HostMaxDays,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *pgxRepository) Create(ctx context.Context, p *Product) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.products").
		Columns("host_id", "name", "description", "total_places", "type").
		Values(p.HostID, p.Name, p.Description, p.TotalPlaces, p.Type).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create product query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("create product failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, id string, suffix string) (*Product, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Select(productColumns...).
		From("public.products p").
		Join("public.hosts h ON p.host_id = h.id").
		Where(squirrel.Eq{"p.id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product query failed: %w", err)
	}

	var p Product
	if err := scanProduct(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.get(ctx, id, "")
}

func (r *pgxRepository) Lock(ctx context.Context, id string) (*Product, error) {
	// Only the product row is locked; the host row stays free for concurrent edits.
	return r.get(ctx, id, "FOR UPDATE OF p")
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Product, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(productColumns, "count(*) OVER() AS total_count")...).
		From("public.products p").
		Join("public.hosts h ON p.host_id = h.id")

	// Dynamic filtering
	if filter.HostID != "" {
		query = query.Where(squirrel.Eq{"p.host_id": filter.HostID})
	}
	if filter.RegionID != "" {
		query = query.Where(squirrel.Eq{"h.region_id": filter.RegionID})
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"p.type": filter.Type})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"p.name": "%" + filter.Name + "%"})
	}

	orderBy := "p.created_at"
	switch filter.SortBy {
	case "name", "total_places":
		orderBy = "p." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list products query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products failed: %w", err)
	}
	defer rows.Close()

	var result []*Product
	var total int
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p, &total); err != nil {
			return nil, 0, fmt.Errorf("scan product failed: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products failed: %w", err)
	}
	return result, total, nil
}

// ListIDs returns the ids of every product whose host is active.
func (r *pgxRepository) ListIDs(ctx context.Context) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("p.id").
		From("public.products p").
		Join("public.hosts h ON p.host_id = h.id").
		Where(squirrel.Eq{"h.is_active": true}).
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list product ids query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product ids failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan product ids failed: %w", err)
	}
	return ids, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Product) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.products").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("total_places", p.TotalPlaces).
		Set("type", p.Type).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update product failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete product query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrProductHasBookings
		}
		return fmt.Errorf("delete product failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
