package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/db"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// ListByClient returns every booking of the client regardless of product or status.
	ListByClient(ctx context.Context, clientID string) ([]*Booking, error)
	// ListCountingStays returns the capacity-counting bookings of a product overlapping span.
	ListCountingStays(ctx context.Context, productID string, span daterange.Range) ([]availability.Stay, error)
	// LatestEndDate returns the latest end_date over all bookings of a product; ok is false without bookings.
	LatestEndDate(ctx context.Context, productID string) (end time.Time, ok bool, err error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.product_id", "p.name", "p.host_id", "b.client_id",
	"c.first_name || ' ' || c.last_name",
	"b.start_date", "b.end_date", "b.status", "b.created_by", "b.created_at", "b.updated_at",
}

func selectBookings(columns ...string) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(columns...).
		From("public.bookings b").
		Join("public.products p ON b.product_id = p.id").
		Join("public.clients c ON b.client_id = c.id")
}

func scanBooking(row pgx.Row, b *Booking, extra ...any) error {
	dest := []any{
		&b.ID, &b.ProductID, &b.ProductName, &b.HostID, &b.ClientID,
		&b.ClientName,
		&b.StartDate, &b.EndDate, &b.Status, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("product_id", "client_id", "start_date", "end_date", "status", "created_by").
		Values(b.ProductID, b.ClientID, b.StartDate, b.EndDate, b.Status, b.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings(bookingColumns...).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings(append(bookingColumns, "count(*) OVER() AS total_count")...)

	if filter.ProductID != "" {
		query = query.Where(squirrel.Eq{"b.product_id": filter.ProductID})
	}
	if filter.HostID != "" {
		query = query.Where(squirrel.Eq{"p.host_id": filter.HostID})
	}
	if filter.ClientID != "" {
		query = query.Where(squirrel.Eq{"b.client_id": filter.ClientID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.StartFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.start_date": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_date": *filter.StartTo})
	}

	// Sorting
	orderBy := "b.start_date"
	switch filter.SortBy {
	case "end_date", "created_at", "status":
		orderBy = "b." + filter.SortBy
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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByClient(ctx context.Context, clientID string) ([]*Booking, error) {
	query, args, err := selectBookings(bookingColumns...).
		Where(squirrel.Eq{"b.client_id": clientID}).
		OrderBy("b.start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list client bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list client bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) ListCountingStays(ctx context.Context, productID string, span daterange.Range) ([]availability.Stay, error) {
	// Overlap with [start, end): existing.start < end AND existing.end > start
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "start_date", "end_date").
		From("public.bookings").
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.NotEq{"status": NonCountingStatuses}).
		Where(squirrel.Lt{"start_date": span.End}).
		Where(squirrel.Gt{"end_date": span.Start}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list counting stays query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list counting stays failed: %w", err)
	}
	defer rows.Close()

	var stays []availability.Stay
	for rows.Next() {
		var s availability.Stay
		if err := rows.Scan(&s.ID, &s.Start, &s.End); err != nil {
			return nil, fmt.Errorf("scan stay failed: %w", err)
		}
		stays = append(stays, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stays failed: %w", err)
	}
	return stays, nil
}

func (r *pgxRepository) LatestEndDate(ctx context.Context, productID string) (time.Time, bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("max(end_date)").
		From("public.bookings").
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build latest booking end query failed: %w", err)
	}

	var latest *time.Time
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("get latest booking end failed: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return daterange.Day(*latest), true, nil
}
