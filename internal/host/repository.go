package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/noq-backend/internal/db"
)

// Repository defines data access methods for hosts and their staff.
type Repository interface {
	Create(ctx context.Context, h *Host) error
	GetByID(ctx context.Context, id string) (*Host, error)
	List(ctx context.Context, filter HostFilter) ([]*Host, int, error)
	Update(ctx context.Context, h *Host) error
	Delete(ctx context.Context, id string) error
	// Member methods
	AddMember(ctx context.Context, hostID, userID string) error
	RemoveMember(ctx context.Context, hostID, userID string) error
	IsMember(ctx context.Context, hostID, userID string) (bool, error)
	ListMembers(ctx context.Context, hostID string, filter MemberFilter) ([]*Member, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var hostColumns = []string{
	"h.id", "h.region_id", "r.name", "h.name", "h.street", "h.postcode", "h.city",
	"h.longitude", "h.latitude", "h.max_days_per_booking", "h.is_active", "h.created_at",
}

func scanHost(row pgx.Row, h *Host, extra ...any) error {
	dest := []any{
		&h.ID, &h.RegionID, &h.RegionName, &h.Name, &h.Street, &h.Postcode, &h.City,
		&h.Longitude, &h.Latitude, &h.MaxDaysPerBooking, &h.IsActive, &h.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *pgxRepository) Create(ctx context.Context, h *Host) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.hosts").
		Columns("region_id", "name", "street", "postcode", "city", "longitude", "latitude", "max_days_per_booking", "is_active").
		Values(h.RegionID, h.Name, h.Street, h.Postcode, h.City, h.Longitude, h.Latitude, h.MaxDaysPerBooking, h.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create host query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&h.ID, &h.CreatedAt); err != nil {
		return fmt.Errorf("create host failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Host, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(hostColumns...).
		From("public.hosts h").
		Join("public.regions r ON h.region_id = r.id").
		Where(squirrel.Eq{"h.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get host query failed: %w", err)
	}

	var h Host
	if err := scanHost(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...), &h); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get host failed: %w", err)
	}
	return &h, nil
}

func (r *pgxRepository) List(ctx context.Context, filter HostFilter) ([]*Host, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(hostColumns, "count(*) OVER() AS total_count")...).
		From("public.hosts h").
		Join("public.regions r ON h.region_id = r.id")

	// Dynamic filtering
	if filter.RegionID != "" {
		query = query.Where(squirrel.Eq{"h.region_id": filter.RegionID})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"h.name": "%" + filter.Name + "%"})
	}
	if filter.City != "" {
		query = query.Where(squirrel.ILike{"h.city": "%" + filter.City + "%"})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"h.is_active": *filter.IsActive})
	}
	if filter.MemberID != "" {
		query = query.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM public.host_members hm WHERE hm.host_id = h.id AND hm.user_id = ?)",
			filter.MemberID,
		))
	}

	orderBy := "h.created_at"
	switch filter.SortBy {
	case "name", "city", "max_days_per_booking":
		orderBy = "h." + filter.SortBy
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
		return nil, 0, fmt.Errorf("build list hosts query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list hosts failed: %w", err)
	}
	defer rows.Close()

	var hosts []*Host
	var total int
	for rows.Next() {
		var h Host
		if err := scanHost(rows, &h, &total); err != nil {
			return nil, 0, fmt.Errorf("scan host failed: %w", err)
		}
		hosts = append(hosts, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate hosts failed: %w", err)
	}
	return hosts, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, h *Host) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.hosts").
		Set("name", h.Name).
		Set("street", h.Street).
		Set("postcode", h.Postcode).
		Set("city", h.City).
		Set("longitude", h.Longitude).
		Set("latitude", h.Latitude).
		Set("max_days_per_booking", h.MaxDaysPerBooking).
		Set("is_active", h.IsActive).
		Where(squirrel.Eq{"id": h.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update host query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update host failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes a host. Its products and bookings stay intact.
func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.hosts").
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete host query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete host failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------
//     Member methods
// ------------------------

func (r *pgxRepository) AddMember(ctx context.Context, hostID, userID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.host_members").
		Columns("host_id", "user_id").
		Values(hostID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build add host member query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUserAlreadyMember
		}
		return fmt.Errorf("add host member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) RemoveMember(ctx context.Context, hostID, userID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.host_members").
		Where(squirrel.Eq{"host_id": hostID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove host member query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove host member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotMember
	}
	return nil
}

func (r *pgxRepository) IsMember(ctx context.Context, hostID, userID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("1").
		From("public.host_members").
		Where(squirrel.Eq{"host_id": hostID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build check host member query failed: %w", err)
	}

	var one int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check host member failed: %w", err)
	}
	return true, nil
}

func (r *pgxRepository) ListMembers(ctx context.Context, hostID string, filter MemberFilter) ([]*Member, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("u.id", "u.email", "u.display_name", "u.role", "hm.created_at", "count(*) OVER() AS total_count").
		From("public.host_members hm").
		Join("public.users u ON hm.user_id = u.id").
		Where(squirrel.Eq{"hm.host_id": hostID})

	orderDir := "ASC"
	if filter.SortOrder == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy("u.display_name " + orderDir)

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
		return nil, 0, fmt.Errorf("build list host members query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list host members failed: %w", err)
	}
	defer rows.Close()

	var members []*Member
	var total int
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.AddedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan host member failed: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate host members failed: %w", err)
	}
	return members, total, nil
}
