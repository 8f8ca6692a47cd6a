package spot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/spot-booking-backend/internal/db"
)

// Repository defines data access methods for spots and their images.
type Repository interface {
	Create(ctx context.Context, s *Spot) error
	GetByID(ctx context.Context, id string) (*Spot, error)
	List(ctx context.Context, filter Filter) ([]*Spot, int, error)
	Update(ctx context.Context, s *Spot) error
	Delete(ctx context.Context, id string) error

	// Image methods
	ListImages(ctx context.Context, spotID string) ([]*Image, error)
	GetImage(ctx context.Context, id string) (*Image, error)
	AddImage(ctx context.Context, img *Image) error
	DeleteImage(ctx context.Context, id string) error

	// Utility methods
	GetOwner(ctx context.Context, userID string) (*Owner, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var spotColumns = []string{
	"s.id", "s.owner_id", "s.address", "s.city", "s.state", "s.country",
	"s.lat", "s.lng", "s.name", "s.description", "s.price::float8", "s.created_at", "s.updated_at",
	"(SELECT si.url FROM public.spot_images si WHERE si.spot_id = s.id AND si.preview ORDER BY si.created_at LIMIT 1)",
	"(SELECT AVG(rv.stars)::float8 FROM public.reviews rv WHERE rv.spot_id = s.id)",
	"(SELECT count(*) FROM public.reviews rv WHERE rv.spot_id = s.id)",
}

func scanSpot(row pgx.Row, extra ...any) (*Spot, error) {
	var s Spot
	dest := []any{
		&s.ID, &s.OwnerID, &s.Address, &s.City, &s.State, &s.Country,
		&s.Lat, &s.Lng, &s.Name, &s.Description, &s.Price, &s.CreatedAt, &s.UpdatedAt,
		&s.PreviewImage, &s.AvgRating, &s.NumReviews,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pgxRepository) Create(ctx context.Context, s *Spot) error {
	query, args, err := psql.Insert("public.spots").
		Columns("owner_id", "address", "city", "state", "country", "lat", "lng", "name", "description", "price").
		Values(s.OwnerID, s.Address, s.City, s.State, s.Country, s.Lat, s.Lng, s.Name, s.Description, s.Price).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create spot query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("create spot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Spot, error) {
	query, args, err := psql.Select(spotColumns...).
		From("public.spots s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get spot query failed: %w", err)
	}

	s, err := scanSpot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get spot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Spot, int, error) {
	query := psql.Select(append(spotColumns, "count(*) OVER() as total_count")...).
		From("public.spots s")

	// Dynamic Filtering
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"s.owner_id": filter.OwnerID})
	}
	if filter.City != "" {
		query = query.Where(squirrel.ILike{"s.city": filter.City})
	}
	if filter.State != "" {
		query = query.Where(squirrel.ILike{"s.state": filter.State})
	}
	if filter.Country != "" {
		query = query.Where(squirrel.ILike{"s.country": filter.Country})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"s.price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"s.price": *filter.MaxPrice})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("s.created_at DESC", "s.id").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list spots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list spots failed: %w", err)
	}
	defer rows.Close()

	var spots []*Spot
	var total int

	for rows.Next() {
		s, err := scanSpot(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan spot failed: %w", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate spots failed: %w", err)
	}

	return spots, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Spot) error {
	query, args, err := psql.Update("public.spots").
		Set("address", s.Address).
		Set("city", s.City).
		Set("state", s.State).
		Set("country", s.Country).
		Set("lat", s.Lat).
		Set("lng", s.Lng).
		Set("name", s.Name).
		Set("description", s.Description).
		Set("price", s.Price).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update spot query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update spot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.spots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete spot query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete spot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------
//      Image methods
// ------------------------

func (r *pgxRepository) ListImages(ctx context.Context, spotID string) ([]*Image, error) {
	query, args, err := psql.Select("id", "spot_id", "url", "preview", "created_at").
		From("public.spot_images").
		Where(squirrel.Eq{"spot_id": spotID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list spot images query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spot images failed: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.SpotID, &img.URL, &img.Preview, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan spot image failed: %w", err)
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

func (r *pgxRepository) GetImage(ctx context.Context, id string) (*Image, error) {
	query, args, err := psql.Select("si.id", "si.spot_id", "si.url", "si.preview", "si.created_at", "s.owner_id").
		From("public.spot_images si").
		Join("public.spots s ON si.spot_id = s.id").
		Where(squirrel.Eq{"si.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get spot image query failed: %w", err)
	}

	var img Image
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&img.ID, &img.SpotID, &img.URL, &img.Preview, &img.CreatedAt, &img.SpotOwnerID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("get spot image failed: %w", err)
	}
	return &img, nil
}

// AddImage inserts img. A new preview image demotes the spot's previous one
// in the same transaction.
func (r *pgxRepository) AddImage(ctx context.Context, img *Image) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if img.Preview {
			query, args, err := psql.Update("public.spot_images").
				Set("preview", false).
				Where(squirrel.Eq{"spot_id": img.SpotID, "preview": true}).
				ToSql()
			if err != nil {
				return fmt.Errorf("build demote preview query failed: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("demote preview image failed: %w", err)
			}
		}

		query, args, err := psql.Insert("public.spot_images").
			Columns("spot_id", "url", "preview").
			Values(img.SpotID, img.URL, img.Preview).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build add spot image query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&img.ID, &img.CreatedAt); err != nil {
			return fmt.Errorf("add spot image failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) DeleteImage(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.spot_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete spot image query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete spot image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

// ------------------------
//     Utility methods
// ------------------------

func (r *pgxRepository) GetOwner(ctx context.Context, userID string) (*Owner, error) {
	query, args, err := psql.Select("id", "first_name", "last_name").
		From("public.users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get owner query failed: %w", err)
	}

	var o Owner
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.FirstName, &o.LastName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner failed: %w", err)
	}
	return &o, nil
}
