package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/spot-booking-backend/internal/db"
)

type Repository interface {
	// SpotOwner returns the owner of spotID or ErrSpotNotFound.
	SpotOwner(ctx context.Context, spotID string) (string, error)

	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	ListBySpot(ctx context.Context, spotID string) ([]*Review, error)
	ListByUser(ctx context.Context, userID string) ([]*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error

	// AddImage inserts img unless the review already has max images.
	AddImage(ctx context.Context, img *Image, max int) error
	GetImage(ctx context.Context, id string) (*Image, error)
	DeleteImage(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const imagesJSON = `COALESCE(
	(
		SELECT json_agg(json_build_object('id', ri.id, 'url', ri.url) ORDER BY ri.created_at)
		FROM public.review_images ri
		WHERE ri.review_id = r.id
	),
	'[]'::json
)`

var reviewColumns = []string{
	"r.id", "r.user_id", "r.spot_id", "r.review", "r.stars", "r.created_at", "r.updated_at",
	"u.id", "u.first_name", "u.last_name",
	imagesJSON,
}

func selectReviews() squirrel.SelectBuilder {
	return psql.Select(reviewColumns...).
		From("public.reviews r").
		Join("public.users u ON r.user_id = u.id")
}

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	r := Review{Author: &Author{}}
	var imgs []byte
	dest := []any{
		&r.ID, &r.UserID, &r.SpotID, &r.Review, &r.Stars, &r.CreatedAt, &r.UpdatedAt,
		&r.Author.ID, &r.Author.FirstName, &r.Author.LastName,
		&imgs,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if len(imgs) > 0 {
		if err := json.Unmarshal(imgs, &r.Images); err != nil {
			slog.Warn("failed to unmarshal review images", "review_id", r.ID, "error", err)
		}
	}
	return &r, nil
}

func (p *pgxRepository) SpotOwner(ctx context.Context, spotID string) (string, error) {
	query, args, err := psql.Select("owner_id").
		From("public.spots").
		Where(squirrel.Eq{"id": spotID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build get spot owner query failed: %w", err)
	}

	var ownerID string
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSpotNotFound
		}
		return "", fmt.Errorf("get spot owner failed: %w", err)
	}
	return ownerID, nil
}

func (p *pgxRepository) Create(ctx context.Context, r *Review) error {
	query, args, err := psql.Insert("public.reviews").
		Columns("user_id", "spot_id", "review", "stars").
		Values(r.UserID, r.SpotID, r.Review, r.Stars).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create review query failed: %w", err)
	}

	if err := p.pool.QueryRow(ctx, query, args...).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return ErrSpotNotFound
			}
		}
		return fmt.Errorf("create review failed: %w", err)
	}
	return nil
}

func (p *pgxRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	query, args, err := selectReviews().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get review query failed: %w", err)
	}

	r, err := scanReview(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review failed: %w", err)
	}
	return r, nil
}

func (p *pgxRepository) ListBySpot(ctx context.Context, spotID string) ([]*Review, error) {
	query, args, err := selectReviews().
		Where(squirrel.Eq{"r.spot_id": spotID}).
		OrderBy("r.created_at DESC", "r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list spot reviews query failed: %w", err)
	}
	return p.list(ctx, query, args)
}

func (p *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Review, error) {
	query, args, err := selectReviews().
		Columns("s.id", "s.name", "s.city", "s.country",
			"(SELECT si.url FROM public.spot_images si WHERE si.spot_id = s.id AND si.preview ORDER BY si.created_at LIMIT 1)").
		Join("public.spots s ON r.spot_id = s.id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.created_at DESC", "r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user reviews query failed: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		sp := &SpotTag{}
		r, err := scanReview(rows, &sp.ID, &sp.Name, &sp.City, &sp.Country, &sp.PreviewImage)
		if err != nil {
			return nil, fmt.Errorf("scan review failed: %w", err)
		}
		r.Spot = sp
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (p *pgxRepository) list(ctx context.Context, query string, args []any) ([]*Review, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review failed: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (p *pgxRepository) Update(ctx context.Context, r *Review) error {
	query, args, err := psql.Update("public.reviews").
		Set("review", r.Review).
		Set("stars", r.Stars).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": r.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update review query failed: %w", err)
	}

	if err := p.pool.QueryRow(ctx, query, args...).Scan(&r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update review failed: %w", err)
	}
	return nil
}

func (p *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.reviews").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete review query failed: %w", err)
	}

	ct, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImage locks the review row so concurrent uploads cannot both pass the
// count check.
func (p *pgxRepository) AddImage(ctx context.Context, img *Image, max int) error {
	return db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx, "SELECT 1 FROM public.reviews WHERE id = $1 FOR UPDATE", img.ReviewID).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock review failed: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, "SELECT count(*) FROM public.review_images WHERE review_id = $1", img.ReviewID).Scan(&count); err != nil {
			return fmt.Errorf("count review images failed: %w", err)
		}
		if count >= max {
			return ErrImageLimit
		}

		query, args, err := psql.Insert("public.review_images").
			Columns("review_id", "url").
			Values(img.ReviewID, img.URL).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build add review image query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&img.ID); err != nil {
			return fmt.Errorf("add review image failed: %w", err)
		}
		return nil
	})
}

func (p *pgxRepository) GetImage(ctx context.Context, id string) (*Image, error) {
	query, args, err := psql.Select("ri.id", "ri.url", "ri.review_id", "r.user_id").
		From("public.review_images ri").
		Join("public.reviews r ON ri.review_id = r.id").
		Where(squirrel.Eq{"ri.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get review image query failed: %w", err)
	}

	var img Image
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&img.ID, &img.URL, &img.ReviewID, &img.AuthorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("get review image failed: %w", err)
	}
	return &img, nil
}

func (p *pgxRepository) DeleteImage(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.review_images").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete review image query failed: %w", err)
	}

	ct, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}
