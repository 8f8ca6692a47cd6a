package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/spot-booking-backend/internal/db"
)

// Store is the set of queries the booking rules run, inside or outside a
// per-spot lock.
type Store interface {
	GetSpot(ctx context.Context, spotID string) (*Spot, error)
	// GetByID loads a booking with SpotOwnerID resolved.
	GetByID(ctx context.Context, id string) (*Booking, error)
	// FindOverlapping returns bookings of spotID that share a day with r,
	// skipping excludeID when it is not empty.
	FindOverlapping(ctx context.Context, spotID string, r DateRange, excludeID string) ([]*Booking, error)
	Create(ctx context.Context, b *Booking) error
	UpdateDates(ctx context.Context, id string, r DateRange) (*Booking, error)
	Delete(ctx context.Context, id string) error
}

type Repository interface {
	Store

	ListBySpot(ctx context.Context, spotID string) ([]*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)

	// WithSpotLock runs fn while holding an exclusive lock on spotID, so that
	// overlap checks and the writes that follow them are serialized per spot.
	// fn's Store must be used for every query made under the lock.
	WithSpotLock(ctx context.Context, spotID string, fn func(ctx context.Context, s Store) error) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
	pgxStore
}

type pgxStore struct {
	q db.Querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, pgxStore: pgxStore{q: pool}}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.spot_id", "b.user_id", "b.start_date", "b.end_date", "b.created_at", "b.updated_at",
}

func (r *pgxRepository) WithSpotLock(ctx context.Context, spotID string, fn func(ctx context.Context, s Store) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Released on commit or rollback.
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))", spotID); err != nil {
			return fmt.Errorf("lock spot %s failed: %w", spotID, err)
		}
		return fn(ctx, pgxStore{q: tx})
	})
}

func (s pgxStore) GetSpot(ctx context.Context, spotID string) (*Spot, error) {
	query, args, err := psql.Select("id", "owner_id").
		From("public.spots").
		Where(squirrel.Eq{"id": spotID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get spot query failed: %w", err)
	}

	var sp Spot
	if err := s.q.QueryRow(ctx, query, args...).Scan(&sp.ID, &sp.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, fmt.Errorf("get spot failed: %w", err)
	}
	return &sp, nil
}

func (s pgxStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(append(bookingColumns, "s.owner_id")...).
		From("public.bookings b").
		Join("public.spots s ON b.spot_id = s.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := s.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
		&b.SpotOwnerID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (s pgxStore) FindOverlapping(ctx context.Context, spotID string, r DateRange, excludeID string) ([]*Booking, error) {
	// Inclusive overlap: existing.start <= new.end AND new.start <= existing.end
	query := psql.Select(bookingColumns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.spot_id": spotID}).
		Where(squirrel.LtOrEq{"b.start_date": r.End}).
		Where(squirrel.GtOrEq{"b.end_date": r.Start}).
		OrderBy("b.start_date")

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"b.id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find overlapping query failed: %w", err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}

func (s pgxStore) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("spot_id", "user_id", "start_date", "end_date").
		Values(b.SpotID, b.UserID, b.StartDate, b.EndDate).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := s.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapWriteError(err, "create booking")
	}
	return nil
}

func (s pgxStore) UpdateDates(ctx context.Context, id string, r DateRange) (*Booking, error) {
	query, args, err := psql.Update("public.bookings").
		Set("start_date", r.Start).
		Set("end_date", r.End).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, spot_id, user_id, start_date, end_date, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update booking query failed: %w", err)
	}

	var b Booking
	if err := s.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapWriteError(err, "update booking")
	}
	return &b, nil
}

func (s pgxStore) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListBySpot(ctx context.Context, spotID string) ([]*Booking, error) {
	query, args, err := psql.Select(append(bookingColumns, "u.id", "u.first_name", "u.last_name")...).
		From("public.bookings b").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"b.spot_id": spotID}).
		OrderBy("b.start_date", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list spot bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spot bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b := Booking{Guest: &Guest{}}
		if err := rows.Scan(
			&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
			&b.Guest.ID, &b.Guest.FirstName, &b.Guest.LastName,
		); err != nil {
			return nil, fmt.Errorf("scan spot booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spot bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	query, args, err := psql.Select(append(bookingColumns,
		"s.id", "s.owner_id", "s.address", "s.city", "s.state", "s.country",
		"s.lat", "s.lng", "s.name", "s.price::float8",
		"(SELECT si.url FROM public.spot_images si WHERE si.spot_id = s.id AND si.preview ORDER BY si.created_at LIMIT 1)",
	)...).
		From("public.bookings b").
		Join("public.spots s ON b.spot_id = s.id").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.start_date", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b := Booking{Spot: &SpotSummary{}}
		sp := b.Spot
		if err := rows.Scan(
			&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
			&sp.ID, &sp.OwnerID, &sp.Address, &sp.City, &sp.State, &sp.Country,
			&sp.Lat, &sp.Lng, &sp.Name, &sp.Price, &sp.PreviewImage,
		); err != nil {
			return nil, fmt.Errorf("scan user booking failed: %w", err)
		}
		b.SpotOwnerID = sp.OwnerID
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user bookings failed: %w", err)
	}
	return bookings, nil
}

// mapWriteError turns the schema's overlap backstop into ErrConflict.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation, pgerrcode.SerializationFailure:
			return ErrConflict
		case pgerrcode.CheckViolation:
			return ErrInvalidRange
		case pgerrcode.ForeignKeyViolation:
			return ErrSpotNotFound
		}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
