package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	SpotID      string
	RequesterID string
	StartDate   time.Time
	EndDate     time.Time
}

type UpdateRequest struct {
	BookingID   string
	RequesterID string
	StartDate   time.Time
	EndDate     time.Time
	// Now is the caller's current time; only its calendar day is used.
	Now time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	ListForSpot(ctx context.Context, spotID, callerID string) (*SpotBookings, error)
	ListOwn(ctx context.Context, userID string) ([]*Booking, error)
	Update(ctx context.Context, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID string, now time.Time) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, logger: logger.With("component", "booking")}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	spot, err := s.repo.GetSpot(ctx, req.SpotID)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	if err := AuthorizeCreate(spot, req.RequesterID); err != nil {
		return nil, s.fail(ctx, "create", err, "spot_id", spot.ID, "user_id", req.RequesterID)
	}

	rng, err := NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	b := &Booking{
		SpotID:      spot.ID,
		UserID:      req.RequesterID,
		StartDate:   rng.Start,
		EndDate:     rng.End,
		SpotOwnerID: spot.OwnerID,
	}

	err = s.repo.WithSpotLock(ctx, spot.ID, func(ctx context.Context, st Store) error {
		if err := checkConflicts(ctx, st, spot.ID, rng, ""); err != nil {
			return err
		}
		return st.Create(context.WithoutCancel(ctx), b)
	})
	if err != nil {
		return nil, s.fail(ctx, "create", withConflictFields(err, rng), "spot_id", spot.ID)
	}

	s.logger.InfoContext(ctx, "booking created",
		"booking_id", b.ID, "spot_id", b.SpotID, "user_id", b.UserID,
		"start_date", FormatDate(b.StartDate), "end_date", FormatDate(b.EndDate),
	)
	return b, nil
}

func (s *service) ListForSpot(ctx context.Context, spotID, callerID string) (*SpotBookings, error) {
	spot, err := s.repo.GetSpot(ctx, spotID)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}

	bookings, err := s.repo.ListBySpot(ctx, spot.ID)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}

	return &SpotBookings{
		SpotID:   spot.ID,
		IsOwner:  spot.OwnerID == callerID,
		Bookings: bookings,
	}, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]*Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list own", err)
	}
	return bookings, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Booking, error) {
	current, err := s.repo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	if err := AuthorizeMutate(current, req.RequesterID, OpUpdate, req.Now); err != nil {
		return nil, s.fail(ctx, "update", err, "booking_id", current.ID, "user_id", req.RequesterID)
	}

	rng, err := NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}

	var updated *Booking
	err = s.repo.WithSpotLock(ctx, current.SpotID, func(ctx context.Context, st Store) error {
		if err := checkConflicts(ctx, st, current.SpotID, rng, current.ID); err != nil {
			return err
		}
		var err error
		updated, err = st.UpdateDates(context.WithoutCancel(ctx), current.ID, rng)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "update", withConflictFields(err, rng), "booking_id", current.ID)
	}

	updated.SpotOwnerID = current.SpotOwnerID
	s.logger.InfoContext(ctx, "booking updated",
		"booking_id", updated.ID, "spot_id", updated.SpotID,
		"start_date", FormatDate(updated.StartDate), "end_date", FormatDate(updated.EndDate),
	)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, requesterID string, now time.Time) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return s.fail(ctx, "cancel", err)
	}

	if err := AuthorizeMutate(b, requesterID, OpDelete, now); err != nil {
		return s.fail(ctx, "cancel", err, "booking_id", b.ID, "user_id", requesterID)
	}

	if err := s.repo.Delete(context.WithoutCancel(ctx), b.ID); err != nil {
		return s.fail(ctx, "cancel", err, "booking_id", b.ID)
	}

	s.logger.InfoContext(ctx, "booking cancelled", "booking_id", b.ID, "spot_id", b.SpotID, "user_id", requesterID)
	return nil
}

// checkConflicts runs the overlap predicate against the spot's bookings as
// seen through st.
func checkConflicts(ctx context.Context, st Store, spotID string, rng DateRange, excludeID string) error {
	existing, err := st.FindOverlapping(ctx, spotID, rng, excludeID)
	if err != nil {
		return err
	}
	if conflicts := FindConflicts(rng, existing, excludeID); len(conflicts) > 0 {
		return conflictError(rng, conflicts)
	}
	return nil
}

// withConflictFields gives a conflict raised by the schema backstop the same
// field errors as one found by the predicate.
func withConflictFields(err error, rng DateRange) error {
	var appErr *apperror.AppError
	if errors.Is(err, ErrConflict) && errors.As(err, &appErr) && len(appErr.Fields) == 0 {
		return conflictError(rng, nil)
	}
	return err
}

// fail passes business rejections through unchanged, logging them at debug
// level. Anything else becomes an internal error, logged where it is rendered.
func (s *service) fail(ctx context.Context, op string, err error, attrs ...any) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && !apperror.IsInternal(err) {
		s.logger.DebugContext(ctx, "booking "+op+" rejected", append(attrs, "reason", appErr.Message)...)
		return err
	}
	return apperror.Classify(err)
}
