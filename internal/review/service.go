package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	SpotID string
	UserID string
	Review string
	Stars  int
}

type UpdateRequest struct {
	Review *string
	Stars  *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Review, error)
	ListForSpot(ctx context.Context, spotID string) ([]*Review, error)
	ListOwn(ctx context.Context, userID string) ([]*Review, error)
	Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Review, error)
	Delete(ctx context.Context, id, callerID string) error

	AddImage(ctx context.Context, reviewID, callerID, url string) (*Image, error)
	DeleteImage(ctx context.Context, imageID, callerID string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, logger: logger.With("component", "review")}
}

func validate(text string, stars int) error {
	fields := map[string]string{}
	if strings.TrimSpace(text) == "" {
		fields["review"] = "Review text is required"
	}
	if stars < 1 || stars > 5 {
		fields["stars"] = "Stars must be an integer from 1 to 5"
	}
	if len(fields) > 0 {
		return ErrInvalidInput.WithFields(fields)
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Review, error) {
	ownerID, err := s.repo.SpotOwner(ctx, req.SpotID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if ownerID == req.UserID {
		return nil, ErrForbidden
	}

	if err := validate(req.Review, req.Stars); err != nil {
		return nil, err
	}

	r := &Review{
		UserID: req.UserID,
		SpotID: req.SpotID,
		Review: strings.TrimSpace(req.Review),
		Stars:  req.Stars,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperror.Classify(err)
	}

	s.logger.InfoContext(ctx, "review created", "review_id", r.ID, "spot_id", r.SpotID, "user_id", r.UserID)
	return r, nil
}

func (s *service) ListForSpot(ctx context.Context, spotID string) ([]*Review, error) {
	if _, err := s.repo.SpotOwner(ctx, spotID); err != nil {
		return nil, apperror.Classify(err)
	}

	reviews, err := s.repo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]*Review, error) {
	reviews, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return reviews, nil
}

// loadAuthored returns the review when callerID wrote it.
func (s *service) loadAuthored(ctx context.Context, id, callerID string) (*Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	if r.UserID != callerID {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *service) Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Review, error) {
	r, err := s.loadAuthored(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Review != nil {
		r.Review = strings.TrimSpace(*req.Review)
	}
	if req.Stars != nil {
		r.Stars = *req.Stars
	}
	if err := validate(r.Review, r.Stars); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, apperror.Classify(err)
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.loadAuthored(ctx, id, callerID); err != nil {
		return err
	}
	return apperror.Classify(s.repo.Delete(ctx, id))
}

func (s *service) AddImage(ctx context.Context, reviewID, callerID, url string) (*Image, error) {
	if _, err := s.loadAuthored(ctx, reviewID, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, ErrInvalidInput.WithFields(map[string]string{"url": "Image url is required"})
	}

	img := &Image{ReviewID: reviewID, URL: url, AuthorID: callerID}
	if err := s.repo.AddImage(ctx, img, MaxImages); err != nil {
		return nil, apperror.Classify(err)
	}
	return img, nil
}

func (s *service) DeleteImage(ctx context.Context, imageID, callerID string) error {
	img, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		return apperror.Classify(err)
	}
	if img.AuthorID != callerID {
		return ErrForbidden
	}
	return apperror.Classify(s.repo.DeleteImage(ctx, imageID))
}
