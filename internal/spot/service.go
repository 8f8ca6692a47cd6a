package spot

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

// CreateRequest carries data to create a spot.
type CreateRequest struct {
	OwnerID     string
	Address     string
	City        string
	State       string
	Country     string
	Lat         float64
	Lng         float64
	Name        string
	Description string
	Price       float64
}

// UpdateRequest carries data for partial updates.
type UpdateRequest struct {
	Address     *string
	City        *string
	State       *string
	Country     *string
	Lat         *float64
	Lng         *float64
	Name        *string
	Description *string
	Price       *float64
}

// AddImageRequest attaches an uploaded image to a spot.
type AddImageRequest struct {
	SpotID  string
	URL     string
	Preview bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Spot, error)
	GetByID(ctx context.Context, id string) (*Spot, error)
	GetDetail(ctx context.Context, id string) (*Spot, error)
	List(ctx context.Context, filter Filter) ([]*Spot, int, error)
	Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Spot, error)
	Delete(ctx context.Context, id, callerID string) error

	AddImage(ctx context.Context, callerID string, req AddImageRequest) (*Image, error)
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
	return &service{repo: repo, logger: logger.With("component", "spot")}
}

const maxNameLength = 50

// validateSpot checks the logical rules for a Spot and names every failing field.
func validateSpot(s *Spot) error {
	fields := map[string]string{}

	if strings.TrimSpace(s.Address) == "" {
		fields["address"] = "Street address is required"
	}
	if strings.TrimSpace(s.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(s.State) == "" {
		fields["state"] = "State is required"
	}
	if strings.TrimSpace(s.Country) == "" {
		fields["country"] = "Country is required"
	}
	// Latitude: -90 to 90, Longitude: -180 to 180
	if s.Lat < -90 || s.Lat > 90 {
		fields["lat"] = "Latitude must be within -90 and 90"
	}
	if s.Lng < -180 || s.Lng > 180 {
		fields["lng"] = "Longitude must be within -180 and 180"
	}
	if name := strings.TrimSpace(s.Name); name == "" || utf8.RuneCountInString(name) > maxNameLength {
		fields["name"] = "Name must be less than 50 characters"
	}
	if strings.TrimSpace(s.Description) == "" {
		fields["description"] = "Description is required"
	}
	if s.Price <= 0 {
		fields["price"] = "Price per day must be a positive number"
	}

	if len(fields) > 0 {
		return ErrInvalidInput.WithFields(fields)
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Spot, error) {
	sp := &Spot{
		OwnerID:     req.OwnerID,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := validateSpot(sp); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.InfoContext(ctx, "spot created", "spot_id", sp.ID, "owner_id", sp.OwnerID)
	return sp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Spot, error) {
	sp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return sp, nil
}

// GetDetail loads a spot with its images and owner.
func (s *service) GetDetail(ctx context.Context, id string) (*Spot, error) {
	sp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sp.Images, err = s.repo.ListImages(ctx, sp.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	if sp.Owner, err = s.repo.GetOwner(ctx, sp.OwnerID); err != nil {
		return nil, apperror.Internal(err)
	}
	return sp, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Spot, int, error) {
	spots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return spots, total, nil
}

// loadOwned returns the spot when callerID owns it.
func (s *service) loadOwned(ctx context.Context, id, callerID string) (*Spot, error) {
	sp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return sp, nil
}

func (s *service) Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Spot, error) {
	sp, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Address != nil {
		sp.Address = *req.Address
	}
	if req.City != nil {
		sp.City = *req.City
	}
	if req.State != nil {
		sp.State = *req.State
	}
	if req.Country != nil {
		sp.Country = *req.Country
	}
	if req.Lat != nil {
		sp.Lat = *req.Lat
	}
	if req.Lng != nil {
		sp.Lng = *req.Lng
	}
	if req.Name != nil {
		sp.Name = *req.Name
	}
	if req.Description != nil {
		sp.Description = *req.Description
	}
	if req.Price != nil {
		sp.Price = *req.Price
	}

	if err := validateSpot(sp); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, apperror.Classify(err)
	}
	return sp, nil
}

func (s *service) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.loadOwned(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Classify(err)
	}

	s.logger.InfoContext(ctx, "spot deleted", "spot_id", id)
	return nil
}

func (s *service) AddImage(ctx context.Context, callerID string, req AddImageRequest) (*Image, error) {
	if _, err := s.loadOwned(ctx, req.SpotID, callerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrInvalidInput.WithFields(map[string]string{"url": "Image url is required"})
	}

	img := &Image{SpotID: req.SpotID, URL: req.URL, Preview: req.Preview}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, apperror.Internal(err)
	}
	return img, nil
}

func (s *service) DeleteImage(ctx context.Context, imageID, callerID string) error {
	img, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		return apperror.Classify(err)
	}
	if img.SpotOwnerID != callerID {
		return ErrForbidden
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return apperror.Classify(err)
	}
	return nil
}
