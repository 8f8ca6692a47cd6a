package spot

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "Spot couldn't be found")
	ErrImageNotFound = apperror.New(http.StatusNotFound, "Spot Image couldn't be found")
	ErrForbidden     = apperror.New(http.StatusForbidden, "Forbidden")
	ErrInvalidInput  = apperror.New(http.StatusBadRequest, "Bad Request")
)

// Spot is a rentable listing owned by one user.
type Spot struct {
	ID          string
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
	CreatedAt   time.Time
	UpdatedAt   time.Time

	PreviewImage *string
	AvgRating    *float64
	NumReviews   int

	// Populated by GetDetail only.
	Images []*Image
	Owner  *Owner
}

// Image is a picture attached to a spot. At most one image per spot is the preview.
type Image struct {
	ID        string
	SpotID    string
	URL       string
	Preview   bool
	CreatedAt time.Time

	// SpotOwnerID is resolved when an image is loaded for deletion.
	SpotOwnerID string
}

type Owner struct {
	ID        string
	FirstName string
	LastName  string
}

// Filter defines parameters for listing spots.
type Filter struct {
	OwnerID  string
	City     string
	State    string
	Country  string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	PageSize int
}
