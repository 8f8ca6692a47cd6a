package review

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

// MaxImages is the number of images a single review may carry.
const MaxImages = 10

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "Review couldn't be found")
	ErrSpotNotFound  = apperror.New(http.StatusNotFound, "Spot couldn't be found")
	ErrImageNotFound = apperror.New(http.StatusNotFound, "Review Image couldn't be found")
	ErrForbidden     = apperror.New(http.StatusForbidden, "Forbidden")
	ErrAlreadyExists = apperror.New(http.StatusConflict, "User already has a review for this spot")
	ErrImageLimit    = apperror.New(http.StatusForbidden, "Maximum number of images for this resource was reached")
	ErrInvalidInput  = apperror.New(http.StatusBadRequest, "Bad Request")
)

// Review is a user's rating of a spot. A user reviews a spot at most once.
type Review struct {
	ID        string
	UserID    string
	SpotID    string
	Review    string
	Stars     int
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *Author
	Spot   *SpotTag
	Images []Image
}

type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SpotTag struct {
	ID           string
	Name         string
	City         string
	Country      string
	PreviewImage *string
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	// ReviewID and AuthorID are resolved when an image is loaded on its own.
	ReviewID string `json:"-"`
	AuthorID string `json:"-"`
}
