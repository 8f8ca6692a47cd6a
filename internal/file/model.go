package file

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "File couldn't be found")
	ErrThumbnailNotFound = apperror.New(http.StatusNotFound, "Thumbnail couldn't be found")
	ErrForbidden         = apperror.New(http.StatusForbidden, "Forbidden")
	ErrTooLarge          = apperror.New(http.StatusRequestEntityTooLarge, "File is too large")
	ErrUnsupportedType   = apperror.New(http.StatusUnsupportedMediaType, "Only jpeg, png and gif images are accepted")
	ErrInvalidImage      = apperror.New(http.StatusBadRequest, "File is not a readable image")
)

// File represents an uploaded image and its generated thumbnail.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string  // relative to the storage root
	ThumbnailPath *string // relative to the storage root
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/files/" + id + "/thumbnail"
}
