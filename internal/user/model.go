package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "User couldn't be found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "User with that email already exists")
	ErrUsernameTaken      = apperror.New(http.StatusConflict, "User with that username already exists")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "Invalid credentials")
	ErrInvalidInput       = apperror.New(http.StatusBadRequest, "Bad Request")
)

// User represents a user in the system.
type User struct {
	ID           string // UUID
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}
