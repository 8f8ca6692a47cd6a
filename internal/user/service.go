package user

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type RegisterRequest struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *slog.Logger
	now    func() time.Time

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:              repo,
		hasher:            hasher,
		logger:            logger.With("component", "user"),
		now:               time.Now,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	u := &User{
		Email:     normalizeEmail(req.Email),
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	fields := map[string]string{}
	if _, err := mail.ParseAddress(u.Email); err != nil || u.Email == "" {
		fields["email"] = "Invalid email"
	}
	if len(u.Username) < 4 {
		fields["username"] = "Username must be at least 4 characters"
	} else if strings.Contains(u.Username, "@") {
		fields["username"] = "Username cannot be an email"
	}
	if u.FirstName == "" {
		fields["firstName"] = "First Name is required"
	}
	if u.LastName == "" {
		fields["lastName"] = "Last Name is required"
	}
	if len(req.Password) < s.minPasswordLength {
		fields["password"] = "Password must be 8 characters or more"
	}
	if len(fields) > 0 {
		return nil, ErrInvalidInput.WithFields(fields)
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, u.Email)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.PasswordHash = hash

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperror.Classify(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal(err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed bookkeeping write does not fail the login.
	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.logger.WarnContext(ctx, "update last login failed", "user_id", u.ID, "error", err)
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return u, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
