package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users    map[string]*User
	loginErr error
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	if r.loginErr != nil {
		return r.loginErr
	}
	r.users[id].LastLoginAt = &t
	return nil
}

func setupService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, auth.NewBcryptPasswordHasher(bcrypt.MinCost), nil), repo
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:     " Demo@Example.com ",
		Username:  "demo-user",
		Password:  "password123",
		FirstName: "Demo",
		LastName:  "User",
	}
}

func TestRegister(t *testing.T) {
	svc, repo := setupService()
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", u.Email)
	assert.NotEqual(t, "password123", repo.users[u.ID].PasswordHash)

	t.Run("Email taken", func(t *testing.T) {
		req := validRegister()
		req.Username = "someone-else"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("Username taken", func(t *testing.T) {
		req := validRegister()
		req.Email = "other@example.com"
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("Invalid fields", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{Email: "nope", Username: "a@b", Password: "short"})
		require.ErrorIs(t, err, ErrInvalidInput)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, map[string]string{
			"email":     "Invalid email",
			"username":  "Username must be at least 4 characters",
			"firstName": "First Name is required",
			"lastName":  "Last Name is required",
			"password":  "Password must be 8 characters or more",
		}, appErr.Fields)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo.err = errors.New("connection refused")
		defer func() { repo.err = nil }()

		req := validRegister()
		req.Email = "fresh@example.com"
		_, err := svc.Register(ctx, req)
		assert.True(t, apperror.IsInternal(err))
	})
}

func TestLogin(t *testing.T) {
	svc, repo := setupService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		u, err := svc.Login(ctx, "DEMO@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "demo@example.com", "password124")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Last login failure is ignored", func(t *testing.T) {
		repo.loginErr = errors.New("timeout")
		defer func() { repo.loginErr = nil }()

		u, err := svc.Login(ctx, "demo@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})
}

func TestGetByID(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
