package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	spotID  = "spot-1"
	ownerID = "owner"
	guestID = "guest"
	otherID = "other"
)

type fakeRepo struct {
	spots   map[string]string // spot id -> owner id
	reviews map[string]*Review
	images  map[string]*Image
	seq     int
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		spots:   map[string]string{spotID: ownerID},
		reviews: map[string]*Review{},
		images:  map[string]*Image{},
	}
}

func (r *fakeRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeRepo) SpotOwner(_ context.Context, id string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	owner, ok := r.spots[id]
	if !ok {
		return "", ErrSpotNotFound
	}
	return owner, nil
}

func (r *fakeRepo) Create(_ context.Context, rv *Review) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.reviews {
		if existing.UserID == rv.UserID && existing.SpotID == rv.SpotID {
			return ErrAlreadyExists
		}
	}
	rv.ID = r.nextID("review")
	cp := *rv
	r.reviews[rv.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Review, error) {
	if r.err != nil {
		return nil, r.err
	}
	rv, ok := r.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r *fakeRepo) ListBySpot(_ context.Context, id string) ([]*Review, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*Review
	for _, rv := range r.reviews {
		if rv.SpotID == id {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]*Review, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*Review
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, rv *Review) error {
	cp := *rv
	r.reviews[rv.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.reviews, id)
	return nil
}

func (r *fakeRepo) AddImage(_ context.Context, img *Image, max int) error {
	count := 0
	for _, existing := range r.images {
		if existing.ReviewID == img.ReviewID {
			count++
		}
	}
	if count >= max {
		return ErrImageLimit
	}
	img.ID = r.nextID("image")
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *fakeRepo) GetImage(_ context.Context, id string) (*Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *fakeRepo) DeleteImage(_ context.Context, id string) error {
	if _, ok := r.images[id]; !ok {
		return ErrImageNotFound
	}
	delete(r.images, id)
	return nil
}

func setupService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, nil), repo
}

func createReview(t *testing.T, svc Service, userID string) *Review {
	t.Helper()
	r, err := svc.Create(context.Background(), CreateRequest{SpotID: spotID, UserID: userID, Review: "Lovely place", Stars: 4})
	require.NoError(t, err)
	return r
}

func TestCreate(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		r, err := svc.Create(ctx, CreateRequest{SpotID: spotID, UserID: guestID, Review: "  Quiet and clean ", Stars: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "Quiet and clean", r.Review)
		assert.Equal(t, 5, r.Stars)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{SpotID: spotID, UserID: guestID, Review: "Again", Stars: 3})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("Own spot", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{SpotID: spotID, UserID: ownerID, Review: "Mine", Stars: 5})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Missing spot", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{SpotID: "nope", UserID: otherID, Review: "x", Stars: 5})
		assert.ErrorIs(t, err, ErrSpotNotFound)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{SpotID: spotID, UserID: otherID, Review: " ", Stars: 6})
		require.ErrorIs(t, err, ErrInvalidInput)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "review")
		assert.Contains(t, appErr.Fields, "stars")
	})
}

func TestUpdate(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()
	r := createReview(t, svc, guestID)

	stars := 2
	updated, err := svc.Update(ctx, r.ID, guestID, UpdateRequest{Stars: &stars})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stars)
	assert.Equal(t, "Lovely place", updated.Review)

	_, err = svc.Update(ctx, r.ID, otherID, UpdateRequest{Stars: &stars})
	assert.ErrorIs(t, err, ErrForbidden)

	bad := 0
	_, err = svc.Update(ctx, r.ID, guestID, UpdateRequest{Stars: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", guestID, UpdateRequest{Stars: &stars})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo := setupService()
	ctx := context.Background()
	r := createReview(t, svc, guestID)

	assert.ErrorIs(t, svc.Delete(ctx, r.ID, otherID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, r.ID, guestID))
	assert.Empty(t, repo.reviews)
}

func TestListForSpot(t *testing.T) {
	svc, repo := setupService()
	ctx := context.Background()
	createReview(t, svc, guestID)
	createReview(t, svc, otherID)

	reviews, err := svc.ListForSpot(ctx, spotID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = svc.ListForSpot(ctx, "nope")
	assert.ErrorIs(t, err, ErrSpotNotFound)

	own, err := svc.ListOwn(ctx, guestID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	repo.err = errors.New("connection reset")
	_, err = svc.ListOwn(ctx, guestID)
	assert.True(t, apperror.IsInternal(err))
}

func TestImages(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()
	r := createReview(t, svc, guestID)

	t.Run("Limit", func(t *testing.T) {
		for i := 0; i < MaxImages; i++ {
			_, err := svc.AddImage(ctx, r.ID, guestID, fmt.Sprintf("/files/%d", i))
			require.NoError(t, err)
		}
		_, err := svc.AddImage(ctx, r.ID, guestID, "/files/overflow")
		assert.ErrorIs(t, err, ErrImageLimit)
	})

	t.Run("Not author", func(t *testing.T) {
		_, err := svc.AddImage(ctx, r.ID, otherID, "/files/x")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Empty url", func(t *testing.T) {
		_, err := svc.AddImage(ctx, r.ID, guestID, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Delete", func(t *testing.T) {
		other := createReview(t, svc, otherID)
		img, err := svc.AddImage(ctx, other.ID, otherID, "/files/a")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteImage(ctx, img.ID, guestID), ErrForbidden)
		require.NoError(t, svc.DeleteImage(ctx, img.ID, otherID))
		assert.ErrorIs(t, svc.DeleteImage(ctx, img.ID, otherID), ErrImageNotFound)
	})
}
