package spot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	spots  map[string]*Spot
	images map[string]*Image
	seq    int
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{spots: map[string]*Spot{}, images: map[string]*Image{}}
}

func (r *fakeRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeRepo) Create(_ context.Context, s *Spot) error {
	if r.err != nil {
		return r.err
	}
	s.ID = r.nextID("spot")
	cp := *s
	r.spots[s.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Spot, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.spots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Spot, int, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	var out []*Spot
	for _, s := range r.spots {
		if filter.OwnerID == "" || s.OwnerID == filter.OwnerID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, s *Spot) error {
	cp := *s
	r.spots[s.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.spots, id)
	return nil
}

func (r *fakeRepo) ListImages(_ context.Context, spotID string) ([]*Image, error) {
	var out []*Image
	for _, img := range r.images {
		if img.SpotID == spotID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetImage(_ context.Context, id string) (*Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	cp := *img
	cp.SpotOwnerID = r.spots[img.SpotID].OwnerID
	return &cp, nil
}

func (r *fakeRepo) AddImage(_ context.Context, img *Image) error {
	if img.Preview {
		for _, other := range r.images {
			if other.SpotID == img.SpotID {
				other.Preview = false
			}
		}
	}
	img.ID = r.nextID("img")
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteImage(_ context.Context, id string) error {
	delete(r.images, id)
	return nil
}

func (r *fakeRepo) GetOwner(_ context.Context, userID string) (*Owner, error) {
	return &Owner{ID: userID, FirstName: "Demo", LastName: "Owner"}, nil
}

func validCreate(owner string) CreateRequest {
	return CreateRequest{
		OwnerID:     owner,
		Address:     "123 Disney Lane",
		City:        "San Francisco",
		State:       "California",
		Country:     "United States of America",
		Lat:         37.7645358,
		Lng:         -122.4730327,
		Name:        "App Academy",
		Description: "Place where web developers are created",
		Price:       123,
	}
}

func TestSpotCreate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo, nil)

		s, err := svc.Create(context.Background(), validCreate("owner"))
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "owner", s.OwnerID)
	})

	t.Run("Every Invalid Field Is Reported", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil)

		req := validCreate("owner")
		req.Address = " "
		req.Lat = 91
		req.Lng = -181
		req.Name = "This name is definitely longer than fifty characters long"
		req.Price = 0

		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, ErrInvalidInput)

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Len(t, appErr.Fields, 5)
		for _, f := range []string{"address", "lat", "lng", "name", "price"} {
			assert.Contains(t, appErr.Fields, f)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("db down")
		svc := NewService(repo, nil)

		_, err := svc.Create(context.Background(), validCreate("owner"))
		assert.True(t, apperror.IsInternal(err))
	})
}

func TestSpotOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	s, err := svc.Create(context.Background(), validCreate("owner"))
	require.NoError(t, err)

	t.Run("Stranger Cannot Update", func(t *testing.T) {
		name := "Renamed"
		_, err := svc.Update(context.Background(), s.ID, "stranger", UpdateRequest{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Owner Updates", func(t *testing.T) {
		name := "Renamed"
		price := 99.5
		updated, err := svc.Update(context.Background(), s.ID, "owner", UpdateRequest{Name: &name, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 99.5, updated.Price)
		assert.Equal(t, "San Francisco", updated.City)
	})

	t.Run("Update Is Validated", func(t *testing.T) {
		lat := -100.0
		_, err := svc.Update(context.Background(), s.ID, "owner", UpdateRequest{Lat: &lat})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Stranger Cannot Add Image", func(t *testing.T) {
		_, err := svc.AddImage(context.Background(), "stranger", AddImageRequest{SpotID: s.ID, URL: "/files/x"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Preview Replaces Previous Preview", func(t *testing.T) {
		first, err := svc.AddImage(context.Background(), "owner", AddImageRequest{SpotID: s.ID, URL: "/files/a", Preview: true})
		require.NoError(t, err)
		second, err := svc.AddImage(context.Background(), "owner", AddImageRequest{SpotID: s.ID, URL: "/files/b", Preview: true})
		require.NoError(t, err)

		assert.False(t, repo.images[first.ID].Preview)
		assert.True(t, repo.images[second.ID].Preview)

		detail, err := svc.GetDetail(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Images, 2)
		require.NotNil(t, detail.Owner)
		assert.Equal(t, "owner", detail.Owner.ID)
	})

	t.Run("Image Deletion Is Owner Only", func(t *testing.T) {
		img, err := svc.AddImage(context.Background(), "owner", AddImageRequest{SpotID: s.ID, URL: "/files/c"})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteImage(context.Background(), img.ID, "stranger"), ErrForbidden)
		require.NoError(t, svc.DeleteImage(context.Background(), img.ID, "owner"))
		assert.ErrorIs(t, svc.DeleteImage(context.Background(), img.ID, "owner"), ErrImageNotFound)
	})

	t.Run("Owner Deletes", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(context.Background(), s.ID, "stranger"), ErrForbidden)
		require.NoError(t, svc.Delete(context.Background(), s.ID, "owner"))
		_, err := svc.GetByID(context.Background(), s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
