package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memRepo is an in-memory Repository. WithSpotLock holds a per-spot mutex
// for the duration of fn, mirroring the advisory lock of the pgx store.
type memRepo struct {
	mu       sync.Mutex
	spots    map[string]*Spot
	bookings map[string]*Booking
	seq      int

	spotLocks sync.Map // spot id -> *sync.Mutex

	// err, when set, is returned by every store call.
	err error
	// beforeWrite runs inside the lock before Create or UpdateDates.
	beforeWrite func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		spots:    make(map[string]*Spot),
		bookings: make(map[string]*Booking),
	}
}

func (r *memRepo) addSpot(id, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spots[id] = &Spot{ID: id, OwnerID: ownerID}
}

func (r *memRepo) addBooking(spotID, userID, start, end string) *Booking {
	b := &Booking{SpotID: spotID, UserID: userID, StartDate: mustDate(start), EndDate: mustDate(end)}
	if err := r.Create(context.Background(), b); err != nil {
		panic(err)
	}
	return b
}

func (r *memRepo) all(spotID string) []*Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.SpotID == spotID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out
}

func (r *memRepo) GetSpot(_ context.Context, spotID string) (*Spot, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spots[spotID]
	if !ok {
		return nil, ErrSpotNotFound
	}
	cp := *sp
	return &cp, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	cp.SpotOwnerID = r.spots[b.SpotID].OwnerID
	return &cp, nil
}

func (r *memRepo) FindOverlapping(_ context.Context, spotID string, rng DateRange, excludeID string) ([]*Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.SpotID != spotID || b.ID == excludeID {
			continue
		}
		if !b.StartDate.After(rng.End) && !rng.Start.After(b.EndDate) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	if r.err != nil {
		return r.err
	}
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.spots[b.SpotID]; !ok {
		return ErrSpotNotFound
	}
	r.seq++
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.ID = fmt.Sprintf("booking-%03d", r.seq)
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) UpdateDates(_ context.Context, id string, rng DateRange) (*Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	b.StartDate, b.EndDate = rng.Start, rng.End
	b.UpdatedAt = b.UpdatedAt.Add(time.Hour)
	cp := *b
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memRepo) ListBySpot(_ context.Context, spotID string) ([]*Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := r.all(spotID)
	for _, b := range out {
		b.Guest = &Guest{ID: b.UserID, FirstName: "First " + b.UserID, LastName: "Last " + b.UserID}
	}
	return out, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]*Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			cp := *b
			sp := r.spots[b.SpotID]
			cp.Spot = &SpotSummary{ID: sp.ID, OwnerID: sp.OwnerID, Name: "Spot " + sp.ID}
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *memRepo) WithSpotLock(ctx context.Context, spotID string, fn func(ctx context.Context, s Store) error) error {
	l, _ := r.spotLocks.LoadOrStore(spotID, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx, r)
}

func sortBookings(bs []*Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].StartDate.Equal(bs[j].StartDate) {
			return bs[i].StartDate.Before(bs[j].StartDate)
		}
		return bs[i].ID < bs[j].ID
	})
}

func mustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustRange(start, end string) DateRange {
	r, err := ParseDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}
