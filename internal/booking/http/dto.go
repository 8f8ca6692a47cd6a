package http

import (
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/booking"
)

// BookingBody is the payload of create and update requests.
type BookingBody struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// Dates parses both fields. Their order is left to the service, which checks
// it only after the spot or booking is loaded and the caller is authorized.
func (b BookingBody) Dates() (start, end time.Time, err error) {
	if start, err = booking.ParseDate(b.StartDate); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = booking.ParseDate(b.EndDate); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type BookingResponse struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	UserID    string    `json:"userId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		SpotID:    b.SpotID,
		UserID:    b.UserID,
		StartDate: booking.FormatDate(b.StartDate),
		EndDate:   booking.FormatDate(b.EndDate),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// GuestTag is the booking user shown to the spot owner.
type GuestTag struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OwnerBookingResponse is what a spot owner sees for each booking of the spot.
type OwnerBookingResponse struct {
	User GuestTag `json:"User"`
	BookingResponse
}

// PublicBookingResponse hides everything but the occupied dates.
type PublicBookingResponse struct {
	SpotID    string `json:"spotId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SpotSummaryResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"ownerId"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	PreviewImage *string `json:"previewImage"`
}

// OwnBookingResponse is a booking of the caller with the booked spot embedded.
type OwnBookingResponse struct {
	BookingResponse
	Spot *SpotSummaryResponse `json:"Spot"`
}

// ListResponse wraps every booking list.
type ListResponse[T any] struct {
	Bookings []T `json:"Bookings"`
}

func NewSpotBookingsResponse(sb *booking.SpotBookings) any {
	if sb.IsOwner {
		items := make([]OwnerBookingResponse, len(sb.Bookings))
		for i, b := range sb.Bookings {
			items[i] = OwnerBookingResponse{BookingResponse: NewBookingResponse(b)}
			if b.Guest != nil {
				items[i].User = GuestTag{ID: b.Guest.ID, FirstName: b.Guest.FirstName, LastName: b.Guest.LastName}
			}
		}
		return ListResponse[OwnerBookingResponse]{Bookings: items}
	}

	items := make([]PublicBookingResponse, len(sb.Bookings))
	for i, b := range sb.Bookings {
		items[i] = PublicBookingResponse{
			SpotID:    b.SpotID,
			StartDate: booking.FormatDate(b.StartDate),
			EndDate:   booking.FormatDate(b.EndDate),
		}
	}
	return ListResponse[PublicBookingResponse]{Bookings: items}
}

func NewOwnBookingsResponse(bookings []*booking.Booking) ListResponse[OwnBookingResponse] {
	items := make([]OwnBookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = OwnBookingResponse{BookingResponse: NewBookingResponse(b)}
		if sp := b.Spot; sp != nil {
			items[i].Spot = &SpotSummaryResponse{
				ID:           sp.ID,
				OwnerID:      sp.OwnerID,
				Address:      sp.Address,
				City:         sp.City,
				State:        sp.State,
				Country:      sp.Country,
				Lat:          sp.Lat,
				Lng:          sp.Lng,
				Name:         sp.Name,
				Price:        sp.Price,
				PreviewImage: sp.PreviewImage,
			}
		}
	}
	return ListResponse[OwnBookingResponse]{Bookings: items}
}
