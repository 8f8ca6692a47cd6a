package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "Booking couldn't be found")
	ErrSpotNotFound = apperror.New(http.StatusNotFound, "Spot couldn't be found")
	ErrForbidden    = apperror.New(http.StatusForbidden, "Forbidden")
	ErrPastBooking  = apperror.New(http.StatusForbidden, "Past bookings can't be modified")
	ErrStarted      = apperror.New(http.StatusForbidden, "Bookings that have been started can't be deleted")
	ErrConflict     = apperror.New(http.StatusForbidden, "Sorry, this spot is already booked for the specified dates")
	ErrInvalidRange = apperror.New(http.StatusBadRequest, "endDate cannot come before startDate")
	ErrInvalidDate  = apperror.New(http.StatusBadRequest, "Please provide a valid date")
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// Booking is a reservation of one spot by one user for an inclusive range of calendar days.
type Booking struct {
	ID        string
	SpotID    string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// SpotOwnerID is resolved when a booking is loaded for authorization.
	SpotOwnerID string

	// Guest is populated by ListBySpot.
	Guest *Guest
	// Spot is populated by ListByUser.
	Spot *SpotSummary
}

// Range returns the booked days.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// Spot is the slice of a listing the booking rules need.
type Spot struct {
	ID      string
	OwnerID string
}

// Guest identifies the user who made a booking, shown to spot owners.
type Guest struct {
	ID        string
	FirstName string
	LastName  string
}

// SpotSummary is the listing embedded in a user's own bookings.
type SpotSummary struct {
	ID           string
	OwnerID      string
	Address      string
	City         string
	State        string
	Country      string
	Lat          float64
	Lng          float64
	Name         string
	Price        float64
	PreviewImage *string
}

// SpotBookings is the result of listing a spot's bookings. IsOwner tells the
// caller whether guest details may be shown.
type SpotBookings struct {
	SpotID   string
	IsOwner  bool
	Bookings []*Booking
}

// DateRange is an inclusive range of calendar days in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to calendar days and rejects an end before the start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate.Because(err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Day returns the calendar day containing t, as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
