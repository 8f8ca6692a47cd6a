package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/booking"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/response"
)

var bindMessages = map[string]string{
	"startDate": "Please provide a valid start date.",
	"endDate":   "Please provide a valid end date.",
}

type Handler struct {
	service booking.Service
	now     func() time.Time
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// WithClock replaces the clock used to decide whether a booking is past or started.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Create books the spot in the URI for the caller.
func (h *Handler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrSpotNotFound)
		return
	}

	var body BookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	start, end, err := body.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		SpotID:      uri.ID,
		RequesterID: auth.GetUserID(c),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// ListForSpot returns the spot's bookings, with guest details for the owner only.
func (h *Handler) ListForSpot(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrSpotNotFound)
		return
	}

	sb, err := h.service.ListForSpot(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSpotBookingsResponse(sb))
}

// ListOwn returns the caller's bookings.
func (h *Handler) ListOwn(c *gin.Context) {
	bookings, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOwnBookingsResponse(bookings))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrNotFound)
		return
	}

	var body BookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	start, end, err := body.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), booking.UpdateRequest{
		BookingID:   uri.ID,
		RequesterID: auth.GetUserID(c),
		StartDate:   start,
		EndDate:     end,
		Now:         h.now(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrNotFound)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), uri.ID, auth.GetUserID(c), h.now()); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}
