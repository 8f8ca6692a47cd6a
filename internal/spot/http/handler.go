package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/spot-booking-backend/internal/spot"
)

type SpotHandler struct {
	service spot.Service
}

func NewHandler(service spot.Service) *SpotHandler {
	return &SpotHandler{service: service}
}

// List retrieves a paginated list of spots with optional filtering.
func (h *SpotHandler) List(c *gin.Context) {
	var req ListSpotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}
	req.Normalize()

	h.list(c, spot.Filter{
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ListOwn retrieves the caller's spots.
func (h *SpotHandler) ListOwn(c *gin.Context) {
	var req request.ListParams
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}
	req.Normalize()

	h.list(c, spot.Filter{
		OwnerID:  auth.GetUserID(c),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

func (h *SpotHandler) list(c *gin.Context, filter spot.Filter) {
	spots, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SpotResponse, len(spots))
	for i, s := range spots {
		items[i] = NewSpotResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPage(items, filter.Page, filter.PageSize, total))
}

// Create adds a new spot owned by the caller.
func (h *SpotHandler) Create(c *gin.Context) {
	var body CreateSpotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	s, err := h.service.Create(c.Request.Context(), spot.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Address:     body.Address,
		City:        body.City,
		State:       body.State,
		Country:     body.Country,
		Lat:         body.Lat,
		Lng:         body.Lng,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSpotResponse(s))
}

// Get retrieves spot details with images and owner.
func (h *SpotHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, spot.ErrNotFound)
		return
	}

	s, err := h.service.GetDetail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSpotDetailResponse(s))
}

// Update modifies a spot. Only the owner may update it.
func (h *SpotHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, spot.ErrNotFound)
		return
	}

	var body UpdateSpotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetUserID(c), spot.UpdateRequest{
		Address:     body.Address,
		City:        body.City,
		State:       body.State,
		Country:     body.Country,
		Lat:         body.Lat,
		Lng:         body.Lng,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSpotResponse(s))
}

// Delete removes a spot. Only the owner may delete it.
func (h *SpotHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, spot.ErrNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}

func (h *SpotHandler) AddImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, spot.ErrNotFound)
		return
	}

	var body AddImageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	img, err := h.service.AddImage(c.Request.Context(), auth.GetUserID(c), spot.AddImageRequest{
		SpotID:  uri.ID,
		URL:     body.URL,
		Preview: body.Preview,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewImageResponse(img))
}

func (h *SpotHandler) DeleteImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, spot.ErrImageNotFound)
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}
