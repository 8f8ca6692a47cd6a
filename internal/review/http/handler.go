package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/spot-booking-backend/internal/review"
)

type Handler struct {
	service review.Service
}

func NewHandler(service review.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrSpotNotFound)
		return
	}

	var body CreateReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	r, err := h.service.Create(c.Request.Context(), review.CreateRequest{
		SpotID: uri.ID,
		UserID: auth.GetUserID(c),
		Review: body.Review,
		Stars:  body.Stars,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReviewResponse(r))
}

func (h *Handler) ListForSpot(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrSpotNotFound)
		return
	}

	reviews, err := h.service.ListForSpot(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewListResponse(reviews))
}

func (h *Handler) ListOwn(c *gin.Context) {
	reviews, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewListResponse(reviews))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrNotFound)
		return
	}

	var body UpdateReviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetUserID(c), review.UpdateRequest{
		Review: body.Review,
		Stars:  body.Stars,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReviewResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}

func (h *Handler) AddImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrNotFound)
		return
	}

	var body AddImageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err, bindMessages)
		return
	}

	img, err := h.service.AddImage(c.Request.Context(), uri.ID, auth.GetUserID(c), body.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, ImageTag{ID: img.ID, URL: img.URL})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, review.ErrImageNotFound)
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}
