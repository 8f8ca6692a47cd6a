package http

import (
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/spot"
)

type SpotResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	AvgRating    *float64  `json:"avgRating"`
	PreviewImage *string   `json:"previewImage"`
}

func NewSpotResponse(s *spot.Spot) SpotResponse {
	return SpotResponse{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Address:      s.Address,
		City:         s.City,
		State:        s.State,
		Country:      s.Country,
		Lat:          s.Lat,
		Lng:          s.Lng,
		Name:         s.Name,
		Description:  s.Description,
		Price:        s.Price,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		AvgRating:    s.AvgRating,
		PreviewImage: s.PreviewImage,
	}
}

type ImageResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

func NewImageResponse(img *spot.Image) ImageResponse {
	return ImageResponse{ID: img.ID, URL: img.URL, Preview: img.Preview}
}

type OwnerTag struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SpotDetailResponse is returned by GET /spots/:id.
type SpotDetailResponse struct {
	SpotResponse
	NumReviews int             `json:"numReviews"`
	SpotImages []ImageResponse `json:"SpotImages"`
	Owner      *OwnerTag       `json:"Owner"`
}

func NewSpotDetailResponse(s *spot.Spot) SpotDetailResponse {
	resp := SpotDetailResponse{
		SpotResponse: NewSpotResponse(s),
		NumReviews:   s.NumReviews,
		SpotImages:   make([]ImageResponse, len(s.Images)),
	}
	for i, img := range s.Images {
		resp.SpotImages[i] = NewImageResponse(img)
	}
	if s.Owner != nil {
		resp.Owner = &OwnerTag{ID: s.Owner.ID, FirstName: s.Owner.FirstName, LastName: s.Owner.LastName}
	}
	return resp
}

// ListSpotsRequest defines query parameters for listing spots.
type ListSpotsRequest struct {
	request.ListParams
	City     string   `form:"city"`
	State    string   `form:"state"`
	Country  string   `form:"country"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,min=0"`
}

type CreateSpotRequest struct {
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	State       string  `json:"state" binding:"required"`
	Country     string  `json:"country" binding:"required"`
	Lat         float64 `json:"lat" binding:"min=-90,max=90"`
	Lng         float64 `json:"lng" binding:"min=-180,max=180"`
	Name        string  `json:"name" binding:"required,max=50"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type UpdateSpotRequest struct {
	Address     *string  `json:"address" binding:"omitempty,min=1"`
	City        *string  `json:"city" binding:"omitempty,min=1"`
	State       *string  `json:"state" binding:"omitempty,min=1"`
	Country     *string  `json:"country" binding:"omitempty,min=1"`
	Lat         *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng         *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
	Name        *string  `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string  `json:"description" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
}

type AddImageRequest struct {
	URL     string `json:"url" binding:"required"`
	Preview bool   `json:"preview"`
}

// bindMessages are the field explanations shown for binding failures.
var bindMessages = map[string]string{
	"address":     "Street address is required",
	"city":        "City is required",
	"state":       "State is required",
	"country":     "Country is required",
	"lat":         "Latitude must be within -90 and 90",
	"lng":         "Longitude must be within -180 and 180",
	"name":        "Name must be less than 50 characters",
	"description": "Description is required",
	"price":       "Price per day must be a positive number",
	"url":         "Image url is required",
	"minPrice":    "Minimum price must be greater than or equal to 0",
	"maxPrice":    "Maximum price must be greater than or equal to 0",
}
