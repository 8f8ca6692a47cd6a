package http

import (
	"time"

	"github.com/nekogravitycat/spot-booking-backend/internal/review"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SpotID    string    `json:"spotId"`
	Review    string    `json:"review"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		SpotID:    r.SpotID,
		Review:    r.Review,
		Stars:     r.Stars,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type SpotTag struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	PreviewImage *string `json:"previewImage"`
}

// ReviewDetailResponse embeds the author, images and, for the caller's own
// reviews, the reviewed spot.
type ReviewDetailResponse struct {
	ReviewResponse
	User         *review.Author `json:"User"`
	Spot         *SpotTag       `json:"Spot,omitempty"`
	ReviewImages []ImageTag     `json:"ReviewImages"`
}

type ImageTag struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func NewReviewDetailResponse(r *review.Review) ReviewDetailResponse {
	resp := ReviewDetailResponse{
		ReviewResponse: NewReviewResponse(r),
		User:           r.Author,
		ReviewImages:   make([]ImageTag, len(r.Images)),
	}
	for i, img := range r.Images {
		resp.ReviewImages[i] = ImageTag{ID: img.ID, URL: img.URL}
	}
	if sp := r.Spot; sp != nil {
		resp.Spot = &SpotTag{ID: sp.ID, Name: sp.Name, City: sp.City, Country: sp.Country, PreviewImage: sp.PreviewImage}
	}
	return resp
}

// ListResponse wraps review lists.
type ListResponse struct {
	Reviews []ReviewDetailResponse `json:"Reviews"`
}

func NewListResponse(reviews []*review.Review) ListResponse {
	items := make([]ReviewDetailResponse, len(reviews))
	for i, r := range reviews {
		items[i] = NewReviewDetailResponse(r)
	}
	return ListResponse{Reviews: items}
}

type CreateReviewRequest struct {
	Review string `json:"review" binding:"required"`
	Stars  int    `json:"stars" binding:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Review *string `json:"review" binding:"omitempty,min=1"`
	Stars  *int    `json:"stars" binding:"omitempty,min=1,max=5"`
}

type AddImageRequest struct {
	URL string `json:"url" binding:"required"`
}

var bindMessages = map[string]string{
	"review": "Review text is required",
	"stars":  "Stars must be an integer from 1 to 5",
	"url":    "Image url is required",
}
