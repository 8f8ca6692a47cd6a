package http

import "github.com/nekogravitycat/spot-booking-backend/internal/file"

type FileUploadResponse struct {
	FileID       string  `json:"file_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func NewFileUploadResponse(f *file.File) FileUploadResponse {
	resp := FileUploadResponse{
		FileID: f.ID,
		URL:    file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &t
	}
	return resp
}
