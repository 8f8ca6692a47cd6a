package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/file"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/response"
)

// multipartOverhead is the slack allowed on top of the file limit for the
// multipart envelope.
const multipartOverhead = 64 << 10

type Handler struct {
	fileService file.Service
	maxBytes    int64
}

func NewHandler(fileService file.Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = file.DefaultMaxBytes
	}
	return &Handler{
		fileService: fileService,
		maxBytes:    maxBytes,
	}
}

// Upload stores an image sent as the multipart field "file".
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, file.ErrTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Message: "Bad Request",
			Errors:  map[string]string{"file": "file is required"},
		})
		return
	}

	src, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	f, err := h.fileService.Upload(c.Request.Context(), file.UploadInput{
		Filename: header.Filename,
		Content:  src,
		UserID:   auth.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewFileUploadResponse(f))
}

// ServeFile serves the file content by ID
func (h *Handler) ServeFile(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, file.ErrNotFound)
		return
	}

	stream, fileInfo, err := h.fileService.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, fileInfo.ContentType, fileInfo.Filename)
}

// ServeThumbnail serves the thumbnail image by file ID
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, file.ErrNotFound)
		return
	}

	stream, fileInfo, err := h.fileService.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	// Thumbnails are always JPEG.
	h.stream(c, stream, "image/jpeg", fileInfo.ID+"_thumb.jpg")
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, file.ErrNotFound)
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c)
}

func (h *Handler) stream(c *gin.Context, stream io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Header("X-Content-Type-Options", "nosniff")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// The status line is already written.
		slog.WarnContext(c.Request.Context(), "stream file failed", "path", c.Request.URL.Path, "error", err)
	}
}
